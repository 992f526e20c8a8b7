package market

import (
	"math"
	"sort"
)

// Quote is the one normalized shape handed to the API layer, regardless of
// which provider produced it. Missing provider fields stay at zero values.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"` // 24h percent change
	MarketCap float64 `json:"market_cap"`
	Volume    float64 `json:"volume"`
	High24h   float64 `json:"high_24h"`
	Low24h    float64 `json:"low_24h"`
	Rank      int     `json:"rank"`
}

// RankMovers sorts quotes by absolute 24h change magnitude, descending, and
// returns at most limit entries. Input order breaks ties so results are
// stable for a fixed snapshot.
func RankMovers(quotes []Quote, limit int) []Quote {
	ranked := make([]Quote, len(quotes))
	copy(ranked, quotes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Change) > math.Abs(ranked[j].Change)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
