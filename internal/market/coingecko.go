package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// geckoMarket is the raw /coins/markets entry
type geckoMarket struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	MarketCap     float64 `json:"market_cap"`
	MarketCapRank int     `json:"market_cap_rank"`
	TotalVolume   float64 `json:"total_volume"`
	High24h       float64 `json:"high_24h"`
	Low24h        float64 `json:"low_24h"`
	Change24h     float64 `json:"price_change_percentage_24h"`
}

// geckoSearch is the raw /search response
type geckoSearch struct {
	Coins []struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Symbol        string `json:"symbol"`
		MarketCapRank int    `json:"market_cap_rank"`
	} `json:"coins"`
}

// CoinGeckoClient is one of the two interchangeable crypto providers.
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

func (g geckoMarket) normalize() Quote {
	return Quote{
		Symbol:    strings.ToUpper(g.Symbol),
		Name:      g.Name,
		Price:     g.CurrentPrice,
		Change:    g.Change24h,
		MarketCap: g.MarketCap,
		Volume:    g.TotalVolume,
		High24h:   g.High24h,
		Low24h:    g.Low24h,
		Rank:      g.MarketCapRank,
	}
}

// ListMarkets returns the market listing ordered by market cap.
func (c *CoinGeckoClient) ListMarkets(ctx context.Context, limit int) ([]Quote, error) {
	endpoint := fmt.Sprintf("%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1",
		c.baseURL, limit)

	var raw []geckoMarket
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}

	quotes := make([]Quote, 0, len(raw))
	for _, m := range raw {
		quotes = append(quotes, m.normalize())
	}
	return quotes, nil
}

// Search runs a free-text coin search, ranked by market cap.
func (c *CoinGeckoClient) Search(ctx context.Context, query string) ([]Quote, error) {
	endpoint := fmt.Sprintf("%s/search?query=%s", c.baseURL, url.QueryEscape(query))

	var raw geckoSearch
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("coingecko search %q: %w", query, err)
	}

	results := make([]Quote, 0, len(raw.Coins))
	for _, coin := range raw.Coins {
		results = append(results, Quote{
			Symbol: strings.ToUpper(coin.Symbol),
			Name:   coin.Name,
			Rank:   coin.MarketCapRank,
		})
	}
	return results, nil
}

// GetDetails fetches a single coin by its CoinGecko id.
func (c *CoinGeckoClient) GetDetails(ctx context.Context, id string) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/coins/markets?vs_currency=usd&ids=%s",
		c.baseURL, url.QueryEscape(id))

	var raw []geckoMarket
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("coingecko details %s: %w", id, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("coingecko details %s: not found", id)
	}

	q := raw[0].normalize()
	return &q, nil
}

// TopMovers ranks the market listing by absolute 24h change magnitude.
func (c *CoinGeckoClient) TopMovers(ctx context.Context, limit int) ([]Quote, error) {
	quotes, err := c.ListMarkets(ctx, 100)
	if err != nil {
		return nil, err
	}
	return RankMovers(quotes, limit), nil
}

func (c *CoinGeckoClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
