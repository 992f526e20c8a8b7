package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ryanlallier24/finnysights-sub000/internal/market"
	"github.com/ryanlallier24/finnysights-sub000/internal/models"
	"github.com/ryanlallier24/finnysights-sub000/internal/sentiment"
)

type TickerHandler struct {
	db       *gorm.DB
	cfg      *market.Config
	cache    *market.Cache
	equities market.EquityProvider
	crypto   market.CryptoProvider
}

func NewTickerHandler(db *gorm.DB, cfg *market.Config, cache *market.Cache,
	equities market.EquityProvider, crypto market.CryptoProvider) *TickerHandler {
	return &TickerHandler{db: db, cfg: cfg, cache: cache, equities: equities, crypto: crypto}
}

func (h *TickerHandler) tickerEntry(c *gin.Context, symbol, kind string) gin.H {
	// A missing quote still renders the ticker, just with zeros.
	quote, _ := h.cache.Get(c.Request.Context(), symbol)

	up, down := countVotes(h.db, symbol)
	score := sentiment.BullishPercent(up, down)

	return gin.H{
		"symbol":             symbol,
		"kind":               kind,
		"quote":              quote,
		"price_display":      market.FormatPrice(quote.Price),
		"market_cap_display": market.FormatMarketCap(quote.MarketCap),
		"up_count":           up,
		"down_count":         down,
		"bullish_percent":    score,
		"sentiment":          sentiment.Label(score),
	}
}

// ListTickers returns the curated ticker list with quotes and sentiment
func (h *TickerHandler) ListTickers(c *gin.Context) {
	entries := make([]gin.H, 0, len(h.cfg.Equities.Symbols)+len(h.cfg.Crypto.Assets))

	for _, symbol := range h.cfg.Equities.Symbols {
		entries = append(entries, h.tickerEntry(c, strings.ToUpper(symbol), "stock"))
	}
	for _, asset := range h.cfg.Crypto.Assets {
		entries = append(entries, h.tickerEntry(c, strings.ToUpper(asset.Symbol), "crypto"))
	}

	c.JSON(http.StatusOK, entries)
}

// GetTicker returns one ticker's quote, sentiment, and the viewer's vote
func (h *TickerHandler) GetTicker(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	quote, found := h.cache.Get(c.Request.Context(), symbol)
	if !found {
		// Not curated — go to the equities provider directly, degrading to
		// a zero quote on failure.
		if q, err := h.equities.Quote(c.Request.Context(), symbol); err == nil {
			quote = *q
		} else {
			slog.Warn("Quote fetch failed", slog.String("symbol", symbol), slog.Any("error", err))
		}
	}

	up, down := countVotes(h.db, symbol)
	score := sentiment.BullishPercent(up, down)

	myVote := ""
	if viewerID, ok := extractUserID(c); ok {
		var vote models.Vote
		if err := h.db.Where("user_id = ? AND symbol = ?", viewerID, symbol).First(&vote).Error; err == nil {
			if vote.Direction == models.DirectionBullish {
				myVote = "bullish"
			} else {
				myVote = "bearish"
			}
		}
	}

	var commentCount int64
	h.db.Model(&models.Comment{}).Where("symbol = ?", symbol).Count(&commentCount)

	c.JSON(http.StatusOK, gin.H{
		"symbol":             symbol,
		"quote":              quote,
		"price_display":      market.FormatPrice(quote.Price),
		"market_cap_display": market.FormatMarketCap(quote.MarketCap),
		"up_count":           up,
		"down_count":         down,
		"bullish_percent":    score,
		"sentiment":          sentiment.Label(score),
		"my_vote":            myVote,
		"comment_count":      commentCount,
	})
}

// Search merges equity and crypto free-text search. Either provider failing
// degrades that side to empty, never a 5xx.
func (h *TickerHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"stocks": []market.Quote{}, "crypto": []market.Quote{}})
		return
	}

	ctx := c.Request.Context()

	stocks, err := h.equities.Search(ctx, query)
	if err != nil {
		slog.Warn("Equity search failed", slog.String("query", query), slog.Any("error", err))
		stocks = []market.Quote{}
	}

	crypto, err := h.crypto.Search(ctx, query)
	if err != nil {
		slog.Warn("Crypto search failed", slog.String("query", query), slog.Any("error", err))
		crypto = []market.Quote{}
	}

	c.JSON(http.StatusOK, gin.H{"stocks": stocks, "crypto": crypto})
}

// Movers returns crypto top movers by absolute 24h change
func (h *TickerHandler) Movers(c *gin.Context) {
	movers, err := h.crypto.TopMovers(c.Request.Context(), 10)
	if err != nil {
		slog.Warn("Top movers fetch failed", slog.Any("error", err))
		movers = []market.Quote{}
	}

	c.JSON(http.StatusOK, movers)
}
