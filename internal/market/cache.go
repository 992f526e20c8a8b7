package market

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Cache holds the latest quote snapshot for the curated tickers. Quotes are
// refreshed at most once per refresh interval; a failed refresh leaves the
// previous snapshot standing until the next cycle.
type Cache struct {
	mu        sync.RWMutex
	quotes    map[string]Quote
	fetchedAt time.Time

	cfg      *Config
	equities EquityProvider
	crypto   CryptoProvider
}

func NewCache(cfg *Config, equities EquityProvider, crypto CryptoProvider) *Cache {
	return &Cache{
		quotes:   make(map[string]Quote),
		cfg:      cfg,
		equities: equities,
		crypto:   crypto,
	}
}

// RefreshInterval is how long a snapshot stays fresh.
func (c *Cache) RefreshInterval() time.Duration {
	return time.Duration(c.cfg.RefreshIntervalSec) * time.Second
}

// Quotes returns the current snapshot for all curated tickers, refreshing
// it first when stale.
func (c *Cache) Quotes(ctx context.Context) []Quote {
	c.refreshIfStale(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Quote, 0, len(c.quotes))
	for _, sym := range c.cfg.Equities.Symbols {
		if q, ok := c.quotes[sym]; ok {
			out = append(out, q)
		}
	}
	for _, asset := range c.cfg.Crypto.Assets {
		if q, ok := c.quotes[strings.ToUpper(asset.Symbol)]; ok {
			out = append(out, q)
		}
	}
	return out
}

// Get returns the snapshot quote for one symbol.
func (c *Cache) Get(ctx context.Context, symbol string) (Quote, bool) {
	c.refreshIfStale(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()

	q, ok := c.quotes[strings.ToUpper(symbol)]
	return q, ok
}

func (c *Cache) refreshIfStale(ctx context.Context) {
	c.mu.RLock()
	fresh := time.Since(c.fetchedAt) < c.RefreshInterval()
	c.mu.RUnlock()
	if fresh {
		return
	}
	c.Refresh(ctx)
}

// Refresh fetches fresh quotes for every curated ticker. Each provider
// failure is logged and the stale entry is kept.
func (c *Cache) Refresh(ctx context.Context) {
	updated := make(map[string]Quote)

	if len(c.cfg.Equities.Symbols) > 0 {
		quotes, err := c.equities.BatchQuotes(ctx, c.cfg.Equities.Symbols)
		if err != nil {
			slog.Warn("Equity quote refresh failed", slog.Any("error", err))
		}
		for _, q := range quotes {
			updated[strings.ToUpper(q.Symbol)] = q
		}
	}

	for _, asset := range c.cfg.Crypto.Assets {
		q, err := c.crypto.GetDetails(ctx, asset.ID)
		if err != nil {
			slog.Warn("Crypto quote refresh failed", slog.String("id", asset.ID), slog.Any("error", err))
			continue
		}
		updated[strings.ToUpper(asset.Symbol)] = *q
	}

	c.mu.Lock()
	for sym, q := range updated {
		c.quotes[sym] = q
	}
	c.fetchedAt = time.Now()
	c.mu.Unlock()
}
