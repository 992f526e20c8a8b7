package market

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// EquityProvider fetches stock quotes and symbol search results.
type EquityProvider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	Search(ctx context.Context, query string) ([]Quote, error)
	BatchQuotes(ctx context.Context, symbols []string) ([]Quote, error)
}

// CryptoProvider fetches crypto market data. Two interchangeable
// implementations exist (CoinGecko and CoinCap); the active one is selected
// by configuration, never swapped at runtime.
type CryptoProvider interface {
	ListMarkets(ctx context.Context, limit int) ([]Quote, error)
	Search(ctx context.Context, query string) ([]Quote, error)
	GetDetails(ctx context.Context, id string) (*Quote, error)
	TopMovers(ctx context.Context, limit int) ([]Quote, error)
}

// NewCryptoProvider builds the configured crypto provider implementation.
func NewCryptoProvider(cfg *Config) (CryptoProvider, error) {
	switch cfg.Crypto.Provider {
	case ProviderCoinGecko:
		return NewCoinGeckoClient(cfg.Crypto.CoinGecko.BaseURL), nil
	case ProviderCoinCap:
		return NewCoinCapClient(cfg.Crypto.CoinCap.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown crypto provider: %q", cfg.Crypto.Provider)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
