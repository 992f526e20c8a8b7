package market

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Crypto provider names accepted in config.
const (
	ProviderCoinGecko = "coingecko"
	ProviderCoinCap   = "coincap"
)

// Config holds the market-data settings: curated ticker lists, provider
// endpoints and the active crypto provider. Sensitive values are overridden
// from environment variables after load.
type Config struct {
	Equities struct {
		BaseURL string   `yaml:"base_url"`
		APIKey  string   `yaml:"api_key"`
		Symbols []string `yaml:"symbols"`
	} `yaml:"equities"`

	Crypto struct {
		Provider  string `yaml:"provider"` // "coingecko" or "coincap"
		CoinGecko struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"coingecko"`
		CoinCap struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"coincap"`
		Assets []CryptoAsset `yaml:"assets"` // Curated coins
	} `yaml:"crypto"`

	RefreshIntervalSec int `yaml:"refresh_interval_sec"`
}

// CryptoAsset pairs a provider asset id with its display symbol. Both
// CoinGecko and CoinCap use dash-cased ids ("bitcoin", "shiba-inu").
type CryptoAsset struct {
	ID     string `yaml:"id"`
	Symbol string `yaml:"symbol"`
}

// LoadConfig reads and parses the market config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid market configuration: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a usable config when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Equities.BaseURL = "https://finnhub.io/api/v1"
	cfg.Equities.Symbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA"}
	cfg.Crypto.Provider = ProviderCoinGecko
	cfg.Crypto.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	cfg.Crypto.CoinCap.BaseURL = "https://api.coincap.io/v2"
	cfg.Crypto.Assets = []CryptoAsset{
		{ID: "bitcoin", Symbol: "BTC"},
		{ID: "ethereum", Symbol: "ETH"},
		{ID: "solana", Symbol: "SOL"},
		{ID: "dogecoin", Symbol: "DOGE"},
	}
	cfg.RefreshIntervalSec = 60
	overrideWithEnv(cfg)
	return cfg
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Crypto.Provider != ProviderCoinGecko && c.Crypto.Provider != ProviderCoinCap {
		return fmt.Errorf("crypto provider must be %q or %q, got %q",
			ProviderCoinGecko, ProviderCoinCap, c.Crypto.Provider)
	}
	if len(c.Equities.Symbols) == 0 && len(c.Crypto.Assets) == 0 {
		return fmt.Errorf("at least one curated symbol is required")
	}
	if c.RefreshIntervalSec <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	return nil
}

// overrideWithEnv replaces config values when environment variables are set.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		cfg.Equities.APIKey = key
	}
	if provider := os.Getenv("CRYPTO_PROVIDER"); provider != "" {
		cfg.Crypto.Provider = provider
	}
}
