package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// capAsset is the raw /assets entry. CoinCap serializes all numbers as
// strings.
type capAsset struct {
	ID               string `json:"id"`
	Rank             string `json:"rank"`
	Symbol           string `json:"symbol"`
	Name             string `json:"name"`
	MarketCapUsd     string `json:"marketCapUsd"`
	VolumeUsd24Hr    string `json:"volumeUsd24Hr"`
	PriceUsd         string `json:"priceUsd"`
	ChangePercent24h string `json:"changePercent24Hr"`
}

type capListResponse struct {
	Data []capAsset `json:"data"`
}

type capDetailResponse struct {
	Data capAsset `json:"data"`
}

// CoinCapClient is the alternative crypto provider implementation.
type CoinCapClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCoinCapClient(baseURL string) *CoinCapClient {
	return &CoinCapClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

// parseNum tolerates empty and malformed strings, defaulting to 0 so a bad
// field never drops the whole record.
func parseNum(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func (a capAsset) normalize() Quote {
	return Quote{
		Symbol:    strings.ToUpper(a.Symbol),
		Name:      a.Name,
		Price:     parseNum(a.PriceUsd),
		Change:    parseNum(a.ChangePercent24h),
		MarketCap: parseNum(a.MarketCapUsd),
		Volume:    parseNum(a.VolumeUsd24Hr),
		Rank:      int(parseNum(a.Rank)),
	}
}

// ListMarkets returns the asset listing ordered by rank.
func (c *CoinCapClient) ListMarkets(ctx context.Context, limit int) ([]Quote, error) {
	endpoint := fmt.Sprintf("%s/assets?limit=%d", c.baseURL, limit)

	var raw capListResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("coincap assets: %w", err)
	}

	quotes := make([]Quote, 0, len(raw.Data))
	for _, a := range raw.Data {
		quotes = append(quotes, a.normalize())
	}
	return quotes, nil
}

// Search runs a free-text asset search.
func (c *CoinCapClient) Search(ctx context.Context, query string) ([]Quote, error) {
	endpoint := fmt.Sprintf("%s/assets?search=%s", c.baseURL, url.QueryEscape(query))

	var raw capListResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("coincap search %q: %w", query, err)
	}

	results := make([]Quote, 0, len(raw.Data))
	for _, a := range raw.Data {
		results = append(results, a.normalize())
	}
	return results, nil
}

// GetDetails fetches a single asset by its CoinCap id.
func (c *CoinCapClient) GetDetails(ctx context.Context, id string) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/assets/%s", c.baseURL, url.PathEscape(id))

	var raw capDetailResponse
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("coincap details %s: %w", id, err)
	}

	q := raw.Data.normalize()
	return &q, nil
}

// TopMovers ranks the asset listing by absolute 24h change magnitude.
func (c *CoinCapClient) TopMovers(ctx context.Context, limit int) ([]Quote, error) {
	quotes, err := c.ListMarkets(ctx, 100)
	if err != nil {
		return nil, err
	}
	return RankMovers(quotes, limit), nil
}

func (c *CoinCapClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
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
