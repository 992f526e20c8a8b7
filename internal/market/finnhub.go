package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// finnhubQuote is the raw /quote response
type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
}

// finnhubSearch is the raw /search response
type finnhubSearch struct {
	Count  int `json:"count"`
	Result []struct {
		Description   string `json:"description"`
		DisplaySymbol string `json:"displaySymbol"`
		Symbol        string `json:"symbol"`
		Type          string `json:"type"`
	} `json:"result"`
}

// FinnhubClient is the equities quote/search provider.
type FinnhubClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewFinnhubClient(baseURL, apiKey string) *FinnhubClient {
	return &FinnhubClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: newHTTPClient(),
	}
}

// Quote fetches the current quote for a single symbol.
func (c *FinnhubClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	var raw finnhubQuote
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("finnhub quote %s: %w", symbol, err)
	}

	return &Quote{
		Symbol:  symbol,
		Price:   raw.Current,
		Change:  raw.PercentChange,
		High24h: raw.High,
		Low24h:  raw.Low,
	}, nil
}

// Search runs a free-text symbol search.
func (c *FinnhubClient) Search(ctx context.Context, query string) ([]Quote, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&token=%s",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(c.apiKey))

	var raw finnhubSearch
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("finnhub search %q: %w", query, err)
	}

	results := make([]Quote, 0, len(raw.Result))
	for _, r := range raw.Result {
		results = append(results, Quote{
			Symbol: r.DisplaySymbol,
			Name:   r.Description,
		})
	}
	return results, nil
}

// BatchQuotes fetches quotes for multiple symbols. Symbols that fail are
// skipped so one bad symbol never empties the whole list.
func (c *FinnhubClient) BatchQuotes(ctx context.Context, symbols []string) ([]Quote, error) {
	quotes := make([]Quote, 0, len(symbols))
	var lastErr error
	for _, symbol := range symbols {
		q, err := c.Quote(ctx, symbol)
		if err != nil {
			lastErr = err
			continue
		}
		quotes = append(quotes, *q)
	}
	if len(quotes) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return quotes, nil
}

func (c *FinnhubClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

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
