package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinCapListMarkets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"id":"bitcoin","rank":"1","symbol":"BTC","name":"Bitcoin",
			 "marketCapUsd":"1280000000000.55","volumeUsd24Hr":"35000000000.1",
			 "priceUsd":"65000.118","changePercent24Hr":"2.41"},
			{"id":"solana","rank":"5","symbol":"SOL","name":"Solana",
			 "priceUsd":"145.30","changePercent24Hr":"","marketCapUsd":"garbage"}
		]}`))
	}))
	defer server.Close()

	client := NewCoinCapClient(server.URL)
	quotes, err := client.ListMarkets(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "BTC", quotes[0].Symbol)
	assert.Equal(t, 1, quotes[0].Rank)
	assert.InDelta(t, 65000.118, quotes[0].Price, 1e-9)
	assert.InDelta(t, 2.41, quotes[0].Change, 1e-9)

	// Empty and malformed numeric strings default to zero
	assert.Equal(t, 0.0, quotes[1].Change)
	assert.Equal(t, 0.0, quotes[1].MarketCap)
	assert.InDelta(t, 145.30, quotes[1].Price, 1e-9)
}

func TestCoinCapSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sol", r.URL.Query().Get("search"))
		w.Write([]byte(`{"data":[
			{"id":"solana","rank":"5","symbol":"SOL","name":"Solana","priceUsd":"145.3"}
		]}`))
	}))
	defer server.Close()

	client := NewCoinCapClient(server.URL)
	results, err := client.Search(context.Background(), "sol")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "SOL", results[0].Symbol)
	assert.Equal(t, "Solana", results[0].Name)
}

func TestCoinCapGetDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets/bitcoin", r.URL.Path)
		w.Write([]byte(`{"data":{"id":"bitcoin","rank":"1","symbol":"BTC","name":"Bitcoin","priceUsd":"65000"}}`))
	}))
	defer server.Close()

	client := NewCoinCapClient(server.URL)
	q, err := client.GetDetails(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "BTC", q.Symbol)
	assert.Equal(t, 65000.0, q.Price)
}

func TestCoinCapErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewCoinCapClient(server.URL)
	_, err := client.Search(context.Background(), "sol")
	assert.Error(t, err)
}
