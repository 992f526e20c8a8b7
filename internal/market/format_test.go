package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{1234.5, "$1,234.50"},
		{1, "$1.00"},
		{87321.12, "$87,321.12"},
		{1234567.891, "$1,234,567.89"},
		{0.5, "$0.5000"},
		{0.01, "$0.0100"},
		{0.004, "$0.00400000"},
		{0.00001234, "$0.00001234"},
		{0, "$0.00000000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.price), "price %v", tt.price)
	}
}

func TestFormatMarketCap(t *testing.T) {
	tests := []struct {
		cap  float64
		want string
	}{
		{2.5e12, "$2.50T"},
		{3.1e9, "$3.10B"},
		{7.25e6, "$7.25M"},
		{500, "$500"},
		{0, "$0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMarketCap(tt.cap), "cap %v", tt.cap)
	}
}

func TestRankMovers(t *testing.T) {
	quotes := []Quote{
		{Symbol: "BTC", Change: 2.1},
		{Symbol: "DOGE", Change: -18.4},
		{Symbol: "ETH", Change: 5.0},
		{Symbol: "SOL", Change: 18.4},
	}

	ranked := RankMovers(quotes, 3)

	assert.Len(t, ranked, 3)
	// Equal magnitudes keep input order (stable sort)
	assert.Equal(t, "DOGE", ranked[0].Symbol)
	assert.Equal(t, "SOL", ranked[1].Symbol)
	assert.Equal(t, "ETH", ranked[2].Symbol)

	// Original slice untouched
	assert.Equal(t, "BTC", quotes[0].Symbol)
}
