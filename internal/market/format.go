package market

import (
	"fmt"
	"strings"
)

// FormatPrice renders a USD price with tiered precision: 2 decimals with
// thousands separators at $1 and above, 4 decimals between $0.01 and $1,
// 8 decimals below $0.01.
func FormatPrice(price float64) string {
	switch {
	case price >= 1:
		return "$" + groupThousands(fmt.Sprintf("%.2f", price))
	case price >= 0.01:
		return fmt.Sprintf("$%.4f", price)
	default:
		return fmt.Sprintf("$%.8f", price)
	}
}

// FormatMarketCap abbreviates a market cap with T/B/M suffixes at
// 1e12/1e9/1e6 thresholds.
func FormatMarketCap(cap float64) string {
	switch {
	case cap >= 1e12:
		return fmt.Sprintf("$%.2fT", cap/1e12)
	case cap >= 1e9:
		return fmt.Sprintf("$%.2fB", cap/1e9)
	case cap >= 1e6:
		return fmt.Sprintf("$%.2fM", cap/1e6)
	default:
		return fmt.Sprintf("$%.0f", cap)
	}
}

// groupThousands inserts commas into the integer part of a formatted
// decimal string.
func groupThousands(s string) string {
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	if len(intPart) <= 3 {
		return intPart + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + fracPart
}
