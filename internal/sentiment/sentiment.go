// Package sentiment derives a 0-100 bullishness score and its label from
// live vote counts.
package sentiment

import "math"

// Label boundaries on the 0-100 score.
const (
	thresholdExtreme = 80
	thresholdBullish = 60
	thresholdNeutral = 40
)

// BullishPercent converts up/down vote counts to a 0-100 bullishness
// percentage. No votes means neutral, 50.
func BullishPercent(up, down int) int {
	total := up + down
	if total == 0 {
		return 50
	}
	return int(math.Round(float64(up) / float64(total) * 100))
}

// Label maps a 0-100 score to its sentiment tier.
func Label(score int) string {
	switch {
	case score >= thresholdExtreme:
		return "Extremely Bullish"
	case score >= thresholdBullish:
		return "Bullish"
	case score >= thresholdNeutral:
		return "Neutral"
	default:
		return "Bearish"
	}
}
