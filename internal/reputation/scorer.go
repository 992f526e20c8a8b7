// Package reputation ranks users for the leaderboard with an
// accuracy-weighted composite score.
package reputation

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Composite weights and bounds.
const (
	weightAccuracy   = 0.5
	weightFollowers  = 0.3
	weightEngagement = 0.2

	// Lookback cap on votes considered for accuracy.
	accuracyLookback = 50

	// Additive bonus per consecutive correct prediction, capped.
	streakStep = 2.0
	streakCap  = 10.0
)

// VoteOutcome pairs a past vote with the current price of its ticker.
// A zero price on either side means the quote was unavailable; the vote is
// then excluded from accuracy rather than counted as wrong.
type VoteOutcome struct {
	Direction    int // 1 bullish, -1 bearish
	PriceAtVote  decimal.Decimal
	CurrentPrice decimal.Decimal
}

// evaluable reports whether both prices are known.
func (v VoteOutcome) evaluable() bool {
	return !v.PriceAtVote.IsZero() && !v.CurrentPrice.IsZero()
}

// Correct reports whether the price moved in the voted direction.
func (v VoteOutcome) Correct() bool {
	if v.Direction > 0 {
		return v.CurrentPrice.GreaterThan(v.PriceAtVote)
	}
	return v.CurrentPrice.LessThan(v.PriceAtVote)
}

// Candidate is one user's raw leaderboard inputs. Votes must be ordered
// most recent first.
type Candidate struct {
	UserID     int
	Username   string
	Avatar     string
	Followers  int
	Engagement int // likes received + comments posted
	CreatedAt  time.Time
	Votes      []VoteOutcome
}

// Entry is a scored, ranked leaderboard row.
type Entry struct {
	UserID     int     `json:"user_id"`
	Username   string  `json:"username"`
	Avatar     string  `json:"avatar"`
	Rank       int     `json:"rank"`
	Score      float64 `json:"score"`
	Accuracy   float64 `json:"accuracy"`
	Followers  int     `json:"followers"`
	Engagement int     `json:"engagement"`
	Streak     int     `json:"streak"`
}

// accuracy returns the 0-100 fraction of evaluable votes whose direction
// matched the subsequent price movement, over the lookback window.
func accuracy(votes []VoteOutcome) float64 {
	if len(votes) > accuracyLookback {
		votes = votes[:accuracyLookback]
	}

	evaluated, correct := 0, 0
	for _, v := range votes {
		if !v.evaluable() {
			continue
		}
		evaluated++
		if v.Correct() {
			correct++
		}
	}

	if evaluated == 0 {
		return 0
	}
	return float64(correct) / float64(evaluated) * 100
}

// streak counts consecutive correct predictions from the most recent vote
// backwards, stopping at the first miss.
func streak(votes []VoteOutcome) int {
	n := 0
	for _, v := range votes {
		if !v.evaluable() {
			continue
		}
		if !v.Correct() {
			break
		}
		n++
	}
	return n
}

// Rank scores and orders candidates for the leaderboard. The result is
// deterministic for a fixed input snapshot: ties break by follower count
// descending, then earliest account creation, then user id.
func Rank(candidates []Candidate) []Entry {
	maxFollowers, maxEngagement := 0, 0
	for _, c := range candidates {
		if c.Followers > maxFollowers {
			maxFollowers = c.Followers
		}
		if c.Engagement > maxEngagement {
			maxEngagement = c.Engagement
		}
	}

	entries := make([]Entry, 0, len(candidates))
	for _, c := range candidates {
		acc := accuracy(c.Votes)

		followerNorm := 0.0
		if maxFollowers > 0 {
			followerNorm = float64(c.Followers) / float64(maxFollowers) * 100
		}
		engagementNorm := 0.0
		if maxEngagement > 0 {
			engagementNorm = float64(c.Engagement) / float64(maxEngagement) * 100
		}

		run := streak(c.Votes)
		bonus := math.Min(float64(run)*streakStep, streakCap)

		score := weightAccuracy*acc +
			weightFollowers*followerNorm +
			weightEngagement*engagementNorm +
			bonus
		score = math.Min(math.Max(score, 0), 100)

		entries = append(entries, Entry{
			UserID:     c.UserID,
			Username:   c.Username,
			Avatar:     c.Avatar,
			Score:      math.Round(score*10) / 10,
			Accuracy:   math.Round(acc*10) / 10,
			Followers:  c.Followers,
			Engagement: c.Engagement,
			Streak:     run,
		})
	}

	byID := make(map[int]Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.UserID] = c
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Followers != b.Followers {
			return a.Followers > b.Followers
		}
		ca, cb := byID[a.UserID].CreatedAt, byID[b.UserID].CreatedAt
		if !ca.Equal(cb) {
			return ca.Before(cb)
		}
		return a.UserID < b.UserID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
