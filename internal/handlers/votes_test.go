package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanlallier24/finnysights-sub000/internal/models"
)

func TestVoteRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	w := env.doJSON(t, http.MethodPost, "/api/tickers/AAPL/vote", map[string]string{"direction": "bullish"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVoteRejectsBadDirection(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "trader")
	auth := env.bearer(t, user)

	w := env.doJSON(t, http.MethodPost, "/api/tickers/AAPL/vote", map[string]string{"direction": "sideways"}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/tickers/AAPL/vote", map[string]string{}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoteCastStampsPrice(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "trader")
	auth := env.bearer(t, user)

	w := env.doJSON(t, http.MethodPost, "/api/tickers/aapl/vote", map[string]string{"direction": "bullish"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Vote recorded", body["message"])
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, 1.0, body["up_count"])
	assert.Equal(t, 0.0, body["down_count"])
	assert.Equal(t, 100.0, body["bullish_percent"])
	assert.Equal(t, "Extremely Bullish", body["sentiment"])

	var vote models.Vote
	require.NoError(t, env.db.Where("user_id = ? AND symbol = ?", user.ID, "AAPL").First(&vote).Error)
	assert.Equal(t, models.DirectionBullish, vote.Direction)
	assert.Equal(t, "189.84", vote.PriceAtVote.String())
}

func TestVoteUnknownQuoteStampsZero(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "trader")
	auth := env.bearer(t, user)

	w := env.doJSON(t, http.MethodPost, "/api/tickers/ZZZZ/vote", map[string]string{"direction": "bearish"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	var vote models.Vote
	require.NoError(t, env.db.Where("user_id = ? AND symbol = ?", user.ID, "ZZZZ").First(&vote).Error)
	assert.True(t, vote.PriceAtVote.IsZero())
}

func TestVoteToggleRemoves(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "trader")
	auth := env.bearer(t, user)

	env.doJSON(t, http.MethodPost, "/api/tickers/AAPL/vote", map[string]string{"direction": "bullish"}, auth)
	w := env.doJSON(t, http.MethodPost, "/api/tickers/AAPL/vote", map[string]string{"direction": "bullish"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Vote removed", body["message"])
	assert.Equal(t, 0.0, body["up_count"])
	assert.Equal(t, 0.0, body["down_count"])
	assert.Equal(t, 50.0, body["bullish_percent"])
	assert.Equal(t, "Neutral", body["sentiment"])

	assert.Equal(t, 0, countRows(t, env.db, &models.Vote{}, "user_id = ?", user.ID))
}

func TestVoteSwitchKeepsSingleRow(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "trader")
	auth := env.bearer(t, user)

	env.doJSON(t, http.MethodPost, "/api/tickers/AAPL/vote", map[string]string{"direction": "bullish"}, auth)
	w := env.doJSON(t, http.MethodPost, "/api/tickers/AAPL/vote", map[string]string{"direction": "bearish"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Vote updated", body["message"])
	assert.Equal(t, 0.0, body["up_count"])
	assert.Equal(t, 1.0, body["down_count"])

	assert.Equal(t, 1, countRows(t, env.db, &models.Vote{}, "user_id = ? AND symbol = ?", user.ID, "AAPL"))
}

// Counts are derived from live rows, so up+down always equals the number of
// votes no matter how the sequence of casts, switches, and toggles runs.
func TestVoteCountsMatchRowsAcrossSequence(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	aliceAuth := env.bearer(t, alice)
	bobAuth := env.bearer(t, bob)
	carolAuth := env.bearer(t, carol)

	steps := []struct {
		auth      string
		direction string
	}{
		{aliceAuth, "bullish"},
		{bobAuth, "bearish"},
		{carolAuth, "bullish"},
		{aliceAuth, "bearish"}, // switch
		{bobAuth, "bearish"},   // toggle off
		{carolAuth, "bullish"}, // toggle off
		{bobAuth, "bullish"},   // re-cast
	}

	for _, step := range steps {
		w := env.doJSON(t, http.MethodPost, "/api/tickers/TSLA/vote", map[string]string{"direction": step.direction}, step.auth)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		up := int(body["up_count"].(float64))
		down := int(body["down_count"].(float64))
		live := countRows(t, env.db, &models.Vote{}, "symbol = ?", "TSLA")
		assert.Equal(t, live, up+down)
	}

	// Final state: alice bearish, bob bullish
	w := env.doJSON(t, http.MethodGet, "/api/tickers/TSLA", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRemoveVote(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "trader")
	auth := env.bearer(t, user)

	env.doJSON(t, http.MethodPost, "/api/tickers/AAPL/vote", map[string]string{"direction": "bullish"}, auth)

	w := env.doJSON(t, http.MethodDelete, "/api/tickers/AAPL/vote", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, 0.0, body["up_count"])
	assert.Equal(t, 0, countRows(t, env.db, &models.Vote{}, "user_id = ?", user.ID))

	// Retracting again is a no-op
	w = env.doJSON(t, http.MethodDelete, "/api/tickers/AAPL/vote", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVotesAreIndependentPerTicker(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "trader")
	auth := env.bearer(t, user)

	env.doJSON(t, http.MethodPost, "/api/tickers/AAPL/vote", map[string]string{"direction": "bullish"}, auth)
	w := env.doJSON(t, http.MethodPost, "/api/tickers/BTC/vote", map[string]string{"direction": "bearish"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 2, countRows(t, env.db, &models.Vote{}, "user_id = ?", user.ID))
}
