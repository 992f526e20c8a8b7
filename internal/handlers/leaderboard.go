package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ryanlallier24/finnysights-sub000/internal/market"
	"github.com/ryanlallier24/finnysights-sub000/internal/models"
	"github.com/ryanlallier24/finnysights-sub000/internal/reputation"
)

// Leaderboard size cap.
const leaderboardLimit = 100

type LeaderboardHandler struct {
	db    *gorm.DB
	cache *market.Cache
}

func NewLeaderboardHandler(db *gorm.DB, cache *market.Cache) *LeaderboardHandler {
	return &LeaderboardHandler{db: db, cache: cache}
}

// GetLeaderboard scores and ranks users on demand. There is no background
// recomputation; every view load reflects the current vote and follow state.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at asc").Limit(leaderboardLimit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	ctx := c.Request.Context()

	candidates := make([]reputation.Candidate, 0, len(users))
	for _, user := range users {
		var votes []models.Vote
		h.db.Where("user_id = ?", user.ID).Order("updated_at desc").Find(&votes)

		outcomes := make([]reputation.VoteOutcome, 0, len(votes))
		for _, vote := range votes {
			current := decimal.Zero
			if q, ok := h.cache.Get(ctx, vote.Symbol); ok {
				current = decimal.NewFromFloat(q.Price)
			}
			outcomes = append(outcomes, reputation.VoteOutcome{
				Direction:    vote.Direction,
				PriceAtVote:  vote.PriceAtVote,
				CurrentPrice: current,
			})
		}

		var followers int64
		h.db.Model(&models.Follow{}).Where("following_id = ?", user.ID).Count(&followers)

		var commentsPosted, likesReceived int64
		h.db.Model(&models.Comment{}).Where("author_id = ?", user.ID).Count(&commentsPosted)
		h.db.Model(&models.CommentLike{}).
			Joins("JOIN comments ON comments.id = comment_likes.comment_id").
			Where("comments.author_id = ?", user.ID).
			Count(&likesReceived)

		candidates = append(candidates, reputation.Candidate{
			UserID:     user.ID,
			Username:   user.DisplayName(),
			Avatar:     user.DisplayAvatar(),
			Followers:  int(followers),
			Engagement: int(commentsPosted + likesReceived),
			CreatedAt:  user.CreatedAt,
			Votes:      outcomes,
		})
	}

	entries := reputation.Rank(candidates)
	c.JSON(http.StatusOK, entries)
}
