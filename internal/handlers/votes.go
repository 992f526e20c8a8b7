package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ryanlallier24/finnysights-sub000/internal/market"
	"github.com/ryanlallier24/finnysights-sub000/internal/models"
	"github.com/ryanlallier24/finnysights-sub000/internal/sentiment"
)

type VoteHandler struct {
	db    *gorm.DB
	cache *market.Cache
}

func NewVoteHandler(db *gorm.DB, cache *market.Cache) *VoteHandler {
	return &VoteHandler{db: db, cache: cache}
}

// countVotes derives up/down counts from the live vote rows, never from a
// running total, so up+down always equals the number of live votes.
func countVotes(db *gorm.DB, symbol string) (int, int) {
	var up, down int64
	db.Model(&models.Vote{}).Where("symbol = ? AND direction = ?", symbol, models.DirectionBullish).Count(&up)
	db.Model(&models.Vote{}).Where("symbol = ? AND direction = ?", symbol, models.DirectionBearish).Count(&down)
	return int(up), int(down)
}

func parseDirection(s string) (int, bool) {
	switch strings.ToLower(s) {
	case "bullish":
		return models.DirectionBullish, true
	case "bearish":
		return models.DirectionBearish, true
	default:
		return 0, false
	}
}

// Vote casts, switches, or toggles off the caller's vote on a ticker.
// The upsert runs in a transaction so a switch never leaves a transient
// state where both directions count the same vote.
func (h *VoteHandler) Vote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Direction must be bullish or bearish"})
		return
	}

	direction, ok := parseDirection(input.Direction)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Direction must be bullish or bearish"})
		return
	}

	// Stamp the live price so accuracy can be judged later. A missing quote
	// leaves the price at zero and the vote out of accuracy scoring.
	priceAtVote := decimal.Zero
	if q, ok := h.cache.Get(c.Request.Context(), symbol); ok {
		priceAtVote = decimal.NewFromFloat(q.Price)
	}

	var message string
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("user_id = ? AND symbol = ?", voterID, symbol).First(&existing).Error

		if err == nil {
			if existing.Direction == direction {
				// Same vote - remove it (toggle)
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
				message = "Vote removed"
				return nil
			}
			// Different vote - update in place
			existing.Direction = direction
			existing.PriceAtVote = priceAtVote
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			message = "Vote updated"
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		vote := models.Vote{
			UserID:      voterID,
			Symbol:      symbol,
			Direction:   direction,
			PriceAtVote: priceAtVote,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		message = "Vote recorded"
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}

	up, down := countVotes(h.db, symbol)
	score := sentiment.BullishPercent(up, down)

	c.JSON(http.StatusOK, gin.H{
		"message":         message,
		"symbol":          symbol,
		"up_count":        up,
		"down_count":      down,
		"bullish_percent": score,
		"sentiment":       sentiment.Label(score),
	})
}

// RemoveVote retracts the caller's vote on a ticker.
func (h *VoteHandler) RemoveVote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.db.Where("user_id = ? AND symbol = ?", voterID, symbol).Delete(&models.Vote{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove vote"})
		return
	}

	up, down := countVotes(h.db, symbol)
	score := sentiment.BullishPercent(up, down)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Vote removed",
		"symbol":          symbol,
		"up_count":        up,
		"down_count":      down,
		"bullish_percent": score,
		"sentiment":       sentiment.Label(score),
	})
}
