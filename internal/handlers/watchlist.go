package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ryanlallier24/finnysights-sub000/internal/models"
)

type WatchlistHandler struct {
	db *gorm.DB
}

func NewWatchlistHandler(db *gorm.DB) *WatchlistHandler {
	return &WatchlistHandler{db: db}
}

// GetWatchlist returns the caller's saved tickers
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var items []models.WatchlistItem
	if err := h.db.Where("user_id = ?", userID).Order("created_at desc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch watchlist"})
		return
	}

	if items == nil {
		items = []models.WatchlistItem{}
	}

	c.JSON(http.StatusOK, items)
}

// AddToWatchlist saves a ticker for the caller
func (h *WatchlistHandler) AddToWatchlist(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Symbol string `json:"symbol" binding:"required"`
		Name   string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Symbol is required"})
		return
	}

	symbol := strings.ToUpper(input.Symbol)

	var existing models.WatchlistItem
	if err := h.db.Where("user_id = ? AND symbol = ?", userID, symbol).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	item := models.WatchlistItem{
		UserID: userID,
		Symbol: symbol,
		Name:   input.Name,
	}

	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to watchlist"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// RemoveFromWatchlist removes a saved ticker; removing an absent one is a
// no-op.
func (h *WatchlistHandler) RemoveFromWatchlist(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	symbol := strings.ToUpper(c.Param("symbol"))

	if err := h.db.Where("user_id = ? AND symbol = ?", userID, symbol).Delete(&models.WatchlistItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from watchlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from watchlist"})
}
