package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ryanlallier24/finnysights-sub000/internal/market"
	"github.com/ryanlallier24/finnysights-sub000/internal/notify"
)

// Handler combines all handler types
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Vote        *VoteHandler
	Comment     *CommentHandler
	Ticker      *TickerHandler
	Watchlist   *WatchlistHandler
	Leaderboard *LeaderboardHandler
	Upload      *UploadHandler
	Device      *DeviceHandler
	Stream      *StreamHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *market.Config, cache *market.Cache,
	equities market.EquityProvider, crypto market.CryptoProvider,
	notifier *notify.Notifier) *Handler {

	return &Handler{
		Auth:        NewAuthHandler(db, notifier),
		User:        NewUserHandler(db, notifier),
		Vote:        NewVoteHandler(db, cache),
		Comment:     NewCommentHandler(db),
		Ticker:      NewTickerHandler(db, cfg, cache, equities, crypto),
		Watchlist:   NewWatchlistHandler(db),
		Leaderboard: NewLeaderboardHandler(db, cache),
		Upload:      NewUploadHandler(db),
		Device:      NewDeviceHandler(db),
		Stream:      NewStreamHandler(cache),
	}
}

// extractUserID reads the authenticated user id set by the auth middleware.
func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
