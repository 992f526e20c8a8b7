package models

import "time"

// WatchlistItem - per-user saved ticker, no automatic expiry
type WatchlistItem struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"uniqueIndex:idx_watch_user_symbol" json:"user_id"`
	Symbol    string    `gorm:"uniqueIndex:idx_watch_user_symbol;not null" json:"symbol"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"added_at"`
}

type AddWatchlistRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
