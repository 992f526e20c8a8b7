package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vote directions. A user holds at most one live vote per ticker.
const (
	DirectionBullish = 1
	DirectionBearish = -1
)

// Vote model - tracks the single current vote per (user, ticker)
type Vote struct {
	ID          int             `gorm:"primaryKey" json:"id"`
	UserID      int             `gorm:"uniqueIndex:idx_user_symbol" json:"user_id"`
	Symbol      string          `gorm:"uniqueIndex:idx_user_symbol;not null" json:"symbol"`
	Direction   int             `json:"direction"` // 1 bullish, -1 bearish
	PriceAtVote decimal.Decimal `gorm:"type:numeric(20,8)" json:"price_at_vote"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
