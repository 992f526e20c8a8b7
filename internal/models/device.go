package models

import "time"

// DeviceToken - push registration for a user's device
type DeviceToken struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"uniqueIndex:idx_device_user_token" json:"user_id"`
	Token     string    `gorm:"uniqueIndex:idx_device_user_token;not null" json:"token"`
	Platform  string    `json:"platform"` // "web", "ios", "android"
	CreatedAt time.Time `json:"created_at"`
}
