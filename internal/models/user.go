package models

import "time"

type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // For email/password auth
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"` // Emoji token or uploaded image URL
	Phone    string `json:"-"`      // Optional, for SMS notifications

	// Anonymous users keep voting but are masked on public surfaces
	Anonymous bool `json:"anonymous"`

	// OAuth fields
	GoogleID     string `gorm:"index" json:"-"` // Google user ID
	AuthProvider string `json:"auth_provider"`  // "email", "google"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the name shown on public surfaces (leaderboard,
// comments). Anonymous profiles are masked.
func (u *User) DisplayName() string {
	if u.Anonymous {
		return "Anonymous"
	}
	return u.Username
}

// DisplayAvatar returns the avatar shown on public surfaces.
func (u *User) DisplayAvatar() string {
	if u.Anonymous {
		return ""
	}
	return u.Avatar
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"` // Optional avatar selection
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OAuthRequest struct {
	Token    string `json:"token" binding:"required"` // OAuth token from frontend
	Username string `json:"username"`                 // Optional, for first-time setup
	Avatar   string `json:"avatar"`                   // Optional, avatar selection
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}
