package models

import "time"

type Comment struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"index;not null" json:"symbol"`
	Body      string    `gorm:"not null" json:"body"`
	AuthorID  int       `json:"author_id"`
	User      User      `gorm:"foreignKey:AuthorID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentLike - one row per (comment, user), toggled idempotently
type CommentLike struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	CommentID int       `gorm:"uniqueIndex:idx_comment_user" json:"comment_id"`
	UserID    int       `gorm:"uniqueIndex:idx_comment_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	Body string `json:"body"`
}
