package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/ryanlallier24/finnysights-sub000/internal/models"
)

// ugcPolicy strips anything beyond basic user-generated markup from
// comment bodies.
var ugcPolicy = bluemonday.UGCPolicy()

type CommentHandler struct {
	db *gorm.DB
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

func (h *CommentHandler) likeInfo(commentID int, viewerID int) (int, bool) {
	var likes int64
	h.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&likes)

	liked := false
	if viewerID != 0 {
		var like models.CommentLike
		err := h.db.Where("comment_id = ? AND user_id = ?", commentID, viewerID).First(&like).Error
		liked = err == nil
	}
	return int(likes), liked
}

// GetComments returns all comments for a ticker with like counts
func (h *CommentHandler) GetComments(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	viewerID, _ := extractUserID(c)

	var comments []models.Comment
	if err := h.db.Where("symbol = ?", symbol).Preload("User").Order("created_at desc").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	var responses []gin.H
	for _, comment := range comments {
		likes, liked := h.likeInfo(comment.ID, viewerID)
		responses = append(responses, gin.H{
			"id":         comment.ID,
			"symbol":     comment.Symbol,
			"body":       comment.Body,
			"author_id":  comment.AuthorID,
			"author":     comment.User.DisplayName(),
			"avatar":     comment.User.DisplayAvatar(),
			"likes":      likes,
			"liked":      liked,
			"created_at": comment.CreatedAt,
			"updated_at": comment.UpdatedAt,
		})
	}

	if responses == nil {
		responses = []gin.H{}
	}

	c.JSON(http.StatusOK, responses)
}

// CreateComment creates a new comment on a ticker
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var input struct {
		Body string `json:"body" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symbol := strings.ToUpper(c.Param("symbol"))
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	body := strings.TrimSpace(ugcPolicy.Sanitize(input.Body))
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment body is empty"})
		return
	}

	comment := models.Comment{
		Symbol:   symbol,
		Body:     body,
		AuthorID: authorID,
	}

	if err := h.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	h.db.Preload("User").First(&comment, comment.ID)
	c.JSON(http.StatusCreated, comment)
}

// UpdateComment updates a comment (owner only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID := c.Param("commentId")

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.AuthorID != authorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own comments"})
		return
	}

	body := strings.TrimSpace(ugcPolicy.Sanitize(input.Body))
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment body is empty"})
		return
	}

	comment.Body = body
	h.db.Save(&comment)
	h.db.Preload("User").First(&comment, comment.ID)

	likes, liked := h.likeInfo(comment.ID, authorID)
	c.JSON(http.StatusOK, gin.H{
		"id":         comment.ID,
		"symbol":     comment.Symbol,
		"body":       comment.Body,
		"author_id":  comment.AuthorID,
		"likes":      likes,
		"liked":      liked,
		"created_at": comment.CreatedAt,
		"updated_at": comment.UpdatedAt,
	})
}

// DeleteComment deletes a comment and its likes (owner only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID := c.Param("commentId")

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.AuthorID != authorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	// Clean up likes on this comment too
	h.db.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{})

	if err := h.db.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// LikeComment — one like per user, toggled off on repeat
func (h *CommentHandler) LikeComment(c *gin.Context) {
	commentID := c.Param("commentId")

	likerID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var existing models.CommentLike
	err := h.db.Where("comment_id = ? AND user_id = ?", comment.ID, likerID).First(&existing).Error

	if err == nil {
		// Already liked — toggle off
		h.db.Delete(&existing)
		likes, _ := h.likeInfo(comment.ID, likerID)
		c.JSON(http.StatusOK, gin.H{"message": "Like removed", "likes": likes, "liked": false})
		return
	}

	like := models.CommentLike{CommentID: comment.ID, UserID: likerID}
	h.db.Create(&like)
	likes, _ := h.likeInfo(comment.ID, likerID)
	c.JSON(http.StatusOK, gin.H{"message": "Like recorded", "likes": likes, "liked": true})
}
