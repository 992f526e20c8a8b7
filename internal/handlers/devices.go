package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ryanlallier24/finnysights-sub000/internal/models"
)

type DeviceHandler struct {
	db *gorm.DB
}

func NewDeviceHandler(db *gorm.DB) *DeviceHandler {
	return &DeviceHandler{db: db}
}

// RegisterDevice stores a push device token for the caller. Re-registering
// the same token is a no-op.
func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Token    string `json:"token" binding:"required"`
		Platform string `json:"platform"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	var existing models.DeviceToken
	if err := h.db.Where("user_id = ? AND token = ?", userID, input.Token).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	device := models.DeviceToken{
		UserID:   userID,
		Token:    input.Token,
		Platform: input.Platform,
	}

	if err := h.db.Create(&device).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device"})
		return
	}

	c.JSON(http.StatusCreated, device)
}

// RemoveDevice deletes a push device token.
func (h *DeviceHandler) RemoveDevice(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	token := c.Param("token")

	if err := h.db.Where("user_id = ? AND token = ?", userID, token).Delete(&models.DeviceToken{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device removed"})
}
