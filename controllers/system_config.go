package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"risk-management-api/config"
	"risk-management-api/models"
)

// GetSystemConfig returns all configuration key/values
func GetSystemConfig(c *gin.Context) {
	var entries []models.SystemConfig
	if err := config.DB.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch configuration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": entries})
}

// SetSystemConfig upserts a configuration key
func SetSystemConfig(c *gin.Context) {
	type configRequest struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}

	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.SystemConfig{Key: req.Key, Value: req.Value}
	if err := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save configuration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Configuration saved", "config": entry})
}
