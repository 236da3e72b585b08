package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"risk-management-api/config"
	"risk-management-api/models"
)

// GetRiskDiscussions lists the comment trail for a risk
func GetRiskDiscussions(c *gin.Context) {
	id := c.Param("id")

	var discussions []models.Discussion
	if err := config.DB.Preload("Author").
		Where("risk_id = ?", id).
		Order("create_at ASC").
		Find(&discussions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discussions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"discussions": discussions, "total": len(discussions)})
}

// CreateRiskDiscussion appends a comment to a risk. Comments are never
// edited or removed.
func CreateRiskDiscussion(c *gin.Context) {
	riskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid risk id"})
		return
	}
	userID, _ := c.Get("userID")

	type createDiscussionRequest struct {
		BodyAr *string `json:"body_ar"`
		BodyEn *string `json:"body_en"`
	}

	var req createDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if (req.BodyAr == nil || *req.BodyAr == "") && (req.BodyEn == nil || *req.BodyEn == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment body is required"})
		return
	}

	var risk models.Risk
	if err := config.DB.Where("risk_id = ? AND delete_at IS NULL", riskID).First(&risk).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Risk not found"})
		return
	}

	discussion := models.Discussion{
		RiskID:   &riskID,
		AuthorID: userID.(int),
		BodyAr:   req.BodyAr,
		BodyEn:   req.BodyEn,
		CreateAt: time.Now(),
	}

	if err := config.DB.Create(&discussion).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Comment added",
		"discussion": discussion,
	})
}

// GetPlanDiscussions lists the comment trail for a treatment plan
func GetPlanDiscussions(c *gin.Context) {
	id := c.Param("id")

	var discussions []models.Discussion
	if err := config.DB.Preload("Author").
		Where("plan_id = ?", id).
		Order("create_at ASC").
		Find(&discussions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch discussions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"discussions": discussions, "total": len(discussions)})
}

// CreatePlanDiscussion appends a comment to a treatment plan
func CreatePlanDiscussion(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}
	userID, _ := c.Get("userID")

	type createDiscussionRequest struct {
		BodyAr *string `json:"body_ar"`
		BodyEn *string `json:"body_en"`
	}

	var req createDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if (req.BodyAr == nil || *req.BodyAr == "") && (req.BodyEn == nil || *req.BodyEn == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment body is required"})
		return
	}

	var plan models.TreatmentPlan
	if err := config.DB.Where("plan_id = ? AND delete_at IS NULL", planID).First(&plan).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Treatment plan not found"})
		return
	}

	discussion := models.Discussion{
		PlanID:   &planID,
		AuthorID: userID.(int),
		BodyAr:   req.BodyAr,
		BodyEn:   req.BodyEn,
		CreateAt: time.Now(),
	}

	if err := config.DB.Create(&discussion).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Comment added",
		"discussion": discussion,
	})
}
