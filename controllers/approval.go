package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"risk-management-api/config"
	"risk-management-api/models"
	"risk-management-api/services"
)

// GetApprovalRequests lists approval requests for reviewers, newest first
func GetApprovalRequests(c *gin.Context) {
	var requests []models.RiskApprovalRequest
	query := config.DB.Preload("Risk").Preload("Requester").Preload("Reviewer")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	page := parsePositive(c.Query("page"), 1)
	size := parsePositive(c.Query("page_size"), 20)

	var total int64
	if err := query.Model(&models.RiskApprovalRequest{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch approval requests"})
		return
	}

	if err := query.Order("create_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch approval requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"meta": gin.H{
			"page":      page,
			"page_size": size,
			"total":     total,
		},
	})
}

// GetApprovalRequest returns a single approval request
func GetApprovalRequest(c *gin.Context) {
	id := c.Param("id")

	var request models.RiskApprovalRequest
	if err := config.DB.Preload("Risk").Preload("Requester").Preload("Reviewer").
		Where("request_id = ?", id).
		First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Approval request not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": request})
}

// DecideApprovalRequest applies a reviewer verdict to a pending request
func DecideApprovalRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}
	reviewerID, _ := c.Get("userID")

	var input services.DecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := services.NewApprovalService(config.DB).Decide(id, reviewerID.(int), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrRequestNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record decision"})
		}
		return
	}

	// Owner notification is best-effort; the decision itself is already durable.
	var risk models.Risk
	if err := config.DB.Where("risk_id = ?", request.RiskID).First(&risk).Error; err == nil {
		if err := services.NotifyApprovalDecision(config.DB, &risk, request); err != nil {
			log.Printf("Warning: failed to notify owner of risk %d: %v", risk.RiskID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Decision recorded",
		"request": request,
	})
}
