package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"risk-management-api/config"
	"risk-management-api/models"
	"risk-management-api/services"
)

var validStrategies = map[string]bool{
	models.StrategyAvoid:    true,
	models.StrategyReduce:   true,
	models.StrategyTransfer: true,
	models.StrategyAccept:   true,
}

// GetTreatmentPlans lists plans attached to a risk. The response includes
// the derived display status so overdue plans are visible without storing
// the state.
func GetTreatmentPlans(c *gin.Context) {
	riskID := c.Param("id")

	var plans []models.TreatmentPlan
	if err := config.DB.Preload("Tasks", "delete_at IS NULL").
		Where("risk_id = ? AND delete_at IS NULL", riskID).
		Order("plan_id ASC").
		Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch treatment plans"})
		return
	}

	now := time.Now()
	items := make([]gin.H, 0, len(plans))
	for i := range plans {
		items = append(items, gin.H{
			"plan":             plans[i],
			"effective_status": plans[i].EffectiveStatus(now),
		})
	}

	c.JSON(http.StatusOK, gin.H{"plans": items, "total": len(items)})
}

// CreateTreatmentPlan attaches a new plan to a risk
func CreateTreatmentPlan(c *gin.Context) {
	riskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid risk id"})
		return
	}
	userID, _ := c.Get("userID")

	type createPlanRequest struct {
		TitleAr   string     `json:"title_ar" binding:"required"`
		TitleEn   string     `json:"title_en" binding:"required"`
		Strategy  string     `json:"strategy" binding:"required"`
		StartDate *time.Time `json:"start_date"`
		DueDate   *time.Time `json:"due_date"`
	}

	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validStrategies[req.Strategy] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid treatment strategy"})
		return
	}

	var risk models.Risk
	if err := config.DB.Where("risk_id = ? AND delete_at IS NULL", riskID).First(&risk).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Risk not found"})
		return
	}

	now := time.Now()
	plan := models.TreatmentPlan{
		RiskID:    riskID,
		TitleAr:   req.TitleAr,
		TitleEn:   req.TitleEn,
		Strategy:  req.Strategy,
		Status:    models.TaskStatusNotStarted,
		Progress:  0,
		StartDate: req.StartDate,
		DueDate:   req.DueDate,
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}
		return services.LogPlanChange(tx, plan.PlanID, userID.(int), "created", nil, nil, nil)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create treatment plan"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Treatment plan created successfully",
		"plan":    plan,
	})
}

// GetTreatmentPlan returns a single plan with its tasks and steps
func GetTreatmentPlan(c *gin.Context) {
	id := c.Param("id")

	var plan models.TreatmentPlan
	if err := config.DB.Preload("Risk").
		Preload("Tasks", "delete_at IS NULL").
		Preload("Tasks.Steps", "delete_at IS NULL").
		Where("plan_id = ? AND treatment_plans.delete_at IS NULL", id).
		First(&plan).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Treatment plan not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan":             plan,
		"effective_status": plan.EffectiveStatus(time.Now()),
	})
}

// UpdateTreatmentPlan updates plan fields other than status. The strategy is
// chosen at creation and cannot be changed afterwards.
func UpdateTreatmentPlan(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	type updatePlanRequest struct {
		TitleAr   *string    `json:"title_ar"`
		TitleEn   *string    `json:"title_en"`
		StartDate *time.Time `json:"start_date"`
		DueDate   *time.Time `json:"due_date"`
	}

	var req updatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var plan models.TreatmentPlan
	if err := config.DB.Where("plan_id = ? AND delete_at IS NULL", id).First(&plan).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Treatment plan not found"})
		return
	}

	if req.TitleAr != nil {
		plan.TitleAr = *req.TitleAr
	}
	if req.TitleEn != nil {
		plan.TitleEn = *req.TitleEn
	}
	if req.StartDate != nil {
		plan.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		plan.DueDate = req.DueDate
	}

	now := time.Now()
	plan.UpdateAt = &now

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&plan).Error; err != nil {
			return err
		}
		return services.LogPlanChange(tx, plan.PlanID, userID.(int), "updated", nil, nil, nil)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update treatment plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Treatment plan updated successfully",
		"plan":    plan,
	})
}

// UpdateTreatmentPlanStatus stores a new plan status through the lifecycle
// rules
func UpdateTreatmentPlanStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}
	userID, _ := c.Get("userID")

	type statusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := services.NewTreatmentService(config.DB).UpdatePlanStatus(id, userID.(int), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStatusNotWritable), errors.Is(err, services.ErrStepsNotDone):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Plan status updated",
		"plan":    plan,
	})
}
