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

// GetTreatmentTasks lists tasks under a plan with their derived display
// statuses
func GetTreatmentTasks(c *gin.Context) {
	planID := c.Param("id")

	var tasks []models.TreatmentTask
	if err := config.DB.Preload("Assignee").Preload("Owner").Preload("Monitor").
		Preload("Steps", "delete_at IS NULL").
		Where("plan_id = ? AND delete_at IS NULL", planID).
		Order("task_id ASC").
		Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	now := time.Now()
	items := make([]gin.H, 0, len(tasks))
	for i := range tasks {
		items = append(items, gin.H{
			"task":             tasks[i],
			"effective_status": tasks[i].EffectiveStatus(now),
		})
	}

	c.JSON(http.StatusOK, gin.H{"tasks": items, "total": len(items)})
}

// CreateTreatmentTask adds a task to a plan
func CreateTreatmentTask(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}
	userID, _ := c.Get("userID")

	type createTaskRequest struct {
		TitleAr    string     `json:"title_ar" binding:"required"`
		TitleEn    string     `json:"title_en" binding:"required"`
		AssigneeID *int       `json:"assignee_id"`
		OwnerID    *int       `json:"owner_id"`
		MonitorID  *int       `json:"monitor_id"`
		DueDate    *time.Time `json:"due_date"`
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var plan models.TreatmentPlan
	if err := config.DB.Where("plan_id = ? AND delete_at IS NULL", planID).First(&plan).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Treatment plan not found"})
		return
	}

	now := time.Now()
	task := models.TreatmentTask{
		PlanID:     planID,
		TitleAr:    req.TitleAr,
		TitleEn:    req.TitleEn,
		Status:     models.TaskStatusNotStarted,
		AssigneeID: req.AssigneeID,
		OwnerID:    req.OwnerID,
		MonitorID:  req.MonitorID,
		DueDate:    req.DueDate,
		CreateAt:   &now,
		UpdateAt:   &now,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return services.LogPlanChange(tx, planID, userID.(int), "task_created", nil, nil, nil)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    task,
	})
}

// UpdateTreatmentTaskStatus stores a new task status through the lifecycle
// rules. The plan's progress is recomputed in the same transaction.
func UpdateTreatmentTaskStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
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

	task, err := services.NewTreatmentService(config.DB).UpdateTaskStatus(id, userID.(int), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStatusNotWritable), errors.Is(err, services.ErrStepsNotDone):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated",
		"task":    task,
	})
}

// GetTaskSteps lists the ordered steps of a task
func GetTaskSteps(c *gin.Context) {
	taskID := c.Param("id")

	var steps []models.TaskStep
	if err := config.DB.Where("task_id = ? AND delete_at IS NULL", taskID).
		Order("step_order ASC").
		Find(&steps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch steps"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"steps": steps, "total": len(steps)})
}

// CreateTaskStep appends a step to a task
func CreateTaskStep(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}
	userID, _ := c.Get("userID")

	type createStepRequest struct {
		TitleAr string `json:"title_ar" binding:"required"`
		TitleEn string `json:"title_en" binding:"required"`
	}

	var req createStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.TreatmentTask
	if err := config.DB.Where("task_id = ? AND delete_at IS NULL", taskID).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	var maxOrder int64
	config.DB.Model(&models.TaskStep{}).
		Where("task_id = ? AND delete_at IS NULL", taskID).
		Count(&maxOrder)

	now := time.Now()
	step := models.TaskStep{
		TaskID:    taskID,
		StepOrder: int(maxOrder) + 1,
		TitleAr:   req.TitleAr,
		TitleEn:   req.TitleEn,
		Status:    models.StepStatusPending,
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&step).Error; err != nil {
			return err
		}
		return services.LogPlanChange(tx, task.PlanID, userID.(int), "step_created", nil, nil, nil)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create step"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Step created successfully",
		"step":    step,
	})
}

// UpdateTaskStepStatus stores a new step status through the lifecycle rules
func UpdateTaskStepStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step id"})
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

	step, err := services.NewTreatmentService(config.DB).UpdateStepStatus(id, userID.(int), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStatusNotWritable):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update step status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Step status updated",
		"step":    step,
	})
}
