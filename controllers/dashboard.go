package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"risk-management-api/config"
	"risk-management-api/models"
)

type countRow struct {
	Key   string `gorm:"column:key" json:"key"`
	Count int64  `gorm:"column:count" json:"count"`
}

// GetDashboardStats returns register-wide aggregates for the overview page
func GetDashboardStats(c *gin.Context) {
	db := config.DB

	var total int64
	if err := db.Model(&models.Risk{}).Where("delete_at IS NULL").Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}

	var byStatus []countRow
	if err := db.Model(&models.Risk{}).
		Select("status AS `key`, COUNT(*) AS count").
		Where("delete_at IS NULL").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}

	var byRating []countRow
	if err := db.Model(&models.Risk{}).
		Select("inherent_rating AS `key`, COUNT(*) AS count").
		Where("delete_at IS NULL").
		Group("inherent_rating").
		Scan(&byRating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}

	var byDepartment []countRow
	if err := db.Table("risks").
		Select("departments.name_en AS `key`, COUNT(*) AS count").
		Joins("JOIN departments ON departments.department_id = risks.department_id").
		Where("risks.delete_at IS NULL").
		Group("departments.name_en").
		Scan(&byDepartment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}

	var pendingApprovals int64
	if err := db.Model(&models.RiskApprovalRequest{}).
		Where("status = ?", models.RequestStatusPending).
		Count(&pendingApprovals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}

	var overdueTasks int64
	if err := db.Model(&models.TreatmentTask{}).
		Where("delete_at IS NULL AND due_date < NOW() AND status NOT IN ?",
			[]string{models.TaskStatusCompleted, models.TaskStatusCancelled}).
		Count(&overdueTasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"total_risks":       total,
			"by_status":         byStatus,
			"by_rating":         byRating,
			"by_department":     byDepartment,
			"pending_approvals": pendingApprovals,
			"overdue_tasks":     overdueTasks,
		},
	})
}
