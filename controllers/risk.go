package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"risk-management-api/config"
	"risk-management-api/models"
	"risk-management-api/services"
)

func parsePositive(q string, def int) int {
	if q == "" {
		return def
	}
	n, err := strconv.Atoi(q)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func safeSortRisks(s string) string {
	whitelist := map[string]bool{
		"risk_number": true, "inherent_score": true, "create_at": true, "update_at": true,
	}
	col := strings.ToLower(strings.TrimSpace(s))
	if whitelist[col] {
		return col
	}
	return "create_at"
}

// GetRisks returns the risk register with filters and pagination
func GetRisks(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var risks []models.Risk
	query := config.DB.Preload("Department").Preload("Owner").Preload("Category").
		Where("risks.delete_at IS NULL")

	// Staff only see their own department's register
	if roleID.(int) == models.RoleStaff {
		var user models.User
		if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
			return
		}
		query = query.Where("department_id = ?", user.DepartmentID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if approvalStatus := c.Query("approval_status"); approvalStatus != "" {
		query = query.Where("approval_status = ?", approvalStatus)
	}
	if rating := c.Query("rating"); rating != "" {
		query = query.Where("inherent_rating = ?", rating)
	}
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	page := parsePositive(c.Query("page"), 1)
	size := parsePositive(c.Query("page_size"), 20)
	offset := (page - 1) * size

	var total int64
	if err := query.Model(&models.Risk{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch risks"})
		return
	}

	sort := safeSortRisks(c.Query("sort"))
	dir := strings.ToUpper(c.Query("dir"))
	if dir != "ASC" {
		dir = "DESC"
	}

	if err := query.Order(sort + " " + dir).Limit(size).Offset(offset).
		Find(&risks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch risks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"risks": risks,
		"meta": gin.H{
			"page":      page,
			"page_size": size,
			"total":     total,
		},
	})
}

// GetRisk returns single risk by ID
func GetRisk(c *gin.Context) {
	id := c.Param("id")

	var risk models.Risk
	if err := config.DB.Preload("Department").Preload("Owner").Preload("Champion").
		Preload("Category").Preload("Source").
		Preload("Treatments", "delete_at IS NULL").
		Where("risk_id = ? AND risks.delete_at IS NULL", id).
		First(&risk).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Risk not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"risk": risk})
}

type riskPayload struct {
	TitleAr       string  `json:"title_ar" binding:"required"`
	TitleEn       string  `json:"title_en" binding:"required"`
	DescriptionAr *string `json:"description_ar"`
	DescriptionEn *string `json:"description_en"`
	Likelihood    int     `json:"likelihood" binding:"required"`
	Impact        int     `json:"impact" binding:"required"`
	DepartmentID  int     `json:"department_id" binding:"required"`
	CategoryID    int     `json:"category_id" binding:"required"`
	SourceID      *int    `json:"source_id"`
	ChampionID    *int    `json:"champion_id"`
}

// CreateRisk registers a new risk. Score and rating are derived from the
// submitted likelihood and impact, never accepted from the client.
func CreateRisk(c *gin.Context) {
	var req riskPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	score, rating, err := services.ComputeScore(req.Likelihood, req.Impact)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := services.GetRiskCategoryByID(req.CategoryID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}
	if req.SourceID != nil {
		if _, err := services.GetRiskSourceByID(*req.SourceID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source"})
			return
		}
	}

	riskNumber, err := services.GenerateRiskNumber(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create risk"})
		return
	}

	userID, _ := c.Get("userID")
	now := time.Now()

	risk := models.Risk{
		RiskNumber:         riskNumber,
		TitleAr:            req.TitleAr,
		TitleEn:            req.TitleEn,
		DescriptionAr:      req.DescriptionAr,
		DescriptionEn:      req.DescriptionEn,
		InherentLikelihood: req.Likelihood,
		InherentImpact:     req.Impact,
		InherentScore:      score,
		InherentRating:     rating,
		Status:             models.RiskStatusOpen,
		ApprovalStatus:     models.ApprovalStatusDraft,
		DepartmentID:       req.DepartmentID,
		OwnerID:            userID.(int),
		ChampionID:         req.ChampionID,
		CategoryID:         req.CategoryID,
		SourceID:           req.SourceID,
		CreateAt:           &now,
		UpdateAt:           &now,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&risk).Error; err != nil {
			return err
		}
		return services.LogRiskChange(tx, risk.RiskID, userID.(int), "created", nil, nil, nil)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create risk"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Risk created successfully",
		"risk":    risk,
	})
}

// UpdateRisk updates an editable risk. Changing likelihood or impact
// recomputes score and rating in the same write.
func UpdateRisk(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	type updateRiskRequest struct {
		TitleAr       *string `json:"title_ar"`
		TitleEn       *string `json:"title_en"`
		DescriptionAr *string `json:"description_ar"`
		DescriptionEn *string `json:"description_en"`
		Likelihood    *int    `json:"likelihood"`
		Impact        *int    `json:"impact"`
		Status        *string `json:"status"`
		CategoryID    *int    `json:"category_id"`
		SourceID      *int    `json:"source_id"`
		ChampionID    *int    `json:"champion_id"`
	}

	var req updateRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var risk models.Risk
	if err := config.DB.Where("risk_id = ? AND delete_at IS NULL", id).First(&risk).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Risk not found"})
		return
	}

	if !risk.IsEditable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Risk is locked while under review or approved"})
		return
	}

	if req.TitleAr != nil {
		risk.TitleAr = *req.TitleAr
	}
	if req.TitleEn != nil {
		risk.TitleEn = *req.TitleEn
	}
	if req.DescriptionAr != nil {
		risk.DescriptionAr = req.DescriptionAr
	}
	if req.DescriptionEn != nil {
		risk.DescriptionEn = req.DescriptionEn
	}
	if req.Status != nil {
		if !models.IsValidRiskStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		risk.Status = *req.Status
	}
	if req.CategoryID != nil {
		if _, err := services.GetRiskCategoryByID(*req.CategoryID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		risk.CategoryID = *req.CategoryID
	}
	if req.SourceID != nil {
		if _, err := services.GetRiskSourceByID(*req.SourceID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source"})
			return
		}
		risk.SourceID = req.SourceID
	}
	if req.ChampionID != nil {
		risk.ChampionID = req.ChampionID
	}

	// Derived fields always travel with their inputs in the same update.
	if req.Likelihood != nil || req.Impact != nil {
		likelihood := risk.InherentLikelihood
		impact := risk.InherentImpact
		if req.Likelihood != nil {
			likelihood = *req.Likelihood
		}
		if req.Impact != nil {
			impact = *req.Impact
		}

		score, rating, err := services.ComputeScore(likelihood, impact)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		risk.InherentLikelihood = likelihood
		risk.InherentImpact = impact
		risk.InherentScore = score
		risk.InherentRating = rating
	}

	now := time.Now()
	risk.UpdateAt = &now

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&risk).Error; err != nil {
			return err
		}
		return services.LogRiskChange(tx, risk.RiskID, userID.(int), "updated", nil, nil, nil)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update risk"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Risk updated successfully",
		"risk":    risk,
	})
}

// DeleteRisk soft deletes a risk
func DeleteRisk(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	var risk models.Risk
	if err := config.DB.Where("risk_id = ? AND delete_at IS NULL", id).First(&risk).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Risk not found"})
		return
	}

	if !risk.IsEditable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Risk is locked while under review or approved"})
		return
	}

	now := time.Now()
	risk.DeleteAt = &now

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&risk).Error; err != nil {
			return err
		}
		return services.LogRiskChange(tx, risk.RiskID, userID.(int), "deleted", nil, nil, nil)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete risk"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Risk deleted successfully"})
}

// SubmitRisk opens an approval cycle for the risk
func SubmitRisk(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid risk id"})
		return
	}
	userID, _ := c.Get("userID")

	request, err := services.NewApprovalService(config.DB).Submit(id, userID.(int))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRiskNotSubmittable), errors.Is(err, services.ErrPendingRequestExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit risk"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Risk submitted for approval",
		"request": request,
	})
}

// AssessResidual records the post-treatment assessment. Residual score and
// rating come from the same scoring function as the inherent pair.
func AssessResidual(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	type residualRequest struct {
		Likelihood int `json:"likelihood" binding:"required"`
		Impact     int `json:"impact" binding:"required"`
	}

	var req residualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	score, rating, err := services.ComputeScore(req.Likelihood, req.Impact)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var risk models.Risk
	if err := config.DB.Where("risk_id = ? AND delete_at IS NULL", id).First(&risk).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Risk not found"})
		return
	}

	now := time.Now()
	oldScore := intOrDash(risk.ResidualScore)

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Risk{}).
			Where("risk_id = ?", risk.RiskID).
			Updates(map[string]interface{}{
				"residual_likelihood": req.Likelihood,
				"residual_impact":     req.Impact,
				"residual_score":      score,
				"residual_rating":     rating,
				"update_at":           now,
			}).Error; err != nil {
			return err
		}
		newScore := strconv.Itoa(score)
		return services.LogRiskChange(tx, risk.RiskID, userID.(int), "residual_assessed",
			ptr("residual_score"), &oldScore, &newScore)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record residual assessment"})
		return
	}

	risk.ResidualLikelihood = &req.Likelihood
	risk.ResidualImpact = &req.Impact
	risk.ResidualScore = &score
	risk.ResidualRating = &rating
	risk.UpdateAt = &now

	c.JSON(http.StatusOK, gin.H{
		"message": "Residual assessment recorded",
		"risk":    risk,
	})
}

// GetRiskChangeLog returns the append-only audit trail for a risk
func GetRiskChangeLog(c *gin.Context) {
	id := c.Param("id")

	var entries []models.ChangeLogEntry
	if err := config.DB.Preload("Actor").
		Where("risk_id = ?", id).
		Order("create_at DESC").
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch change log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

func ptr(s string) *string {
	return &s
}

func intOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
