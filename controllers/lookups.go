package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"risk-management-api/config"
	"risk-management-api/models"
	"risk-management-api/services"
)

// GetDepartments returns all active departments
func GetDepartments(c *gin.Context) {
	var departments []models.Department
	if err := config.DB.Where("is_active = ? AND delete_at IS NULL", true).
		Order("name_en ASC").Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch departments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

// GetRiskCategories returns the cached category lookup
func GetRiskCategories(c *gin.Context) {
	categories, err := services.GetRiskCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch risk categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetRiskSources returns the cached source lookup
func GetRiskSources(c *gin.Context) {
	sources, err := services.GetRiskSources()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch risk sources"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

type lookupPayload struct {
	NameAr   string `json:"name_ar" binding:"required"`
	NameEn   string `json:"name_en" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

// AdminCreateRiskCategory adds a category and invalidates the lookup cache
func AdminCreateRiskCategory(c *gin.Context) {
	var req lookupPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	category := models.RiskCategory{
		NameAr:   req.NameAr,
		NameEn:   req.NameEn,
		IsActive: true,
		CreateAt: &now,
		UpdateAt: &now,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	services.ClearLookupCache()
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

// AdminUpdateRiskCategory updates a category and invalidates the lookup cache
func AdminUpdateRiskCategory(c *gin.Context) {
	id := c.Param("id")

	var req lookupPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.RiskCategory
	if err := config.DB.Where("category_id = ? AND delete_at IS NULL", id).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	now := time.Now()
	category.NameAr = req.NameAr
	category.NameEn = req.NameEn
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdateAt = &now

	if err := config.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	services.ClearLookupCache()
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": category})
}

// AdminCreateRiskSource adds a source and invalidates the lookup cache
func AdminCreateRiskSource(c *gin.Context) {
	var req lookupPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	source := models.RiskSource{
		NameAr:   req.NameAr,
		NameEn:   req.NameEn,
		IsActive: true,
		CreateAt: &now,
		UpdateAt: &now,
	}
	if req.IsActive != nil {
		source.IsActive = *req.IsActive
	}

	if err := config.DB.Create(&source).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create source"})
		return
	}

	services.ClearLookupCache()
	c.JSON(http.StatusCreated, gin.H{"message": "Source created", "source": source})
}

// AdminCreateDepartment adds a department
func AdminCreateDepartment(c *gin.Context) {
	type departmentPayload struct {
		NameAr string `json:"name_ar" binding:"required"`
		NameEn string `json:"name_en" binding:"required"`
		Code   string `json:"code" binding:"required"`
	}

	var req departmentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	department := models.Department{
		NameAr:   req.NameAr,
		NameEn:   req.NameEn,
		Code:     req.Code,
		IsActive: true,
		CreateAt: &now,
		UpdateAt: &now,
	}

	if err := config.DB.Create(&department).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Department created", "department": department})
}
