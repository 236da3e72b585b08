package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"risk-management-api/config"
	"risk-management-api/models"
	"risk-management-api/utils"
)

// AdminGetUsers lists users for the admin panel
func AdminGetUsers(c *gin.Context) {
	var users []models.User
	query := config.DB.Preload("Role").Preload("Department").
		Where("delete_at IS NULL")

	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}

	if err := query.Order("user_id ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

// AdminCreateUser creates a user account
func AdminCreateUser(c *gin.Context) {
	type createUserRequest struct {
		UserFname    string `json:"user_fname" binding:"required"`
		UserLname    string `json:"user_lname" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required"`
		RoleID       int    `json:"role_id" binding:"required"`
		DepartmentID int    `json:"department_id" binding:"required"`
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	now := time.Now()
	user := models.User{
		UserFname:    utils.SanitizeInput(req.UserFname),
		UserLname:    utils.SanitizeInput(req.UserLname),
		Email:        req.Email,
		Password:     hashed,
		RoleID:       req.RoleID,
		DepartmentID: req.DepartmentID,
		IsActive:     true,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created", "user": user})
}

// AdminUpdateUser updates role, department or active flag
func AdminUpdateUser(c *gin.Context) {
	id := c.Param("id")

	type updateUserRequest struct {
		RoleID       *int  `json:"role_id"`
		DepartmentID *int  `json:"department_id"`
		IsActive     *bool `json:"is_active"`
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.RoleID != nil {
		user.RoleID = *req.RoleID
	}
	if req.DepartmentID != nil {
		user.DepartmentID = *req.DepartmentID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	now := time.Now()
	user.UpdateAt = &now

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated", "user": user})
}

// AdminDeleteUser soft deletes a user account
func AdminDeleteUser(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	user.DeleteAt = &now

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
