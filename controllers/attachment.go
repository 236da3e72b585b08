package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"risk-management-api/config"
	"risk-management-api/models"
	"risk-management-api/services"
	"risk-management-api/utils"
)

const maxAttachmentMB = 10

// UploadTaskAttachment stores a supporting document against a treatment task.
// Accepted types and the size cap follow the document-upload rules on the
// FileUpload model.
func UploadTaskAttachment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}
	userID, _ := c.Get("userID")

	var task models.TreatmentTask
	if err := config.DB.Where("task_id = ? AND delete_at IS NULL", id).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	upload := models.FileUpload{
		OriginalName: fileHeader.Filename,
		FileSize:     fileHeader.Size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		UploadedBy:   userID.(int),
	}

	if !upload.IsValidDocumentType() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}
	if upload.GetFileSizeInMB() > maxAttachmentMB {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10 MB limit"})
		return
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	storedPath := filepath.Join(uploadDir, utils.GenerateStoredFilename(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	now := time.Now()
	upload.StoredPath = storedPath
	upload.UploadedAt = now
	upload.CreateAt = now
	upload.UpdateAt = now

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&upload).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TreatmentTask{}).
			Where("task_id = ?", id).
			Updates(map[string]interface{}{
				"file_id":   upload.FileID,
				"update_at": now,
			}).Error; err != nil {
			return err
		}
		return services.LogPlanChange(tx, task.PlanID, userID.(int), "task_attachment",
			ptr("file_id"), nil, ptr(strconv.Itoa(upload.FileID)))
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attachment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Attachment uploaded",
		"attachment": upload,
	})
}
