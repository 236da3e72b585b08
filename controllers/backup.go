package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"risk-management-api/config"
	"risk-management-api/services"
)

// AdminBackup snapshots the register into a downloadable JSON archive
func AdminBackup(c *gin.Context) {
	archive, err := services.NewBackupService(config.DB).Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create backup"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="risk-register-backup.json"`)
	c.JSON(http.StatusOK, archive)
}

// AdminRestore replaces the register contents from an uploaded archive
func AdminRestore(c *gin.Context) {
	var archive services.BackupArchive
	if err := c.ShouldBindJSON(&archive); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backup archive: " + err.Error()})
		return
	}

	if err := services.NewBackupService(config.DB).Restore(&archive); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore backup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Backup restored successfully",
		"backup_id": archive.BackupID,
	})
}
