package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"risk-management-api/config"
	"risk-management-api/services"
)

// AdminImportRisks handles CSV bulk imports into the register. The same
// import service backs the cmd/import-risks CLI.
func AdminImportRisks(c *gin.Context) {
	userID, _ := c.Get("userID")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Import file is required"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type, expected .csv"})
		return
	}
	if header.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	summary, err := services.NewRiskImportService(config.DB).ImportCSV(file, userID.(int))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Import completed",
		"summary": summary,
	})
}

// AdminExportRisks streams the register as CSV
func AdminExportRisks(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="risks.csv"`)

	if err := services.NewRiskImportService(config.DB).ExportCSV(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export risks"})
		return
	}
}
