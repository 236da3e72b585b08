package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"risk-management-api/models"
)

// GenerateRiskNumber produces the next human-readable register code in the
// form RSK-YYYYMMDD-NNNN, numbering within the current day. The zero-padded
// suffix keeps MAX over the day's codes lexicographic, so the next number is
// derived from the highest issued one rather than a row count.
func GenerateRiskNumber(db *gorm.DB) (string, error) {
	prefix := fmt.Sprintf("RSK-%s-", time.Now().Format("20060102"))

	var last sql.NullString
	if err := db.Model(&models.Risk{}).
		Select("MAX(risk_number)").
		Where("risk_number LIKE ?", prefix+"%").
		Scan(&last).Error; err != nil {
		return "", err
	}

	next := 1
	if last.Valid {
		if n, err := strconv.Atoi(strings.TrimPrefix(last.String, prefix)); err == nil {
			next = n + 1
		}
	}

	return fmt.Sprintf("%s%04d", prefix, next), nil
}
