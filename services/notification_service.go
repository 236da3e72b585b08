package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"risk-management-api/config"
	"risk-management-api/models"
)

// CreateNotification inserts an in-app notification row for a user.
func CreateNotification(db *gorm.DB, userID uint, title, message, notifType string, relatedRiskID *uint) error {
	notification := models.Notification{
		UserID:        userID,
		Title:         title,
		Message:       message,
		Type:          notifType,
		RelatedRiskID: relatedRiskID,
		IsRead:        false,
		CreateAt:      time.Now(),
	}
	return db.Create(&notification).Error
}

// NotifyApprovalDecision informs the risk owner about a reviewer decision.
// The in-app row is required; the email is best-effort and only logged on
// failure.
func NotifyApprovalDecision(db *gorm.DB, risk *models.Risk, request *models.RiskApprovalRequest) error {
	var notifType string
	switch request.Status {
	case models.RequestStatusApproved:
		notifType = "success"
	case models.RequestStatusRejected:
		notifType = "error"
	default:
		notifType = "warning"
	}

	riskID := uint(risk.RiskID)
	title := fmt.Sprintf("Risk %s: %s", risk.RiskNumber, request.Status)
	message := fmt.Sprintf("Your risk %q was reviewed with outcome %s", risk.TitleEn, request.Status)
	if request.NoteEn != nil && *request.NoteEn != "" {
		message += ": " + *request.NoteEn
	}

	if err := CreateNotification(db, uint(risk.OwnerID), title, message, notifType, &riskID); err != nil {
		return err
	}

	var owner models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", risk.OwnerID).First(&owner).Error; err != nil {
		log.Printf("Warning: decision email skipped, owner %d not found: %v", risk.OwnerID, err)
		return nil
	}

	html := fmt.Sprintf("<p>%s</p><p>Reviewed at %s</p>", message,
		request.ReviewedAt.Format("2006-01-02 15:04"))
	if err := config.SendMail([]string{owner.Email}, title, html); err != nil {
		log.Printf("Warning: failed to send decision email to %s: %v", owner.Email, err)
	}

	return nil
}
