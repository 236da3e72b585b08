package services

import (
	"time"

	"gorm.io/gorm"

	"risk-management-api/models"
)

// LogRiskChange appends an audit entry for a risk. Entries are write-once;
// nothing in the API updates or deletes them.
func LogRiskChange(db *gorm.DB, riskID, actorID int, action string, field, oldValue, newValue *string) error {
	entry := models.ChangeLogEntry{
		RiskID:   &riskID,
		ActorID:  actorID,
		Action:   action,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
		CreateAt: time.Now(),
	}
	return db.Create(&entry).Error
}

// LogPlanChange appends an audit entry for a treatment plan.
func LogPlanChange(db *gorm.DB, planID, actorID int, action string, field, oldValue, newValue *string) error {
	entry := models.ChangeLogEntry{
		PlanID:   &planID,
		ActorID:  actorID,
		Action:   action,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
		CreateAt: time.Now(),
	}
	return db.Create(&entry).Error
}

func strPtr(s string) *string {
	return &s
}
