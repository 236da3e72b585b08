package models

import "time"

// ChangeLogEntry is an append-only audit record keyed to a risk or a
// treatment plan. Entries are never updated or deleted after creation.
type ChangeLogEntry struct {
	EntryID  int       `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	RiskID   *int      `gorm:"column:risk_id" json:"risk_id,omitempty"`
	PlanID   *int      `gorm:"column:plan_id" json:"plan_id,omitempty"`
	ActorID  int       `gorm:"column:actor_id" json:"actor_id"`
	Action   string    `gorm:"column:action" json:"action"`
	Field    *string   `gorm:"column:field" json:"field,omitempty"`
	OldValue *string   `gorm:"column:old_value" json:"old_value,omitempty"`
	NewValue *string   `gorm:"column:new_value" json:"new_value,omitempty"`
	CreateAt time.Time `gorm:"column:create_at" json:"create_at"`

	// Relations
	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// Discussion is an append-only comment keyed to a risk or a treatment plan.
type Discussion struct {
	DiscussionID int       `gorm:"primaryKey;column:discussion_id" json:"discussion_id"`
	RiskID       *int      `gorm:"column:risk_id" json:"risk_id,omitempty"`
	PlanID       *int      `gorm:"column:plan_id" json:"plan_id,omitempty"`
	AuthorID     int       `gorm:"column:author_id" json:"author_id"`
	BodyAr       *string   `gorm:"column:body_ar" json:"body_ar,omitempty"`
	BodyEn       *string   `gorm:"column:body_en" json:"body_en,omitempty"`
	CreateAt     time.Time `gorm:"column:create_at" json:"create_at"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (ChangeLogEntry) TableName() string {
	return "change_log_entries"
}

func (Discussion) TableName() string {
	return "discussions"
}
