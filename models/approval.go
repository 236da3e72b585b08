package models

import "time"

// Approval request states. pending is the only non-terminal state; a new
// revision cycle creates a new request instead of reopening a decided one.
const (
	RequestStatusPending           = "pending"
	RequestStatusApproved          = "approved"
	RequestStatusRejected          = "rejected"
	RequestStatusDeferred          = "deferred"
	RequestStatusRevisionRequested = "revision_requested"
)

type RiskApprovalRequest struct {
	RequestID   int        `gorm:"primaryKey;column:request_id" json:"request_id"`
	RiskID      int        `gorm:"column:risk_id" json:"risk_id"`
	RequestedBy int        `gorm:"column:requested_by" json:"requested_by"`
	Status      string     `gorm:"column:status" json:"status"`
	ReviewerID  *int       `gorm:"column:reviewer_id" json:"reviewer_id,omitempty"`
	NoteAr      *string    `gorm:"column:note_ar" json:"note_ar,omitempty"`
	NoteEn      *string    `gorm:"column:note_en" json:"note_en,omitempty"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Risk      Risk  `gorm:"foreignKey:RiskID" json:"risk,omitempty"`
	Requester User  `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	Reviewer  *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (RiskApprovalRequest) TableName() string {
	return "risk_approval_requests"
}

// IsPending reports whether the request is still awaiting a decision.
func (r *RiskApprovalRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
