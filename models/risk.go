package models

import "time"

// Operational lifecycle of a risk record.
const (
	RiskStatusOpen       = "open"
	RiskStatusInProgress = "inProgress"
	RiskStatusMitigated  = "mitigated"
	RiskStatusClosed     = "closed"
	RiskStatusAccepted   = "accepted"
)

// Governance lifecycle of a risk record, synced with its approval requests.
const (
	ApprovalStatusDraft             = "draft"
	ApprovalStatusSent              = "sent"
	ApprovalStatusApproved          = "approved"
	ApprovalStatusRejected          = "rejected"
	ApprovalStatusDeferred          = "deferred"
	ApprovalStatusRevisionRequested = "revisionRequested"
)

type Risk struct {
	RiskID        int     `gorm:"primaryKey;column:risk_id" json:"risk_id"`
	RiskNumber    string  `gorm:"column:risk_number;unique" json:"risk_number"`
	TitleAr       string  `gorm:"column:title_ar" json:"title_ar"`
	TitleEn       string  `gorm:"column:title_en" json:"title_en"`
	DescriptionAr *string `gorm:"column:description_ar" json:"description_ar,omitempty"`
	DescriptionEn *string `gorm:"column:description_en" json:"description_en,omitempty"`

	InherentLikelihood int    `gorm:"column:inherent_likelihood" json:"inherent_likelihood"`
	InherentImpact     int    `gorm:"column:inherent_impact" json:"inherent_impact"`
	InherentScore      int    `gorm:"column:inherent_score" json:"inherent_score"`
	InherentRating     string `gorm:"column:inherent_rating" json:"inherent_rating"`

	// Residual assessment is optional until a treatment review records one.
	ResidualLikelihood *int    `gorm:"column:residual_likelihood" json:"residual_likelihood,omitempty"`
	ResidualImpact     *int    `gorm:"column:residual_impact" json:"residual_impact,omitempty"`
	ResidualScore      *int    `gorm:"column:residual_score" json:"residual_score,omitempty"`
	ResidualRating     *string `gorm:"column:residual_rating" json:"residual_rating,omitempty"`

	Status         string `gorm:"column:status" json:"status"`
	ApprovalStatus string `gorm:"column:approval_status" json:"approval_status"`

	DepartmentID int  `gorm:"column:department_id" json:"department_id"`
	OwnerID      int  `gorm:"column:owner_id" json:"owner_id"`
	ChampionID   *int `gorm:"column:champion_id" json:"champion_id,omitempty"`
	CategoryID   int  `gorm:"column:category_id" json:"category_id"`
	SourceID     *int `gorm:"column:source_id" json:"source_id,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Department Department      `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Owner      User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Champion   *User           `gorm:"foreignKey:ChampionID" json:"champion,omitempty"`
	Category   RiskCategory    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Source     *RiskSource     `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	Treatments []TreatmentPlan `gorm:"foreignKey:RiskID" json:"treatments,omitempty"`
}

type RiskCategory struct {
	CategoryID int        `gorm:"primaryKey;column:category_id" json:"category_id"`
	NameAr     string     `gorm:"column:name_ar" json:"name_ar"`
	NameEn     string     `gorm:"column:name_en" json:"name_en"`
	IsActive   bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type RiskSource struct {
	SourceID int        `gorm:"primaryKey;column:source_id" json:"source_id"`
	NameAr   string     `gorm:"column:name_ar" json:"name_ar"`
	NameEn   string     `gorm:"column:name_en" json:"name_en"`
	IsActive bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

var validRiskStatuses = map[string]bool{
	RiskStatusOpen:       true,
	RiskStatusInProgress: true,
	RiskStatusMitigated:  true,
	RiskStatusClosed:     true,
	RiskStatusAccepted:   true,
}

// IsValidRiskStatus reports whether the value is one of the stored register
// statuses.
func IsValidRiskStatus(status string) bool {
	return validRiskStatuses[status]
}

// TableName overrides
func (Risk) TableName() string {
	return "risks"
}

func (RiskCategory) TableName() string {
	return "risk_categories"
}

func (RiskSource) TableName() string {
	return "risk_sources"
}

// IsEditable reports whether the record may still be modified by its owner.
// Approved and sent risks are locked; rejected and revision-requested risks
// stay editable so the owner can resubmit.
func (r *Risk) IsEditable() bool {
	switch r.ApprovalStatus {
	case ApprovalStatusDraft, ApprovalStatusRejected, ApprovalStatusRevisionRequested:
		return true
	}
	return false
}
