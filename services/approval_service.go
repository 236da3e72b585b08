package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"risk-management-api/models"
)

// Reviewer actions on a pending approval request.
const (
	ActionApprove         = "approve"
	ActionReject          = "reject"
	ActionDefer           = "defer"
	ActionRequestRevision = "request_revision"
)

var (
	// ErrRequestNotPending is returned when a decision targets a request
	// that has already been decided. Decided requests are terminal; a new
	// revision cycle creates a new request.
	ErrRequestNotPending = errors.New("approval request is not pending")

	// ErrInvalidAction is returned for an unknown reviewer action.
	ErrInvalidAction = errors.New("invalid approval action")

	// ErrRiskNotSubmittable is returned when a risk is submitted while it
	// is locked (sent or already approved/deferred).
	ErrRiskNotSubmittable = errors.New("risk cannot be submitted in its current approval status")

	// ErrPendingRequestExists is returned when a risk already has an open
	// request awaiting review.
	ErrPendingRequestExists = errors.New("risk already has a pending approval request")
)

// actionOutcome maps a reviewer action to the terminal request status and
// the approval status stamped onto the underlying risk.
type actionOutcome struct {
	requestStatus      string
	riskApprovalStatus string
}

var actionOutcomes = map[string]actionOutcome{
	ActionApprove:         {models.RequestStatusApproved, models.ApprovalStatusApproved},
	ActionReject:          {models.RequestStatusRejected, models.ApprovalStatusRejected},
	ActionDefer:           {models.RequestStatusDeferred, models.ApprovalStatusDeferred},
	ActionRequestRevision: {models.RequestStatusRevisionRequested, models.ApprovalStatusRevisionRequested},
}

// DecisionInput carries a reviewer's verdict. The note may be supplied in
// either locale; a single-locale note is duplicated into both language
// fields on the request.
type DecisionInput struct {
	Action string  `json:"action" binding:"required"`
	NoteAr *string `json:"note_ar"`
	NoteEn *string `json:"note_en"`
}

type ApprovalService struct {
	db *gorm.DB
}

func NewApprovalService(db *gorm.DB) *ApprovalService {
	return &ApprovalService{db: db}
}

// Submit opens a new approval cycle for a risk: it creates a pending request
// and moves the risk's approval status to sent, atomically. Only a draft,
// rejected or revision-requested risk may be submitted, and only when no
// other request on it is still pending.
func (s *ApprovalService) Submit(riskID, requestedBy int) (*models.RiskApprovalRequest, error) {
	var risk models.Risk
	if err := s.db.Where("risk_id = ? AND delete_at IS NULL", riskID).First(&risk).Error; err != nil {
		return nil, err
	}

	if !risk.IsEditable() {
		return nil, fmt.Errorf("%w: %s", ErrRiskNotSubmittable, risk.ApprovalStatus)
	}

	var pendingCount int64
	if err := s.db.Model(&models.RiskApprovalRequest{}).
		Where("risk_id = ? AND status = ?", riskID, models.RequestStatusPending).
		Count(&pendingCount).Error; err != nil {
		return nil, err
	}
	if pendingCount > 0 {
		return nil, ErrPendingRequestExists
	}

	now := time.Now()
	request := models.RiskApprovalRequest{
		RiskID:      riskID,
		RequestedBy: requestedBy,
		Status:      models.RequestStatusPending,
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Risk{}).
			Where("risk_id = ?", riskID).
			Updates(map[string]interface{}{
				"approval_status": models.ApprovalStatusSent,
				"update_at":       now,
			}).Error; err != nil {
			return err
		}

		return LogRiskChange(tx, riskID, requestedBy, "submitted",
			strPtr("approval_status"), strPtr(risk.ApprovalStatus), strPtr(models.ApprovalStatusSent))
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// Decide applies a reviewer action to a pending request. The request moves
// to its terminal status, the reviewer identity and review time are stamped,
// the note is written to both locales, and the risk's approval status is
// synced — all in one transaction. A decision on a non-pending request fails
// with ErrRequestNotPending and persists nothing.
func (s *ApprovalService) Decide(requestID, reviewerID int, input DecisionInput) (*models.RiskApprovalRequest, error) {
	outcome, ok := actionOutcomes[input.Action]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAction, input.Action)
	}

	var request models.RiskApprovalRequest
	if err := s.db.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return nil, err
	}

	if !request.IsPending() {
		return nil, fmt.Errorf("%w: already %s", ErrRequestNotPending, request.Status)
	}

	noteAr, noteEn := duplicateNote(input.NoteAr, input.NoteEn)
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RiskApprovalRequest{}).
			Where("request_id = ?", requestID).
			Updates(map[string]interface{}{
				"status":      outcome.requestStatus,
				"reviewer_id": reviewerID,
				"note_ar":     noteAr,
				"note_en":     noteEn,
				"reviewed_at": now,
				"update_at":   now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Risk{}).
			Where("risk_id = ?", request.RiskID).
			Updates(map[string]interface{}{
				"approval_status": outcome.riskApprovalStatus,
				"update_at":       now,
			}).Error; err != nil {
			return err
		}

		return LogRiskChange(tx, request.RiskID, reviewerID, "approval_"+outcome.requestStatus,
			strPtr("approval_status"), strPtr(models.ApprovalStatusSent), strPtr(outcome.riskApprovalStatus))
	})
	if err != nil {
		return nil, err
	}

	request.Status = outcome.requestStatus
	request.ReviewerID = &reviewerID
	request.NoteAr = noteAr
	request.NoteEn = noteEn
	request.ReviewedAt = &now
	request.UpdateAt = &now

	return &request, nil
}

// duplicateNote fills the missing locale with the supplied one. The product
// stores every review note in both language columns.
func duplicateNote(noteAr, noteEn *string) (*string, *string) {
	if noteAr == nil && noteEn == nil {
		return nil, nil
	}
	if noteAr == nil {
		return noteEn, noteEn
	}
	if noteEn == nil {
		return noteAr, noteAr
	}
	return noteAr, noteEn
}
