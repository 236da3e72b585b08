package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"risk-management-api/models"
)

var (
	// ErrStatusNotWritable is returned when a caller tries to store a
	// status that only exists as a derived display state (overdue) or is
	// not part of the stored enum at all.
	ErrStatusNotWritable = errors.New("status is not a writable value")

	// ErrStepsNotDone is returned when a task is completed while one of
	// its steps is still pending or in progress.
	ErrStepsNotDone = errors.New("task has unfinished steps")
)

var writableTaskStatuses = map[string]bool{
	models.TaskStatusNotStarted: true,
	models.TaskStatusInProgress: true,
	models.TaskStatusCompleted:  true,
	models.TaskStatusCancelled:  true,
}

var writableStepStatuses = map[string]bool{
	models.StepStatusPending:    true,
	models.StepStatusInProgress: true,
	models.StepStatusCompleted:  true,
	models.StepStatusCancelled:  true,
}

type TreatmentService struct {
	db *gorm.DB
}

func NewTreatmentService(db *gorm.DB) *TreatmentService {
	return &TreatmentService{db: db}
}

// UpdateTaskStatus stores a new task status and recomputes the owning plan's
// progress in the same transaction. Completing a task requires every step
// under it to be completed or cancelled.
func (s *TreatmentService) UpdateTaskStatus(taskID, actorID int, newStatus string) (*models.TreatmentTask, error) {
	if !writableTaskStatuses[newStatus] {
		return nil, fmt.Errorf("%w: %s", ErrStatusNotWritable, newStatus)
	}

	var task models.TreatmentTask
	if err := s.db.Where("task_id = ? AND delete_at IS NULL", taskID).First(&task).Error; err != nil {
		return nil, err
	}

	if newStatus == models.TaskStatusCompleted {
		var openSteps int64
		if err := s.db.Model(&models.TaskStep{}).
			Where("task_id = ? AND delete_at IS NULL AND status IN ?", taskID,
				[]string{models.StepStatusPending, models.StepStatusInProgress}).
			Count(&openSteps).Error; err != nil {
			return nil, err
		}
		if openSteps > 0 {
			return nil, fmt.Errorf("%w: %d open", ErrStepsNotDone, openSteps)
		}
	}

	oldStatus := task.Status
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TreatmentTask{}).
			Where("task_id = ?", taskID).
			Updates(map[string]interface{}{
				"status":    newStatus,
				"update_at": now,
			}).Error; err != nil {
			return err
		}

		if err := s.recomputePlanProgress(tx, task.PlanID, now); err != nil {
			return err
		}

		return LogPlanChange(tx, task.PlanID, actorID, "task_status",
			strPtr("status"), strPtr(oldStatus), strPtr(newStatus))
	})
	if err != nil {
		return nil, err
	}

	task.Status = newStatus
	task.UpdateAt = &now
	return &task, nil
}

// UpdateStepStatus stores a new step status. The owning plan's progress is
// recomputed in the same transaction so completion events are never
// observable with a stale progress value.
func (s *TreatmentService) UpdateStepStatus(stepID, actorID int, newStatus string) (*models.TaskStep, error) {
	if !writableStepStatuses[newStatus] {
		return nil, fmt.Errorf("%w: %s", ErrStatusNotWritable, newStatus)
	}

	var step models.TaskStep
	if err := s.db.Where("step_id = ? AND delete_at IS NULL", stepID).First(&step).Error; err != nil {
		return nil, err
	}

	var task models.TreatmentTask
	if err := s.db.Where("task_id = ? AND delete_at IS NULL", step.TaskID).First(&task).Error; err != nil {
		return nil, err
	}

	oldStatus := step.Status
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TaskStep{}).
			Where("step_id = ?", stepID).
			Updates(map[string]interface{}{
				"status":    newStatus,
				"update_at": now,
			}).Error; err != nil {
			return err
		}

		if err := s.recomputePlanProgress(tx, task.PlanID, now); err != nil {
			return err
		}

		return LogPlanChange(tx, task.PlanID, actorID, "step_status",
			strPtr("status"), strPtr(oldStatus), strPtr(newStatus))
	})
	if err != nil {
		return nil, err
	}

	step.Status = newStatus
	step.UpdateAt = &now
	return &step, nil
}

// UpdatePlanStatus stores a new plan status. A plan may only be completed
// once every non-cancelled task under it is completed.
func (s *TreatmentService) UpdatePlanStatus(planID, actorID int, newStatus string) (*models.TreatmentPlan, error) {
	if !writableTaskStatuses[newStatus] {
		return nil, fmt.Errorf("%w: %s", ErrStatusNotWritable, newStatus)
	}

	var plan models.TreatmentPlan
	if err := s.db.Where("plan_id = ? AND delete_at IS NULL", planID).First(&plan).Error; err != nil {
		return nil, err
	}

	if newStatus == models.TaskStatusCompleted {
		var openTasks int64
		if err := s.db.Model(&models.TreatmentTask{}).
			Where("plan_id = ? AND delete_at IS NULL AND status IN ?", planID,
				[]string{models.TaskStatusNotStarted, models.TaskStatusInProgress}).
			Count(&openTasks).Error; err != nil {
			return nil, err
		}
		if openTasks > 0 {
			return nil, fmt.Errorf("%w: %d tasks open", ErrStepsNotDone, openTasks)
		}
	}

	oldStatus := plan.Status
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TreatmentPlan{}).
			Where("plan_id = ?", planID).
			Updates(map[string]interface{}{
				"status":    newStatus,
				"update_at": now,
			}).Error; err != nil {
			return err
		}

		return LogPlanChange(tx, planID, actorID, "plan_status",
			strPtr("status"), strPtr(oldStatus), strPtr(newStatus))
	})
	if err != nil {
		return nil, err
	}

	plan.Status = newStatus
	plan.UpdateAt = &now
	return &plan, nil
}

// recomputePlanProgress rewrites the plan's progress as the percentage of
// its non-cancelled tasks that are completed. Runs inside the caller's
// transaction.
func (s *TreatmentService) recomputePlanProgress(tx *gorm.DB, planID int, now time.Time) error {
	var total int64
	if err := tx.Model(&models.TreatmentTask{}).
		Where("plan_id = ? AND delete_at IS NULL AND status <> ?", planID, models.TaskStatusCancelled).
		Count(&total).Error; err != nil {
		return err
	}

	var completed int64
	if err := tx.Model(&models.TreatmentTask{}).
		Where("plan_id = ? AND delete_at IS NULL AND status = ?", planID, models.TaskStatusCompleted).
		Count(&completed).Error; err != nil {
		return err
	}

	return tx.Model(&models.TreatmentPlan{}).
		Where("plan_id = ?", planID).
		Updates(map[string]interface{}{
			"progress":  ProgressPercent(completed, total),
			"update_at": now,
		}).Error
}

// ProgressPercent converts a completed/total task ratio into a 0-100
// percentage. A plan with no active tasks reports zero progress.
func ProgressPercent(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(completed * 100 / total)
}
