package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"risk-management-api/models"
)

// BackupArchive is the JSON blob produced by a full backup and consumed by
// restore. It carries every register entity; restore replaces the current
// contents wholesale.
type BackupArchive struct {
	BackupID  string    `json:"backup_id"`
	CreatedAt time.Time `json:"created_at"`

	Roles        []models.Role                `json:"roles"`
	Departments  []models.Department          `json:"departments"`
	Users        []models.User                `json:"users"`
	Categories   []models.RiskCategory        `json:"categories"`
	Sources      []models.RiskSource          `json:"sources"`
	Risks        []models.Risk                `json:"risks"`
	Approvals    []models.RiskApprovalRequest `json:"approvals"`
	Plans        []models.TreatmentPlan       `json:"plans"`
	Tasks        []models.TreatmentTask       `json:"tasks"`
	Steps        []models.TaskStep            `json:"steps"`
	ChangeLog    []models.ChangeLogEntry      `json:"change_log"`
	Discussions  []models.Discussion          `json:"discussions"`
	SystemConfig []models.SystemConfig        `json:"system_config"`
}

type BackupService struct {
	db *gorm.DB
}

func NewBackupService(db *gorm.DB) *BackupService {
	return &BackupService{db: db}
}

// Export snapshots the register into a single archive. Soft-deleted rows are
// included so a restore reproduces the database exactly.
func (s *BackupService) Export() (*BackupArchive, error) {
	archive := &BackupArchive{
		BackupID:  uuid.NewString(),
		CreatedAt: time.Now(),
	}

	collect := func(name string, dest interface{}) error {
		if err := s.db.Find(dest).Error; err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
		return nil
	}

	if err := collect("roles", &archive.Roles); err != nil {
		return nil, err
	}
	if err := collect("departments", &archive.Departments); err != nil {
		return nil, err
	}
	if err := collect("users", &archive.Users); err != nil {
		return nil, err
	}
	if err := collect("categories", &archive.Categories); err != nil {
		return nil, err
	}
	if err := collect("sources", &archive.Sources); err != nil {
		return nil, err
	}
	if err := collect("risks", &archive.Risks); err != nil {
		return nil, err
	}
	if err := collect("approvals", &archive.Approvals); err != nil {
		return nil, err
	}
	if err := collect("plans", &archive.Plans); err != nil {
		return nil, err
	}
	if err := collect("tasks", &archive.Tasks); err != nil {
		return nil, err
	}
	if err := collect("steps", &archive.Steps); err != nil {
		return nil, err
	}
	if err := collect("change_log", &archive.ChangeLog); err != nil {
		return nil, err
	}
	if err := collect("discussions", &archive.Discussions); err != nil {
		return nil, err
	}
	if err := collect("system_config", &archive.SystemConfig); err != nil {
		return nil, err
	}

	return archive, nil
}

// Restore replaces the register contents with the archive, atomically.
// Tables are cleared child-first and refilled parent-first so foreign keys
// hold at every point inside the transaction.
func (s *BackupService) Restore(archive *BackupArchive) error {
	if archive == nil {
		return fmt.Errorf("archive is required")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		wipeOrder := []interface{}{
			&models.Discussion{}, &models.ChangeLogEntry{},
			&models.TaskStep{}, &models.TreatmentTask{}, &models.TreatmentPlan{},
			&models.RiskApprovalRequest{}, &models.Risk{},
			&models.RiskCategory{}, &models.RiskSource{},
			&models.User{}, &models.Department{}, &models.Role{},
			&models.SystemConfig{},
		}
		for _, model := range wipeOrder {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
				Unscoped().Delete(model).Error; err != nil {
				return err
			}
		}

		insert := func(name string, rows interface{}, count int) error {
			if count == 0 {
				return nil
			}
			if err := tx.Create(rows).Error; err != nil {
				return fmt.Errorf("failed to restore %s: %w", name, err)
			}
			return nil
		}

		if err := insert("roles", &archive.Roles, len(archive.Roles)); err != nil {
			return err
		}
		if err := insert("departments", &archive.Departments, len(archive.Departments)); err != nil {
			return err
		}
		if err := insert("users", &archive.Users, len(archive.Users)); err != nil {
			return err
		}
		if err := insert("categories", &archive.Categories, len(archive.Categories)); err != nil {
			return err
		}
		if err := insert("sources", &archive.Sources, len(archive.Sources)); err != nil {
			return err
		}
		if err := insert("risks", &archive.Risks, len(archive.Risks)); err != nil {
			return err
		}
		if err := insert("approvals", &archive.Approvals, len(archive.Approvals)); err != nil {
			return err
		}
		if err := insert("plans", &archive.Plans, len(archive.Plans)); err != nil {
			return err
		}
		if err := insert("tasks", &archive.Tasks, len(archive.Tasks)); err != nil {
			return err
		}
		if err := insert("steps", &archive.Steps, len(archive.Steps)); err != nil {
			return err
		}
		if err := insert("change_log", &archive.ChangeLog, len(archive.ChangeLog)); err != nil {
			return err
		}
		if err := insert("discussions", &archive.Discussions, len(archive.Discussions)); err != nil {
			return err
		}
		if err := insert("system_config", &archive.SystemConfig, len(archive.SystemConfig)); err != nil {
			return err
		}

		ClearLookupCache()
		return nil
	})
}
