package models

import "time"

// Treatment strategies. Chosen when the plan is created, never transitioned.
const (
	StrategyAvoid    = "avoid"
	StrategyReduce   = "reduce"
	StrategyTransfer = "transfer"
	StrategyAccept   = "accept"
)

// Stored statuses for plans and tasks. overdue is intentionally absent: it is
// a display state derived from the due date at read time, never persisted.
const (
	TaskStatusNotStarted = "notStarted"
	TaskStatusInProgress = "inProgress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// Derived-only display status for tasks and plans past their due date.
const TaskStatusOverdue = "overdue"

// Stored statuses for task steps.
const (
	StepStatusPending    = "pending"
	StepStatusInProgress = "inProgress"
	StepStatusCompleted  = "completed"
	StepStatusCancelled  = "cancelled"
)

type TreatmentPlan struct {
	PlanID    int        `gorm:"primaryKey;column:plan_id" json:"plan_id"`
	RiskID    int        `gorm:"column:risk_id" json:"risk_id"`
	TitleAr   string     `gorm:"column:title_ar" json:"title_ar"`
	TitleEn   string     `gorm:"column:title_en" json:"title_en"`
	Strategy  string     `gorm:"column:strategy" json:"strategy"`
	Status    string     `gorm:"column:status" json:"status"`
	Progress  int        `gorm:"column:progress" json:"progress"`
	StartDate *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	DueDate   *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Risk  Risk            `gorm:"foreignKey:RiskID" json:"risk,omitempty"`
	Tasks []TreatmentTask `gorm:"foreignKey:PlanID" json:"tasks,omitempty"`
}

type TreatmentTask struct {
	TaskID     int        `gorm:"primaryKey;column:task_id" json:"task_id"`
	PlanID     int        `gorm:"column:plan_id" json:"plan_id"`
	TitleAr    string     `gorm:"column:title_ar" json:"title_ar"`
	TitleEn    string     `gorm:"column:title_en" json:"title_en"`
	Status     string     `gorm:"column:status" json:"status"`
	AssigneeID *int       `gorm:"column:assignee_id" json:"assignee_id,omitempty"`
	OwnerID    *int       `gorm:"column:owner_id" json:"owner_id,omitempty"`
	MonitorID  *int       `gorm:"column:monitor_id" json:"monitor_id,omitempty"`
	DueDate    *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	FileID     *int       `gorm:"column:file_id" json:"file_id,omitempty"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Plan       TreatmentPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Assignee   *User         `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Owner      *User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Monitor    *User         `gorm:"foreignKey:MonitorID" json:"monitor,omitempty"`
	Attachment *FileUpload   `gorm:"foreignKey:FileID" json:"attachment,omitempty"`
	Steps      []TaskStep    `gorm:"foreignKey:TaskID" json:"steps,omitempty"`
}

type TaskStep struct {
	StepID    int        `gorm:"primaryKey;column:step_id" json:"step_id"`
	TaskID    int        `gorm:"column:task_id" json:"task_id"`
	StepOrder int        `gorm:"column:step_order" json:"step_order"`
	TitleAr   string     `gorm:"column:title_ar" json:"title_ar"`
	TitleEn   string     `gorm:"column:title_en" json:"title_en"`
	Status    string     `gorm:"column:status" json:"status"`
	FileID    *int       `gorm:"column:file_id" json:"file_id,omitempty"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Attachment *FileUpload `gorm:"foreignKey:FileID" json:"attachment,omitempty"`
}

// TableName overrides
func (TreatmentPlan) TableName() string {
	return "treatment_plans"
}

func (TreatmentTask) TableName() string {
	return "treatment_tasks"
}

func (TaskStep) TableName() string {
	return "task_steps"
}

// IsTerminal reports whether the stored status ends the task lifecycle.
func IsTerminalTaskStatus(status string) bool {
	return status == TaskStatusCompleted || status == TaskStatusCancelled
}

// EffectiveStatus returns the display status for the task: overdue when the
// due date has passed and the task is not in a terminal state, otherwise the
// stored status.
func (t *TreatmentTask) EffectiveStatus(now time.Time) string {
	if t.DueDate != nil && t.DueDate.Before(now) && !IsTerminalTaskStatus(t.Status) {
		return TaskStatusOverdue
	}
	return t.Status
}

// EffectiveStatus returns the display status for the plan, mirroring the
// task-level rule.
func (p *TreatmentPlan) EffectiveStatus(now time.Time) string {
	if p.DueDate != nil && p.DueDate.Before(now) && !IsTerminalTaskStatus(p.Status) {
		return TaskStatusOverdue
	}
	return p.Status
}
