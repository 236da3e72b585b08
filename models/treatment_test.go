package models

import (
	"testing"
	"time"
)

func TestTaskEffectiveStatusDerivesOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	cases := []struct {
		name    string
		status  string
		dueDate *time.Time
		want    string
	}{
		{"past due and in progress", TaskStatusInProgress, &past, TaskStatusOverdue},
		{"past due and not started", TaskStatusNotStarted, &past, TaskStatusOverdue},
		{"past due but completed", TaskStatusCompleted, &past, TaskStatusCompleted},
		{"past due but cancelled", TaskStatusCancelled, &past, TaskStatusCancelled},
		{"due in the future", TaskStatusInProgress, &future, TaskStatusInProgress},
		{"no due date", TaskStatusInProgress, nil, TaskStatusInProgress},
	}

	for _, tc := range cases {
		task := TreatmentTask{Status: tc.status, DueDate: tc.dueDate}
		if got := task.EffectiveStatus(now); got != tc.want {
			t.Fatalf("%s: EffectiveStatus = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestPlanEffectiveStatusMirrorsTaskRule(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	plan := TreatmentPlan{Status: TaskStatusInProgress, DueDate: &past}
	if got := plan.EffectiveStatus(now); got != TaskStatusOverdue {
		t.Fatalf("EffectiveStatus = %q, want %q", got, TaskStatusOverdue)
	}

	plan.Status = TaskStatusCompleted
	if got := plan.EffectiveStatus(now); got != TaskStatusCompleted {
		t.Fatalf("EffectiveStatus = %q, want %q", got, TaskStatusCompleted)
	}
}

func TestOverdueIsNeverAStoredStatus(t *testing.T) {
	stored := []string{TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled}
	for _, s := range stored {
		if s == TaskStatusOverdue {
			t.Fatalf("overdue must not appear in the stored status set")
		}
	}
}

func TestIsTerminalTaskStatus(t *testing.T) {
	if !IsTerminalTaskStatus(TaskStatusCompleted) || !IsTerminalTaskStatus(TaskStatusCancelled) {
		t.Fatalf("completed and cancelled must be terminal")
	}
	if IsTerminalTaskStatus(TaskStatusInProgress) || IsTerminalTaskStatus(TaskStatusNotStarted) {
		t.Fatalf("open statuses must not be terminal")
	}
	if IsTerminalTaskStatus(TaskStatusOverdue) {
		t.Fatalf("overdue is a display state, not a terminal status")
	}
}
