package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"risk-management-api/models"
)

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		completed int64
		total     int64
		want      int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 4, 25},
		{2, 3, 66},
		{3, 3, 100},
		{5, 5, 100},
	}

	for _, tc := range cases {
		if got := ProgressPercent(tc.completed, tc.total); got != tc.want {
			t.Fatalf("ProgressPercent(%d, %d) = %d, want %d", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestUpdateTaskStatusRejectsDerivedAndUnknownStatuses(t *testing.T) {
	for _, status := range []string{models.TaskStatusOverdue, "done", ""} {
		db, state, cleanup := newScriptedGormDB(t, nil)

		_, err := NewTreatmentService(db).UpdateTaskStatus(1, 2, status)
		if !errors.Is(err, ErrStatusNotWritable) {
			t.Fatalf("status %q: expected ErrStatusNotWritable, got %v", status, err)
		}

		if err := state.verifyComplete(); err != nil {
			t.Fatalf("status %q: %v", status, err)
		}
		cleanup()
	}
}

func TestUpdateTaskStatusCompletionBlockedByOpenSteps(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .treatment_tasks. WHERE task_id = "),
			columns: []string{"task_id", "plan_id", "status"},
			rows:    [][]driver.Value{{int64(7), int64(3), models.TaskStatusInProgress}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM .task_steps. WHERE task_id = "),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(2)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewTreatmentService(db).UpdateTaskStatus(7, 2, models.TaskStatusCompleted)
	if !errors.Is(err, ErrStepsNotDone) {
		t.Fatalf("expected ErrStepsNotDone, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateTaskStatusCompletionRecomputesPlanProgress(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .treatment_tasks. WHERE task_id = "),
			columns: []string{"task_id", "plan_id", "status"},
			rows:    [][]driver.Value{{int64(7), int64(3), models.TaskStatusInProgress}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM .task_steps. WHERE task_id = "),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .treatment_tasks. SET .*status.*WHERE task_id = "),
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM .treatment_tasks. WHERE plan_id = "),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(4)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM .treatment_tasks. WHERE plan_id = "),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(2)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .treatment_plans. SET .*progress.*WHERE plan_id = "),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .change_log_entries."),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	task, err := NewTreatmentService(db).UpdateTaskStatus(7, 2, models.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateTaskStatus returned error: %v", err)
	}

	if task.Status != models.TaskStatusCompleted {
		t.Fatalf("expected status %q, got %q", models.TaskStatusCompleted, task.Status)
	}
	if task.UpdateAt == nil {
		t.Fatalf("expected update_at to be stamped")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStepStatusRecomputesPlanProgress(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .task_steps. WHERE step_id = "),
			columns: []string{"step_id", "task_id", "status"},
			rows:    [][]driver.Value{{int64(12), int64(7), models.StepStatusInProgress}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .treatment_tasks. WHERE task_id = "),
			columns: []string{"task_id", "plan_id", "status"},
			rows:    [][]driver.Value{{int64(7), int64(3), models.TaskStatusInProgress}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .task_steps. SET .*status.*WHERE step_id = "),
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM .treatment_tasks. WHERE plan_id = "),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(3)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM .treatment_tasks. WHERE plan_id = "),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .treatment_plans. SET .*progress.*WHERE plan_id = "),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .change_log_entries."),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	step, err := NewTreatmentService(db).UpdateStepStatus(12, 2, models.StepStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStepStatus returned error: %v", err)
	}

	if step.Status != models.StepStatusCompleted {
		t.Fatalf("expected status %q, got %q", models.StepStatusCompleted, step.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStepStatusRejectsUnknownStatus(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	_, err := NewTreatmentService(db).UpdateStepStatus(12, 2, "overdue")
	if !errors.Is(err, ErrStatusNotWritable) {
		t.Fatalf("expected ErrStatusNotWritable, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestUpdatePlanStatusCompletionBlockedByOpenTasks(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .treatment_plans. WHERE plan_id = "),
			columns: []string{"plan_id", "risk_id", "status", "progress"},
			rows:    [][]driver.Value{{int64(3), int64(42), models.TaskStatusInProgress, int64(50)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM .treatment_tasks. WHERE plan_id = "),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewTreatmentService(db).UpdatePlanStatus(3, 2, models.TaskStatusCompleted)
	if !errors.Is(err, ErrStepsNotDone) {
		t.Fatalf("expected ErrStepsNotDone, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
