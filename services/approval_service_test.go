package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"risk-management-api/models"
)

func TestDecideApproveUpdatesRequestAndRisk(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .risk_approval_requests. WHERE request_id = "),
			columns: []string{"request_id", "risk_id", "requested_by", "status"},
			rows:    [][]driver.Value{{int64(10), int64(42), int64(7), models.RequestStatusPending}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .risk_approval_requests. SET .*status.*WHERE request_id = "),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .risks. SET .*approval_status.*WHERE risk_id = "),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .change_log_entries."),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	note := "meets appetite"
	request, err := NewApprovalService(db).Decide(10, 99, DecisionInput{
		Action: ActionApprove,
		NoteEn: &note,
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}

	if request.Status != models.RequestStatusApproved {
		t.Fatalf("expected status %q, got %q", models.RequestStatusApproved, request.Status)
	}
	if request.ReviewedAt == nil {
		t.Fatalf("expected reviewed_at to be stamped")
	}
	if request.ReviewerID == nil || *request.ReviewerID != 99 {
		t.Fatalf("expected reviewer 99, got %v", request.ReviewerID)
	}
	if request.NoteAr == nil || *request.NoteAr != note {
		t.Fatalf("expected note duplicated into note_ar, got %v", request.NoteAr)
	}
	if request.NoteEn == nil || *request.NoteEn != note {
		t.Fatalf("expected note_en to be kept, got %v", request.NoteEn)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecideRejectOutcome(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .risk_approval_requests. WHERE request_id = "),
			columns: []string{"request_id", "risk_id", "requested_by", "status"},
			rows:    [][]driver.Value{{int64(11), int64(42), int64(7), models.RequestStatusPending}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .risk_approval_requests. SET .*status."),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .risks. SET .*approval_status."),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .change_log_entries."),
			result:  scriptedResult{lastInsertID: 2, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	request, err := NewApprovalService(db).Decide(11, 99, DecisionInput{Action: ActionReject})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}

	if request.Status != models.RequestStatusRejected {
		t.Fatalf("expected status %q, got %q", models.RequestStatusRejected, request.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecideNonPendingFailsWithoutWrites(t *testing.T) {
	terminal := []string{
		models.RequestStatusApproved,
		models.RequestStatusRejected,
		models.RequestStatusDeferred,
		models.RequestStatusRevisionRequested,
	}

	for _, status := range terminal {
		steps := []*queryStep{
			{
				kind:    kindQuery,
				pattern: regexp.MustCompile("SELECT .* FROM .risk_approval_requests. WHERE request_id = "),
				columns: []string{"request_id", "risk_id", "requested_by", "status"},
				rows:    [][]driver.Value{{int64(10), int64(42), int64(7), status}},
			},
		}

		db, state, cleanup := newScriptedGormDB(t, steps)

		_, err := NewApprovalService(db).Decide(10, 99, DecisionInput{Action: ActionApprove})
		if !errors.Is(err, ErrRequestNotPending) {
			t.Fatalf("status %q: expected ErrRequestNotPending, got %v", status, err)
		}

		// No UPDATE or INSERT steps were scripted: any write would have
		// surfaced as an unexpected-query error above.
		if err := state.verifyComplete(); err != nil {
			t.Fatalf("status %q: %v", status, err)
		}
		cleanup()
	}
}

func TestDecideUnknownActionFailsBeforeAnyQuery(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	_, err := NewApprovalService(db).Decide(10, 99, DecisionInput{Action: "escalate"})
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitCreatesPendingRequestAndMarksRiskSent(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .risks. WHERE risk_id = "),
			columns: []string{"risk_id", "approval_status"},
			rows:    [][]driver.Value{{int64(42), models.ApprovalStatusDraft}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM .risk_approval_requests. WHERE risk_id = "),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .risk_approval_requests."),
			result:  scriptedResult{lastInsertID: 10, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .risks. SET .*approval_status.*WHERE risk_id = "),
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .change_log_entries."),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	request, err := NewApprovalService(db).Submit(42, 7)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if request.RequestID != 10 {
		t.Fatalf("expected request id 10, got %d", request.RequestID)
	}
	if request.Status != models.RequestStatusPending {
		t.Fatalf("expected status %q, got %q", models.RequestStatusPending, request.Status)
	}
	if request.RiskID != 42 || request.RequestedBy != 7 {
		t.Fatalf("expected risk 42 requested by 7, got risk %d by %d", request.RiskID, request.RequestedBy)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitRejectsLockedRisk(t *testing.T) {
	locked := []string{
		models.ApprovalStatusSent,
		models.ApprovalStatusApproved,
		models.ApprovalStatusDeferred,
	}

	for _, status := range locked {
		steps := []*queryStep{
			{
				kind:    kindQuery,
				pattern: regexp.MustCompile("SELECT .* FROM .risks. WHERE risk_id = "),
				columns: []string{"risk_id", "approval_status"},
				rows:    [][]driver.Value{{int64(42), status}},
			},
		}

		db, state, cleanup := newScriptedGormDB(t, steps)

		_, err := NewApprovalService(db).Submit(42, 7)
		if !errors.Is(err, ErrRiskNotSubmittable) {
			t.Fatalf("status %q: expected ErrRiskNotSubmittable, got %v", status, err)
		}

		if err := state.verifyComplete(); err != nil {
			t.Fatalf("status %q: %v", status, err)
		}
		cleanup()
	}
}

func TestSubmitRejectsRiskWithOpenRequest(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .risks. WHERE risk_id = "),
			columns: []string{"risk_id", "approval_status"},
			rows:    [][]driver.Value{{int64(42), models.ApprovalStatusRejected}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM .risk_approval_requests. WHERE risk_id = "),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewApprovalService(db).Submit(42, 7)
	if !errors.Is(err, ErrPendingRequestExists) {
		t.Fatalf("expected ErrPendingRequestExists, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDuplicateNote(t *testing.T) {
	ar := "ملاحظة"
	en := "note"

	gotAr, gotEn := duplicateNote(&ar, nil)
	if gotAr == nil || gotEn == nil || *gotAr != ar || *gotEn != ar {
		t.Fatalf("expected Arabic note duplicated into both locales, got %v / %v", gotAr, gotEn)
	}

	gotAr, gotEn = duplicateNote(nil, &en)
	if gotAr == nil || gotEn == nil || *gotAr != en || *gotEn != en {
		t.Fatalf("expected English note duplicated into both locales, got %v / %v", gotAr, gotEn)
	}

	gotAr, gotEn = duplicateNote(&ar, &en)
	if *gotAr != ar || *gotEn != en {
		t.Fatalf("expected both notes kept as supplied, got %v / %v", gotAr, gotEn)
	}

	gotAr, gotEn = duplicateNote(nil, nil)
	if gotAr != nil || gotEn != nil {
		t.Fatalf("expected nil notes to stay nil, got %v / %v", gotAr, gotEn)
	}
}

func TestActionOutcomesCoverEveryAction(t *testing.T) {
	cases := map[string]actionOutcome{
		ActionApprove:         {models.RequestStatusApproved, models.ApprovalStatusApproved},
		ActionReject:          {models.RequestStatusRejected, models.ApprovalStatusRejected},
		ActionDefer:           {models.RequestStatusDeferred, models.ApprovalStatusDeferred},
		ActionRequestRevision: {models.RequestStatusRevisionRequested, models.ApprovalStatusRevisionRequested},
	}

	for action, want := range cases {
		got, ok := actionOutcomes[action]
		if !ok {
			t.Fatalf("missing outcome for action %q", action)
		}
		if got != want {
			t.Fatalf("action %q maps to %+v, want %+v", action, got, want)
		}
	}
}
