package services

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"
)

func todayPrefix() string {
	return fmt.Sprintf("RSK-%s-", time.Now().Format("20060102"))
}

func TestGenerateRiskNumberContinuesSequence(t *testing.T) {
	prefix := todayPrefix()
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT MAX\\(risk_number\\) FROM .risks. WHERE risk_number LIKE "),
			columns: []string{"MAX(risk_number)"},
			rows:    [][]driver.Value{{prefix + "0007"}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	number, err := GenerateRiskNumber(db)
	if err != nil {
		t.Fatalf("GenerateRiskNumber returned error: %v", err)
	}
	if want := prefix + "0008"; number != want {
		t.Fatalf("GenerateRiskNumber = %q, want %q", number, want)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGenerateRiskNumberStartsAtOne(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT MAX\\(risk_number\\) FROM .risks. WHERE risk_number LIKE "),
			columns: []string{"MAX(risk_number)"},
			rows:    [][]driver.Value{{nil}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	number, err := GenerateRiskNumber(db)
	if err != nil {
		t.Fatalf("GenerateRiskNumber returned error: %v", err)
	}
	if want := todayPrefix() + "0001"; number != want {
		t.Fatalf("GenerateRiskNumber = %q, want %q", number, want)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGenerateRiskNumberPropagatesQueryError(t *testing.T) {
	dbErr := errors.New("connection lost")
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT MAX\\(risk_number\\) FROM .risks. WHERE risk_number LIKE "),
			err:     dbErr,
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	if _, err := GenerateRiskNumber(db); !errors.Is(err, dbErr) {
		t.Fatalf("expected query error to propagate, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
