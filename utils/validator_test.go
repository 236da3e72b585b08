package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"admin@example.org",
		"first.last@risk.example.co",
		"user+tag@example.com",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Fatalf("expected %q to be valid", email)
		}
	}

	invalid := []string{"", "admin", "admin@", "@example.org", "admin@example", "a b@example.org"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("longenough"); !ok {
		t.Fatalf("expected an 8+ character password to pass")
	}
	if ok, msg := ValidatePassword("short"); ok || msg == "" {
		t.Fatalf("expected a short password to fail with a message")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  name\x00 "); got != "name" {
		t.Fatalf("SanitizeInput = %q, want %q", got, "name")
	}
}
