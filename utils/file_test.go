package utils

import (
	"strings"
	"testing"
)

func TestGenerateStoredFilenameKeepsExtension(t *testing.T) {
	name := GenerateStoredFilename("Treatment Evidence.PDF")
	if !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("expected a lowercased .pdf suffix, got %q", name)
	}
	if strings.Contains(name, " ") {
		t.Fatalf("expected the original name to be discarded, got %q", name)
	}
}

func TestGenerateStoredFilenameIsUnique(t *testing.T) {
	a := GenerateStoredFilename("report.docx")
	b := GenerateStoredFilename("report.docx")
	if a == b {
		t.Fatalf("expected distinct stored names, got %q twice", a)
	}
}
