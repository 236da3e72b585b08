package models

import "testing"

func TestFileUploadIsValidDocumentType(t *testing.T) {
	accepted := []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"image/jpeg",
		"image/png",
	}
	for _, mime := range accepted {
		f := FileUpload{MimeType: mime}
		if !f.IsValidDocumentType() {
			t.Fatalf("expected %q to be accepted", mime)
		}
	}

	rejected := []string{"application/x-msdownload", "text/html", "video/mp4", ""}
	for _, mime := range rejected {
		f := FileUpload{MimeType: mime}
		if f.IsValidDocumentType() {
			t.Fatalf("expected %q to be rejected", mime)
		}
	}
}

func TestFileUploadGetFileSizeInMB(t *testing.T) {
	f := FileUpload{FileSize: 5 * 1024 * 1024}
	if got := f.GetFileSizeInMB(); got != 5.0 {
		t.Fatalf("GetFileSizeInMB = %f, want 5.0", got)
	}

	f.FileSize = 512 * 1024
	if got := f.GetFileSizeInMB(); got != 0.5 {
		t.Fatalf("GetFileSizeInMB = %f, want 0.5", got)
	}
}
