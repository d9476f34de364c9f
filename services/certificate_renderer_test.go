package services

import (
	"bytes"
	"errors"
	"testing"
)

var testFields = CertificateFields{
	StudentName:    "Ada Lovelace",
	CourseTitle:    "Computation I",
	Issuer:         "Test Institute",
	CompletionDate: "2024-01-01",
	ID:             "abc123",
}

func newRenderer(t *testing.T) *CertificateRenderer {
	t.Helper()
	r, err := NewCertificateRenderer()
	if err != nil {
		t.Fatalf("NewCertificateRenderer failed: %v", err)
	}
	return r
}

func TestRenderPNGDeterministic(t *testing.T) {
	r := newRenderer(t)

	first, err := r.Render(testFields, MIMEPNG)
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, err := r.Render(testFields, MIMEPNG)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two PNG renders of identical fields must be byte-identical")
	}
	if len(first) == 0 {
		t.Error("render produced an empty artifact")
	}
}

func TestRenderPDFDeterministic(t *testing.T) {
	r := newRenderer(t)

	first, err := r.Render(testFields, MIMEPDF)
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, err := r.Render(testFields, MIMEPDF)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two PDF renders of identical fields must be byte-identical")
	}
	if !bytes.HasPrefix(first, []byte("%PDF")) {
		t.Error("PDF artifact missing %PDF header")
	}
}

func TestRenderDiffersPerInput(t *testing.T) {
	r := newRenderer(t)

	base, err := r.Render(testFields, MIMEPNG)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	changed := testFields
	changed.StudentName = "Grace Hopper"
	other, err := r.Render(changed, MIMEPNG)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if bytes.Equal(base, other) {
		t.Error("different fields must produce different artifacts")
	}
}

func TestRenderBlankIssuerAndDate(t *testing.T) {
	r := newRenderer(t)

	fields := CertificateFields{StudentName: "Ada Lovelace", CourseTitle: "Computation I", ID: "abc123"}
	for _, fileType := range []string{MIMEPNG, MIMEPDF} {
		if _, err := r.Render(fields, fileType); err != nil {
			t.Errorf("blank issuer/date must render as absent, not error (%s): %v", fileType, err)
		}
	}
}

func TestRenderUnsupportedFileType(t *testing.T) {
	r := newRenderer(t)

	_, err := r.Render(testFields, "image/jpeg")
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Errorf("expected *RenderError for unsupported file type, got %v", err)
	}
}

func TestRenderMissingRequiredFields(t *testing.T) {
	r := newRenderer(t)

	_, err := r.Render(CertificateFields{CourseTitle: "Computation I", ID: "abc123"}, MIMEPNG)
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Errorf("expected *RenderError for missing student name, got %v", err)
	}
}

func TestFormatCompletionDate(t *testing.T) {
	if got := formatCompletionDate("2024-01-01"); got != "January 1, 2024" {
		t.Errorf("formatCompletionDate = %q", got)
	}
	if got := formatCompletionDate("Spring Term 2024"); got != "Spring Term 2024" {
		t.Errorf("free-text dates must pass through, got %q", got)
	}
}
