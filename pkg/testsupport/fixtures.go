package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-leadform/pkg/lead"
)

// ValidForm returns a form that passes every rule.
func ValidForm() lead.FormState {
	return lead.FormState{
		Name:          "Ana Lopez",
		Phone:         "55 1234 5678",
		Email:         "ana@correo.com",
		AgeBracket:    "26-35",
		RetirementAge: "65",
		IncomeBracket: "30000-50000",
		TaxInterest:   "si",
	}
}

// ValidValues returns ValidForm keyed by wire key, ready for url.Values or a
// JSON body.
func ValidValues() map[string]string {
	return ValidForm().Values()
}

// MustLoadLeads reads a JSON fixture holding a list of leads.
func MustLoadLeads(t *testing.T, path string) []lead.Lead {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load leads: %v", err)
	}
	var out []lead.Lead
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal leads: %v", err)
	}
	return out
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}
