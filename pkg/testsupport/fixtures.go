// Package testsupport holds fixture helpers shared by the package tests and
// the demo wiring in the CLI.
package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/classforge/formkit/pkg/resolver"
	"github.com/classforge/formkit/pkg/schema"
)

// MustLoadSchema reads a JSON fixture into a form schema, failing the test on
// any error.
func MustLoadSchema(t *testing.T, path string) schema.FormSchema {
	t.Helper()
	doc, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return doc
}

// LoadSchema reads a JSON fixture into a form schema, for callers managing
// setup outside of *testing.T.
func LoadSchema(path string) (schema.FormSchema, error) {
	if path == "" {
		return schema.FormSchema{}, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("testsupport: read schema: %w", err)
	}
	doc, err := schema.Unmarshal(data)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("testsupport: unmarshal schema: %w", err)
	}
	return doc, nil
}

// WriteGolden writes a JSON golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// DiffSchemas fails the test when two schemas differ, printing a readable
// diff.
func DiffSchemas(t *testing.T, want, got schema.FormSchema) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}
}

// SchoolLookup is a canned option lookup covering the teacher, class, and
// subject cascade. It backs resolver examples and the CLI demo mode without a
// live data source.
func SchoolLookup() resolver.OptionLookup {
	classesByTeacher := map[string][]string{
		"T1": {"5A", "5B"},
		"T2": {"6A"},
	}
	subjectsByClass := map[string][]string{
		"5A": {"Mathematics", "Science"},
		"5B": {"English", "History"},
		"6A": {"Geography", "Art"},
	}

	return resolver.OptionLookupFunc(func(_ context.Context, field schema.Field, upstream map[string]string) ([]schema.Option, error) {
		var values []string
		switch field.Name {
		case "class":
			values = classesByTeacher[upstream["teacher"]]
		case "subject":
			values = subjectsByClass[upstream["class"]]
		default:
			return nil, fmt.Errorf("testsupport: no canned options for field %q", field.Name)
		}
		options := make([]schema.Option, len(values))
		for i, value := range values {
			options[i] = schema.Option{Label: value, Value: value, Order: i}
		}
		return options, nil
	})
}
