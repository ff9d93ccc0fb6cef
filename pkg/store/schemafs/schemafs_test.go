package schemafs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/classforge/formkit/pkg/catalog"
	"github.com/classforge/formkit/pkg/schema"
	"github.com/classforge/formkit/pkg/store"
	"github.com/classforge/formkit/pkg/store/schemafs"
)

func newStore(t *testing.T, options ...schemafs.Option) (*schemafs.Store, string) {
	t.Helper()
	dir := t.TempDir()
	gw, err := schemafs.New(dir, options...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return gw, dir
}

func TestSaveWritesCanonicalJSON(t *testing.T) {
	gw, dir := newStore(t)
	doc := schema.FormSchema{
		Key:        "student_form",
		EntityType: schema.EntityStudent,
		Fields: []schema.Field{
			{ID: "f1", Name: "first_name", Kind: schema.KindText, Required: true},
		},
	}

	if err := gw.Save(context.Background(), doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "student_form.json")); err != nil {
		t.Fatalf("expected student_form.json on disk: %v", err)
	}

	got, err := gw.Load(context.Background(), "student_form")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadParsesYAMLDocuments(t *testing.T) {
	gw, dir := newStore(t)
	raw := `
key: class_form
name: Class
entityType: class
fields:
  - id: f1
    name: name
    label: Class Name
    kind: text
    required: true
  - id: f2
    name: grade
    kind: select
    options:
      - id: o1
        label: Grade 5
        value: "5"
`
	if err := os.WriteFile(filepath.Join(dir, "class_form.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := gw.Load(context.Background(), "class_form")
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if got.EntityType != schema.EntityClass {
		t.Errorf("entityType not decoded, got %q", got.EntityType)
	}
	if len(got.Fields) != 2 || got.Fields[1].Options[0].Value != "5" {
		t.Errorf("unexpected fields: %+v", got.Fields)
	}
}

func TestLoadMissingKey(t *testing.T) {
	gw, _ := newStore(t)
	_, err := gw.Load(context.Background(), "absent_form")
	if !errors.Is(err, store.ErrSchemaNotFound) {
		t.Fatalf("want ErrSchemaNotFound, got %v", err)
	}
}

func TestGetOrCreateDefaultPersists(t *testing.T) {
	gw, dir := newStore(t, schemafs.WithSynthesizer(catalog.ByKey))

	doc, err := gw.GetOrCreateDefault(context.Background(), "exam_form")
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if doc.EntityType != schema.EntityExam {
		t.Errorf("unexpected entity type %q", doc.EntityType)
	}
	if _, err := os.Stat(filepath.Join(dir, "exam_form.json")); err != nil {
		t.Errorf("default should be persisted: %v", err)
	}
}

func TestKeysDeduplicatesExtensions(t *testing.T) {
	gw, dir := newStore(t)
	for _, name := range []string{"a_form.json", "a_form.yaml", "b_form.yml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	keys, err := gw.Keys(context.Background())
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if diff := cmp.Diff([]string{"a_form", "b_form"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}
