package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/classforge/formkit/pkg/catalog"
	"github.com/classforge/formkit/pkg/schema"
	"github.com/classforge/formkit/pkg/store"
	"github.com/classforge/formkit/pkg/store/memory"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	gw := memory.New()
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
	got, err := gw.Load(context.Background(), "student_form")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// Mutating the loaded copy must not leak into the store.
	got.Fields[0].Label = "tampered"
	reloaded, err := gw.Load(context.Background(), "student_form")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Fields[0].Label == "tampered" {
		t.Errorf("stored document was mutated through a returned copy")
	}
}

func TestLoadMissingKey(t *testing.T) {
	gw := memory.New()
	_, err := gw.Load(context.Background(), "student_form")
	if !errors.Is(err, store.ErrSchemaNotFound) {
		t.Fatalf("want ErrSchemaNotFound, got %v", err)
	}
}

func TestSaveRejectsInvalidSchema(t *testing.T) {
	gw := memory.New()
	doc := schema.FormSchema{
		Key: "student_form",
		Fields: []schema.Field{
			{ID: "f1", Name: "dup", Kind: schema.KindText},
			{ID: "f2", Name: "dup", Kind: schema.KindText},
		},
	}
	if err := gw.Save(context.Background(), doc); err == nil {
		t.Fatalf("duplicate field names must not be persisted")
	}
}

func TestGetOrCreateDefaultSynthesizesOnce(t *testing.T) {
	calls := 0
	gw := memory.New(memory.WithSynthesizer(func(key string) (schema.FormSchema, bool) {
		calls++
		return catalog.ByKey(key)
	}))

	first, err := gw.GetOrCreateDefault(context.Background(), "teacher_form")
	if err != nil {
		t.Fatalf("first default: %v", err)
	}
	second, err := gw.GetOrCreateDefault(context.Background(), "teacher_form")
	if err != nil {
		t.Fatalf("second default: %v", err)
	}
	if calls != 1 {
		t.Errorf("synthesizer should run once, ran %d times", calls)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("defaults diverged (-first +second):\n%s", diff)
	}
}

func TestLoadOrDefaultPrefersStoredDocument(t *testing.T) {
	gw := memory.New(memory.WithSynthesizer(catalog.ByKey))
	custom := schema.FormSchema{
		Key:        "student_form",
		EntityType: schema.EntityStudent,
		Fields: []schema.Field{
			{ID: "f1", Name: "nickname", Kind: schema.KindText},
		},
	}
	if err := gw.Save(context.Background(), custom); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.LoadOrDefault(context.Background(), gw, "student_form")
	if err != nil {
		t.Fatalf("load or default: %v", err)
	}
	if len(got.Fields) != 1 || got.Fields[0].Name != "nickname" {
		t.Errorf("stored customisation should win over the default, got %+v", got.Fields)
	}
}
