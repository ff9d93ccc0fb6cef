package builder_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/classforge/formkit/pkg/builder"
	"github.com/classforge/formkit/pkg/schema"
)

func strPtr(s string) *string { return &s }

func seededBuilder(t *testing.T) (*builder.Builder, []schema.Field) {
	t.Helper()
	b := builder.New()
	var fields []schema.Field
	for _, kind := range []schema.FieldKind{schema.KindText, schema.KindSelect, schema.KindDate} {
		field, err := b.AddField(kind, len(fields))
		if err != nil {
			t.Fatalf("add %s field: %v", kind, err)
		}
		fields = append(fields, field)
	}
	return b, fields
}

func assertUniqueness(t *testing.T, s schema.FormSchema) {
	t.Helper()
	ids := make(map[string]struct{})
	names := make(map[string]struct{})
	for _, field := range s.Fields {
		if _, dup := ids[field.ID]; dup {
			t.Fatalf("duplicate field id %q", field.ID)
		}
		if _, dup := names[field.Name]; dup {
			t.Fatalf("duplicate field name %q", field.Name)
		}
		ids[field.ID] = struct{}{}
		names[field.Name] = struct{}{}
	}
}

func TestAddFieldSeedsAndSelects(t *testing.T) {
	b := builder.New()

	field, err := b.AddField(schema.KindSelect, 0)
	if err != nil {
		t.Fatalf("add field: %v", err)
	}

	if field.Label != "Untitled select" {
		t.Errorf("label = %q", field.Label)
	}
	if len(field.Options) != 1 {
		t.Errorf("expected one seeded option, got %d", len(field.Options))
	}
	if b.SelectedID() != field.ID {
		t.Errorf("new field not selected")
	}

	text, err := b.AddField(schema.KindText, 99)
	if err != nil {
		t.Fatalf("add field with oversized index: %v", err)
	}
	s := b.Schema()
	if s.Fields[len(s.Fields)-1].ID != text.ID {
		t.Errorf("oversized index should clamp to append")
	}
	if len(text.Options) != 0 {
		t.Errorf("text field should not carry seeded options")
	}

	first, err := b.AddField(schema.KindDate, -5)
	if err != nil {
		t.Fatalf("add field with negative index: %v", err)
	}
	if got := b.Schema().Fields[0].ID; got != first.ID {
		t.Errorf("negative index should clamp to prepend")
	}

	assertUniqueness(t, b.Schema())
}

func TestAddFieldRejectsUnknownKind(t *testing.T) {
	b := builder.New()
	if _, err := b.AddField("carousel", 0); !errors.Is(err, builder.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestUpdateField(t *testing.T) {
	b, fields := seededBuilder(t)

	required := true
	if err := b.UpdateField(fields[0].ID, builder.FieldPatch{
		Label:    strPtr("First Name"),
		Required: &required,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := b.Schema().Fields[0]
	if got.Label != "First Name" || !got.Required {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.ID != fields[0].ID {
		t.Errorf("update changed the field id")
	}

	if err := b.UpdateField("missing", builder.FieldPatch{Label: strPtr("x")}); !errors.Is(err, builder.ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestUpdateFieldRejectsDuplicateName(t *testing.T) {
	b, fields := seededBuilder(t)

	err := b.UpdateField(fields[1].ID, builder.FieldPatch{Name: strPtr(fields[0].Name)})
	if !errors.Is(err, builder.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if got := b.Schema().Fields[1].Name; got != fields[1].Name {
		t.Errorf("rejected patch mutated the name to %q", got)
	}

	// Renaming to its own current name is not a collision.
	if err := b.UpdateField(fields[1].ID, builder.FieldPatch{Name: strPtr(fields[1].Name)}); err != nil {
		t.Fatalf("self rename: %v", err)
	}
}

func TestRemoveFieldClearsSelection(t *testing.T) {
	b, fields := seededBuilder(t)

	if err := b.SelectField(fields[1].ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := b.RemoveField(fields[1].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if b.SelectedID() != "" {
		t.Errorf("selection should clear when selected field is removed")
	}
	if got := len(b.Schema().Fields); got != 2 {
		t.Errorf("field count = %d, want 2", got)
	}
	if err := b.RemoveField(fields[1].ID); !errors.Is(err, builder.ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound on double remove, got %v", err)
	}
}

func TestMoveFieldIsStable(t *testing.T) {
	b, fields := seededBuilder(t)
	extra, err := b.AddField(schema.KindCheckbox, 3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	original := []string{fields[0].ID, fields[1].ID, fields[2].ID, extra.ID}

	if err := b.MoveField(0, 2); err != nil {
		t.Fatalf("move: %v", err)
	}
	moved := idsOf(b.Schema())
	want := []string{original[1], original[2], original[0], original[3]}
	if diff := cmp.Diff(want, moved); diff != "" {
		t.Fatalf("move order mismatch (-want +got):\n%s", diff)
	}

	if err := b.MoveField(2, 0); err != nil {
		t.Fatalf("move back: %v", err)
	}
	if diff := cmp.Diff(original, idsOf(b.Schema())); diff != "" {
		t.Fatalf("move/move-back should restore order (-want +got):\n%s", diff)
	}

	if err := b.MoveField(0, 9); !errors.Is(err, builder.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestDuplicateFieldIndependence(t *testing.T) {
	b, fields := seededBuilder(t)

	minLen := 3
	if err := b.UpdateField(fields[1].ID, builder.FieldPatch{
		Validations: &schema.Validations{MinLength: &minLen},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	clone, err := b.DuplicateField(fields[1].ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	s := b.Schema()
	if s.Fields[2].ID != clone.ID {
		t.Errorf("clone should sit directly after the source")
	}
	if clone.ID == fields[1].ID {
		t.Errorf("clone reused the source id")
	}
	if clone.Name == fields[1].Name {
		t.Errorf("clone reused the source name")
	}
	if b.SelectedID() != clone.ID {
		t.Errorf("clone should be selected")
	}

	source := s.Fields[1]
	ignore := cmpopts.IgnoreFields(schema.Field{}, "ID", "Name")
	if diff := cmp.Diff(source, s.Fields[2], ignore); diff != "" {
		t.Fatalf("clone content should deep-equal source (-want +got):\n%s", diff)
	}

	// Deep copy, not shared references.
	if err := b.UpdateField(clone.ID, builder.FieldPatch{
		Options: &[]schema.Option{{ID: "x", Label: "X", Value: "x"}},
	}); err != nil {
		t.Fatalf("update clone: %v", err)
	}
	if got := b.Schema().Fields[1].Options[0].Value; got == "x" {
		t.Errorf("clone options aliased the source")
	}

	assertUniqueness(t, b.Schema())
}

func TestSetSchemaClearsSelection(t *testing.T) {
	b, fields := seededBuilder(t)
	if err := b.SelectField(fields[0].ID); err != nil {
		t.Fatalf("select: %v", err)
	}

	b.SetSchema(schema.FormSchema{Key: "exam_form", EntityType: schema.EntityExam})
	if b.SelectedID() != "" {
		t.Errorf("selection should clear on schema replacement")
	}
	if got := b.Schema().Key; got != "exam_form" {
		t.Errorf("schema not replaced, key = %q", got)
	}
}

func TestSetMeta(t *testing.T) {
	b := builder.New(builder.WithSchema(schema.FormSchema{Key: "student_form"}))

	b.SetMeta(builder.MetaPatch{Name: strPtr("Student Intake")})
	b.SetEntityType(schema.EntityStudent)

	s := b.Schema()
	if s.Name != "Student Intake" || s.EntityType != schema.EntityStudent {
		t.Fatalf("meta not applied: %+v", s)
	}
	if s.Description != "" {
		t.Fatalf("nil patch member should leave description untouched")
	}
}

func idsOf(s schema.FormSchema) []string {
	out := make([]string, len(s.Fields))
	for i, field := range s.Fields {
		out[i] = field.ID
	}
	return out
}
