// Package builder holds the in-memory editing state for one form schema: the
// working schema plus a currently-selected-field pointer, mutated through a
// small explicit operation surface. Mutations keep field ids and machine names
// pairwise unique after every operation. Saving is not a builder concern;
// callers hand Schema() to a store.Gateway explicitly.
package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/classforge/formkit/pkg/schema"
)

var (
	// ErrFieldNotFound signals an operation referenced an unknown field id.
	// Callers treat it as a warning; the builder state is left untouched.
	ErrFieldNotFound = errors.New("builder: field not found")
	// ErrDuplicateName signals a patch would reuse another field's machine key.
	ErrDuplicateName = errors.New("builder: duplicate field name")
	// ErrInvalidKind signals an unknown FieldKind was supplied.
	ErrInvalidKind = errors.New("builder: invalid field kind")
	// ErrIndexOutOfRange signals a move with indices outside the field list.
	ErrIndexOutOfRange = errors.New("builder: index out of range")
)

// Option customises a Builder at construction time.
type Option func(*Builder)

// WithSchema seeds the builder with an existing schema instead of an empty one.
func WithSchema(s schema.FormSchema) Option {
	return func(b *Builder) {
		b.schema = s.Clone()
	}
}

// Builder is one interactive editing session over a single schema. It is not
// safe for concurrent use; every mutation is a synchronous in-memory edit
// triggered by a UI event.
type Builder struct {
	schema   schema.FormSchema
	selected string
}

// New constructs a builder session applying any provided options.
func New(options ...Option) *Builder {
	b := &Builder{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Schema returns a deep copy of the working schema so callers cannot bypass
// the mutation surface.
func (b *Builder) Schema() schema.FormSchema {
	return b.schema.Clone()
}

// SelectedID returns the id of the currently selected field, or "".
func (b *Builder) SelectedID() string {
	return b.selected
}

// Selected returns a copy of the selected field when one is set.
func (b *Builder) Selected() (schema.Field, bool) {
	if b.selected == "" {
		return schema.Field{}, false
	}
	field := b.schema.FieldByID(b.selected)
	if field == nil {
		return schema.Field{}, false
	}
	return field.Clone(), true
}

// AddField inserts a freshly generated field of the given kind at index and
// selects it. The index is clamped into [0, len(fields)] so a stale position
// from a racing UI never fails the insert. Option-bearing kinds are seeded
// with one placeholder option.
func (b *Builder) AddField(kind schema.FieldKind, index int) (schema.Field, error) {
	if !kind.Valid() {
		return schema.Field{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	if index < 0 {
		index = 0
	}
	if index > len(b.schema.Fields) {
		index = len(b.schema.Fields)
	}

	field := schema.Field{
		ID:    uuid.NewString(),
		Name:  b.generateName(kind),
		Label: "Untitled " + string(kind),
		Kind:  kind,
	}
	if kind.HasOptions() {
		field.Options = []schema.Option{
			{ID: uuid.NewString(), Label: "Option 1", Value: "option_1"},
		}
	}

	b.schema.Fields = append(b.schema.Fields, schema.Field{})
	copy(b.schema.Fields[index+1:], b.schema.Fields[index:])
	b.schema.Fields[index] = field
	b.selected = field.ID

	return field.Clone(), nil
}

// UpdateField shallow-merges the patch into the field matching id. The field
// id itself is never touched. A patch renaming the field onto another field's
// machine key is rejected with ErrDuplicateName.
func (b *Builder) UpdateField(id string, patch FieldPatch) error {
	field := b.schema.FieldByID(id)
	if field == nil {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, id)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fmt.Errorf("builder: field name cannot be empty")
		}
		if name != field.Name && b.schema.HasName(name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		field.Name = name
	}

	patch.apply(field)
	return nil
}

// RemoveField deletes the field matching id, clearing the selection when the
// removed field was selected. Downstream fields keeping the removed field in
// DependsOn are left alone; the resolver treats dangling references as
// permanently disabled.
func (b *Builder) RemoveField(id string) error {
	index := b.schema.IndexOf(id)
	if index < 0 {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, id)
	}

	b.schema.Fields = append(b.schema.Fields[:index], b.schema.Fields[index+1:]...)
	if b.selected == id {
		b.selected = ""
	}
	return nil
}

// MoveField relocates the field at from to position to, preserving the
// relative order of every other field.
func (b *Builder) MoveField(from, to int) error {
	n := len(b.schema.Fields)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d with %d fields", ErrIndexOutOfRange, from, to, n)
	}
	if from == to {
		return nil
	}

	field := b.schema.Fields[from]
	rest := append(b.schema.Fields[:from], b.schema.Fields[from+1:]...)
	rest = append(rest, schema.Field{})
	copy(rest[to+1:], rest[to:])
	rest[to] = field
	b.schema.Fields = rest
	return nil
}

// DuplicateField deep-clones the field matching id, assigns a fresh id and a
// derived still-unique name, inserts the clone directly after the source, and
// selects it.
func (b *Builder) DuplicateField(id string) (schema.Field, error) {
	index := b.schema.IndexOf(id)
	if index < 0 {
		return schema.Field{}, fmt.Errorf("%w: %q", ErrFieldNotFound, id)
	}

	clone := b.schema.Fields[index].Clone()
	clone.ID = uuid.NewString()
	clone.Name = b.deriveCopyName(clone.Name)

	b.schema.Fields = append(b.schema.Fields, schema.Field{})
	copy(b.schema.Fields[index+2:], b.schema.Fields[index+1:])
	b.schema.Fields[index+1] = clone
	b.selected = clone.ID

	return clone.Clone(), nil
}

// SelectField moves the UI selection pointer. An empty id clears it. The
// schema content is never touched.
func (b *Builder) SelectField(id string) error {
	if id == "" {
		b.selected = ""
		return nil
	}
	if b.schema.FieldByID(id) == nil {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, id)
	}
	b.selected = id
	return nil
}

// MetaPatch updates top-level display metadata. Nil members are left as-is.
type MetaPatch struct {
	Name        *string
	Description *string
}

// SetMeta applies a partial update to the schema's display metadata.
func (b *Builder) SetMeta(patch MetaPatch) {
	if patch.Name != nil {
		b.schema.Name = *patch.Name
	}
	if patch.Description != nil {
		b.schema.Description = *patch.Description
	}
}

// SetEntityType records the business object this schema configures.
func (b *Builder) SetEntityType(entity schema.EntityType) {
	b.schema.EntityType = entity
}

// SetSchema replaces the entire working schema and clears the selection.
func (b *Builder) SetSchema(s schema.FormSchema) {
	b.schema = s.Clone()
	b.selected = ""
}

func (b *Builder) generateName(kind schema.FieldKind) string {
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
		name := fmt.Sprintf("%s_%s", kind, suffix)
		if !b.schema.HasName(name) {
			return name
		}
	}
}

func (b *Builder) deriveCopyName(base string) string {
	candidate := base + "_copy"
	for i := 2; b.schema.HasName(candidate); i++ {
		candidate = fmt.Sprintf("%s_copy%d", base, i)
	}
	return candidate
}
