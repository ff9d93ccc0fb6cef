package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/classforge/formkit/pkg/resolver"
	"github.com/classforge/formkit/pkg/schema"
)

// Phase is the lifecycle position of a render session.
type Phase string

const (
	// PhaseEditing accepts value edits.
	PhaseEditing Phase = "editing"
	// PhaseSubmitted is terminal; a new session starts on the next mount.
	PhaseSubmitted Phase = "submitted"
)

var (
	// ErrSessionSubmitted signals an edit or submit after the session already
	// completed.
	ErrSessionSubmitted = errors.New("render: session already submitted")
	// ErrUnknownField signals an edit addressed a name the schema does not
	// declare (or a kind the engine cannot render). Treated as a warning.
	ErrUnknownField = errors.New("render: unknown field")
	// ErrValidationFailed signals a blocked submission; the session stays in
	// the editing phase with the error map populated.
	ErrValidationFailed = errors.New("render: validation failed")
)

// SubmitHandler receives the finished value map exactly once per session.
type SubmitHandler func(values map[string]any) error

// SessionOption customises a Session at construction.
type SessionOption func(*Session)

// WithInitialValues seeds the session with previously stored values. The map
// is deep-copied; the caller's copy is never mutated.
func WithInitialValues(values map[string]any) SessionOption {
	return func(s *Session) {
		s.values = cloneValueMap(values)
	}
}

// WithServerErrors seeds field errors from a rejected server-side submission.
func WithServerErrors(errs map[string][]string) SessionOption {
	return func(s *Session) {
		for name, messages := range errs {
			s.errors[name] = append([]string(nil), messages...)
		}
	}
}

// WithResolver wires the dependent-field resolver used to gate cascading
// fields and clear stale downstream selections after every edit.
func WithResolver(r *resolver.Resolver) SessionOption {
	return func(s *Session) {
		s.resolver = r
	}
}

// WithSubmitHandler registers the callback invoked with the final value map
// when validation passes.
func WithSubmitHandler(handler SubmitHandler) SessionOption {
	return func(s *Session) {
		s.onSubmit = handler
	}
}

// Session is one interpretation pass of a schema against a value map: edits
// flow in through Set, validation runs at Submit, and the finished value map
// flows out through the submit handler. The schema itself is never mutated.
//
// The lifecycle is Editing → validating → Editing (errors present) or
// Submitted (errors empty); Submitted is terminal.
type Session struct {
	schema   schema.FormSchema
	values   map[string]any
	errors   map[string][]string
	resolver *resolver.Resolver
	onSubmit SubmitHandler
	phase    Phase
}

// NewSession starts a render session over the given schema.
func NewSession(s schema.FormSchema, options ...SessionOption) *Session {
	session := &Session{
		schema: s.Clone(),
		values: make(map[string]any),
		errors: make(map[string][]string),
		phase:  PhaseEditing,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(session)
	}
	return session
}

// Phase reports the session's lifecycle position.
func (s *Session) Phase() Phase {
	return s.phase
}

// Schema returns the immutable schema this session interprets.
func (s *Session) Schema() schema.FormSchema {
	return s.schema.Clone()
}

// Set routes a user edit into the value map, clears any standing error for
// the field, and re-resolves the cascade so stale downstream selections are
// dropped immediately.
func (s *Session) Set(ctx context.Context, name string, value any) error {
	if s.phase == PhaseSubmitted {
		return ErrSessionSubmitted
	}
	field := s.schema.FieldByName(name)
	if field == nil || !field.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	s.values[name] = value
	delete(s.errors, name)

	if s.resolver != nil {
		_, cleared := s.resolver.Apply(ctx, s.schema, s.values)
		for _, downstream := range cleared {
			delete(s.errors, downstream)
		}
	}
	return nil
}

// Value reads the current value for a field name.
func (s *Session) Value(name string) (any, bool) {
	value, ok := s.values[name]
	return value, ok
}

// Values returns a copy of the in-progress value map restricted to fields the
// schema declares with a supported kind. Unknown kinds render nothing and are
// excluded from the emitted map.
func (s *Session) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for _, field := range s.schema.Fields {
		if !field.Kind.Valid() {
			continue
		}
		if value, ok := s.values[field.Name]; ok {
			out[field.Name] = cloneValue(value)
		}
	}
	return out
}

// Errors returns the current error map keyed by field name.
func (s *Session) Errors() map[string][]string {
	out := make(map[string][]string, len(s.errors))
	for name, messages := range s.errors {
		out[name] = append([]string(nil), messages...)
	}
	return out
}

// FieldStates resolves the current enablement and live options of every
// dependent field. Without a resolver every dependent field reports disabled.
func (s *Session) FieldStates(ctx context.Context) map[string]resolver.FieldState {
	if s.resolver == nil {
		states := make(map[string]resolver.FieldState)
		for _, field := range s.schema.Fields {
			if len(field.DependsOn) > 0 {
				states[field.Name] = resolver.FieldState{}
			}
		}
		return states
	}
	return s.resolver.Resolve(ctx, s.schema, s.values)
}

// Submit validates every field sequentially, collecting all failures rather
// than stopping at the first. A non-empty error map blocks submission and the
// session stays editable. On success the submit handler receives the value
// map exactly once and the session becomes terminal.
func (s *Session) Submit(ctx context.Context) (map[string]any, error) {
	if s.phase == PhaseSubmitted {
		return nil, ErrSessionSubmitted
	}

	collected := make(map[string][]string)
	for _, field := range s.schema.Fields {
		if !field.Kind.Valid() {
			continue
		}
		if messages := ValidateField(field, s.values[field.Name]); len(messages) > 0 {
			collected[field.Name] = messages
		}
	}

	if len(collected) > 0 {
		s.errors = collected
		return nil, fmt.Errorf("%w: %d field(s)", ErrValidationFailed, len(collected))
	}

	values := s.Values()
	if s.onSubmit != nil {
		if err := s.onSubmit(values); err != nil {
			// Leave the session editable so the operator can retry.
			return nil, fmt.Errorf("render: submit handler: %w", err)
		}
	}

	s.errors = make(map[string][]string)
	s.phase = PhaseSubmitted
	return values, nil
}

func cloneValueMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for name, value := range src {
		out[name] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneValueMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case []map[string]any:
		out := make([]map[string]any, len(v))
		for i, entry := range v {
			out[i] = cloneValueMap(entry)
		}
		return out
	default:
		return v
	}
}
