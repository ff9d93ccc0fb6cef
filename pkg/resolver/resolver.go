// Package resolver computes the runtime availability of cascading fields:
// whether a field declaring DependsOn is currently enabled, which options it
// may offer given the upstream values, and which stale downstream values must
// be cleared after an upstream edit.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/classforge/formkit/pkg/schema"
)

// ErrStale signals a lookup result arrived after a newer edit superseded it.
// Callers discard the accompanying state instead of applying it.
var ErrStale = errors.New("resolver: stale lookup result")

// OptionLookup fetches the live option list for a dependent field, keyed by
// the concrete upstream values (for example "classes taught by teacher T1").
// Implementations sit at the data-fetch boundary; the resolver only decides
// when to call and with which key.
type OptionLookup interface {
	Lookup(ctx context.Context, field schema.Field, upstream map[string]string) ([]schema.Option, error)
}

// OptionLookupFunc adapts a function into an OptionLookup.
type OptionLookupFunc func(ctx context.Context, field schema.Field, upstream map[string]string) ([]schema.Option, error)

// Lookup delegates to the underlying function.
func (fn OptionLookupFunc) Lookup(ctx context.Context, field schema.Field, upstream map[string]string) ([]schema.Option, error) {
	return fn(ctx, field, upstream)
}

// FieldState is the resolved runtime condition of one dependent field.
type FieldState struct {
	// Enabled is true when every upstream field carries a non-empty value and
	// the option lookup succeeded.
	Enabled bool
	// Options is the current option list: static options for independent
	// fields, lookup results for enabled dependent ones. Order is preserved;
	// ids are assigned by position when the lookup leaves them empty.
	Options []schema.Option
	// Missing names the upstream fields still lacking a value.
	Missing []string
	// LookupErr records a failed lookup. The field degrades to disabled with
	// empty options; the error is informational, never fatal to the form.
	LookupErr error
}

// Option customises a Resolver.
type Option func(*Resolver)

// Resolver evaluates dependent fields against a schema and a value map. It is
// safe for use across the asynchronous lookup boundary: each field keeps a
// generation counter so superseded lookups can be detected on arrival.
type Resolver struct {
	lookup OptionLookup

	mu  sync.Mutex
	gen map[string]uint64
}

// New constructs a Resolver around the given lookup. A nil lookup is legal;
// every dependent field then resolves to disabled with empty options.
func New(lookup OptionLookup, options ...Option) *Resolver {
	r := &Resolver{
		lookup: lookup,
		gen:    make(map[string]uint64),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// ResolveField computes the state of a single field. For dependent fields it
// bumps the field's generation before the lookup and reports ErrStale when a
// newer call started while this one was in flight, so slow responses for
// superseded upstream values are never applied.
func (r *Resolver) ResolveField(ctx context.Context, s schema.FormSchema, field schema.Field, values map[string]any) (FieldState, error) {
	if len(field.DependsOn) == 0 {
		return FieldState{Enabled: true, Options: append([]schema.Option(nil), field.Options...)}, nil
	}

	upstream := make(map[string]string, len(field.DependsOn))
	var missing []string
	for _, name := range field.DependsOn {
		if s.FieldByName(name) == nil {
			// Dangling reference: the upstream field was removed. Fail safe.
			missing = append(missing, name)
			continue
		}
		value := stringValue(values[name])
		if value == "" {
			missing = append(missing, name)
			continue
		}
		upstream[name] = value
	}
	if len(missing) > 0 {
		return FieldState{Missing: missing}, nil
	}
	if r.lookup == nil {
		return FieldState{}, nil
	}

	generation := r.begin(field.Name)

	options, err := r.lookup.Lookup(ctx, field, upstream)
	if !r.current(field.Name, generation) {
		return FieldState{}, fmt.Errorf("%w: field %q", ErrStale, field.Name)
	}
	if err != nil {
		return FieldState{LookupErr: err}, nil
	}

	return FieldState{Enabled: true, Options: normalizeOptions(options)}, nil
}

// Resolve walks the schema in field order and returns the state of every
// dependent field keyed by field name. Lookup failures disable the affected
// field only; the rest of the form resolves normally.
func (r *Resolver) Resolve(ctx context.Context, s schema.FormSchema, values map[string]any) map[string]FieldState {
	states := make(map[string]FieldState)
	for _, field := range s.Fields {
		if len(field.DependsOn) == 0 {
			continue
		}
		state, err := r.ResolveField(ctx, s, field, values)
		if err != nil {
			// A concurrent edit superseded this pass; skip rather than apply.
			continue
		}
		states[field.Name] = state
	}
	return states
}

// Apply resolves the schema and additionally clears values that became stale:
// a dependent field's value is dropped when the field is disabled or when the
// value no longer appears in its fresh option list. Clearing cascades left to
// right, so emptying B transitively disables and clears C in an A → B → C
// chain. The returned slice names the cleared fields in schema order.
func (r *Resolver) Apply(ctx context.Context, s schema.FormSchema, values map[string]any) (map[string]FieldState, []string) {
	states := make(map[string]FieldState)
	var cleared []string

	for _, field := range s.Fields {
		if len(field.DependsOn) == 0 {
			continue
		}
		state, err := r.ResolveField(ctx, s, field, values)
		if err != nil {
			continue
		}

		current, present := values[field.Name]
		if present && !isEmptyValue(current) {
			if !state.Enabled || !containsValue(state.Options, current) {
				delete(values, field.Name)
				cleared = append(cleared, field.Name)
			}
		}
		states[field.Name] = state
	}
	return states, cleared
}

func (r *Resolver) begin(field string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen[field]++
	return r.gen[field]
}

func (r *Resolver) current(field string, generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen[field] == generation
}

func normalizeOptions(options []schema.Option) []schema.Option {
	out := make([]schema.Option, len(options))
	for i, opt := range options {
		if opt.ID == "" {
			opt.ID = fmt.Sprint(i)
		}
		if opt.Label == "" {
			opt.Label = opt.Value
		}
		out[i] = opt
	}
	return out
}

func containsValue(options []schema.Option, value any) bool {
	switch v := value.(type) {
	case []string:
		for _, item := range v {
			if !containsValue(options, item) {
				return false
			}
		}
		return len(v) > 0
	case []any:
		for _, item := range v {
			if !containsValue(options, item) {
				return false
			}
		}
		return len(v) > 0
	default:
		needle := stringValue(value)
		for _, opt := range options {
			if opt.Value == needle {
				return true
			}
		}
		return false
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}
