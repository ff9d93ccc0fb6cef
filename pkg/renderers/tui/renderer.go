// Package tui renders a schema as an interactive terminal session: each field
// becomes a prompt, dependent fields gate on their upstream answers, and the
// collected value map is serialized on completion.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/classforge/formkit/pkg/render"
	"github.com/classforge/formkit/pkg/resolver"
	"github.com/classforge/formkit/pkg/schema"
)

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver       PromptDriver
	resolver     *resolver.Resolver
	outputFormat OutputFormat
	onSubmit     render.SubmitHandler
	readFile     func(path string) ([]byte, error)
	theme        Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		readFile:     os.ReadFile,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, ErrDriverRequired
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render walks the schema in field order, prompting for each supported field.
// Fields whose dependencies are unmet are skipped with a notice. The finished
// session is validated and serialized in the configured output format.
func (r *Renderer) Render(ctx context.Context, s schema.FormSchema, opts render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrDriverRequired
	}

	session := render.NewSession(s,
		render.WithInitialValues(opts.Values),
		render.WithServerErrors(opts.Errors),
		render.WithResolver(r.resolver),
		render.WithSubmitHandler(r.onSubmit),
	)

	for _, field := range session.Schema().Fields {
		if !field.Kind.Valid() {
			continue
		}
		if err := r.collectField(ctx, session, field); err != nil {
			return nil, err
		}
	}

	values, err := session.Submit(ctx)
	if err != nil {
		if errors.Is(err, render.ErrValidationFailed) {
			for name, messages := range session.Errors() {
				r.info(ctx, fmt.Sprintf("%s: %s", name, strings.Join(messages, "; ")), true)
			}
		}
		return nil, err
	}

	return r.serialize(session.Schema(), values)
}

// collectField prompts until the answer passes the field's validation rules,
// then routes it into the session. Skipped fields leave the session untouched.
func (r *Renderer) collectField(ctx context.Context, session *render.Session, field schema.Field) error {
	options := field.Options
	if len(field.DependsOn) > 0 {
		state, skip, err := r.dependentState(ctx, session, field)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}
		options = state.Options
	}

	for {
		value, answered, err := r.promptValue(ctx, field, session, options)
		if err != nil {
			return err
		}
		if !answered {
			return nil
		}
		if messages := render.ValidateField(field, value); len(messages) > 0 {
			r.info(ctx, fmt.Sprintf("Invalid %s: %s", field.Name, strings.Join(messages, "; ")), true)
			continue
		}
		return session.Set(ctx, field.Name, value)
	}
}

// dependentState resolves a cascading field against the answers collected so
// far. Unmet dependencies and failed lookups skip the field with a notice
// rather than aborting the session.
func (r *Renderer) dependentState(ctx context.Context, session *render.Session, field schema.Field) (resolver.FieldState, bool, error) {
	states := session.FieldStates(ctx)
	state := states[field.Name]
	if state.Enabled {
		return state, false, nil
	}
	msg := fmt.Sprintf("Skipping %s (requires %s)", field.Name, strings.Join(field.DependsOn, ", "))
	if state.LookupErr != nil {
		msg = fmt.Sprintf("Skipping %s (options unavailable: %v)", field.Name, state.LookupErr)
	}
	r.info(ctx, msg, false)
	return state, true, nil
}

func (r *Renderer) serialize(s schema.FormSchema, values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for _, field := range s.Fields {
			value, ok := values[field.Name]
			if !ok {
				continue
			}
			for _, item := range flattenValue(value) {
				encoded.Add(field.Name, item)
			}
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, field := range s.Fields {
			value, ok := values[field.Name]
			if !ok {
				continue
			}
			label := field.Label
			if label == "" {
				label = schema.Labelize(field.Name)
			}
			fmt.Fprintf(&b, "%s: %s\n", label, strings.Join(flattenValue(value), ", "))
		}
		return []byte(b.String()), nil
	default:
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: serialize values: %w", err)
		}
		return out, nil
	}
}

// flattenValue renders a collected value as display strings. Pending uploads
// show their filename; structured entries collapse to JSON.
func flattenValue(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, flattenValue(item)...)
		}
		return out
	case render.PendingFile:
		return []string{v.Filename}
	case []map[string]any:
		var out []string
		for _, entry := range v {
			encoded, err := json.Marshal(entry)
			if err != nil {
				continue
			}
			out = append(out, string(encoded))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func (r *Renderer) info(ctx context.Context, msg string, isError bool) {
	prefix := r.theme.InfoPrefix
	if isError {
		prefix = r.theme.ErrorPrefix
	}
	_ = r.driver.Info(ctx, prefix+msg)
}
