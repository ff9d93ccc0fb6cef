// Package html renders a form schema into static markup: one control per
// field in schema order, prefilled values, inline server errors, and
// data-attributes carrying the dependency metadata the front-end runtime
// needs to re-trigger cascades.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/classforge/formkit/pkg/render"
	rendertemplate "github.com/classforge/formkit/pkg/render/template"
	"github.com/classforge/formkit/pkg/render/template/gotemplate"
	"github.com/classforge/formkit/pkg/resolver"
	"github.com/classforge/formkit/pkg/schema"
)

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	resolver         *resolver.Resolver
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithResolver wires the dependent-field resolver so cascading selects render
// with their live option lists and disabled state.
func WithResolver(r *resolver.Resolver) Option {
	return func(cfg *config) {
		cfg.resolver = r
	}
}

// Renderer emits a complete <form> document fragment for a schema.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	resolver  *resolver.Resolver
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, resolver: cfg.resolver}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the media type of Render's output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render walks the schema in field order and emits one control per supported
// kind. Unknown kinds render nothing. Dependent fields are disabled until
// their upstream values are present in options.Values.
func (r *Renderer) Render(ctx context.Context, s schema.FormSchema, options render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, fmt.Errorf("html renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	states := r.fieldStates(ctx, s, options.Values)

	var controls strings.Builder
	for _, field := range s.Fields {
		markup := renderField(field, states[field.Name], options)
		if markup == "" {
			continue
		}
		controls.WriteString(markup)
		controls.WriteByte('\n')
	}

	out, err := r.templates.RenderTemplate("form", map[string]any{
		"key":         s.Key,
		"entity":      string(s.EntityType),
		"title":       s.Name,
		"description": s.Description,
		"fields":      controls.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form template: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) fieldStates(ctx context.Context, s schema.FormSchema, values map[string]any) map[string]resolver.FieldState {
	if r.resolver == nil {
		states := make(map[string]resolver.FieldState)
		for _, field := range s.Fields {
			if len(field.DependsOn) > 0 {
				states[field.Name] = resolver.FieldState{Missing: field.DependsOn}
			}
		}
		return states
	}
	return r.resolver.Resolve(ctx, s, values)
}
