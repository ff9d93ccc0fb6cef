// Package formkit re-exports the engine's core types and offers high-level
// helpers that wire the schema store, resolver, and renderers together. Most
// programs only need this package plus a renderer.
package formkit

import (
	"context"
	"fmt"

	"github.com/classforge/formkit/pkg/builder"
	"github.com/classforge/formkit/pkg/render"
	"github.com/classforge/formkit/pkg/schema"
	"github.com/classforge/formkit/pkg/store"
)

// FormSchema is the serialisable form definition.
type FormSchema = schema.FormSchema

// Field is one input inside a form schema.
type Field = schema.Field

// Option is a selectable choice on option-backed fields.
type Option = schema.Option

// RenderOptions carries per-request values and server-side errors into a
// renderer.
type RenderOptions = render.Options

// Renderer converts a schema plus options into output bytes.
type Renderer = render.Renderer

// Gateway is the persistence contract for schemas.
type Gateway = store.Gateway

// NewBuilder starts an editing session, optionally seeded with an existing
// schema via builder.WithSchema.
func NewBuilder(options ...builder.Option) *builder.Builder {
	return builder.New(options...)
}

// NewRegistry constructs an empty renderer registry.
func NewRegistry() *render.Registry {
	return render.NewRegistry()
}

// RenderStored loads the schema for a key (falling back to the gateway's
// default) and renders it with the named renderer from the registry. It is the
// simplest entry point for callers that just want output for an entity form.
func RenderStored(ctx context.Context, gw store.Gateway, registry *render.Registry, key, rendererName string, opts render.Options) ([]byte, error) {
	doc, err := store.LoadOrDefault(ctx, gw, key)
	if err != nil {
		return nil, fmt.Errorf("formkit: load schema %q: %w", key, err)
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, fmt.Errorf("formkit: renderer %q: %w", rendererName, err)
	}
	return renderer.Render(ctx, doc, opts)
}
