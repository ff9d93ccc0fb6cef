package tui

import (
	"github.com/classforge/formkit/pkg/render"
	"github.com/classforge/formkit/pkg/resolver"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional formatting hints applied when printing messages.
// Keep minimal to avoid coupling collection logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithResolver wires the dependent-field resolver. Without one, fields that
// declare dependencies are skipped as unavailable.
func WithResolver(res *resolver.Resolver) Option {
	return func(r *Renderer) {
		r.resolver = res
	}
}

// WithSubmitHandler registers the callback invoked with the final value map
// once per completed session.
func WithSubmitHandler(handler render.SubmitHandler) Option {
	return func(r *Renderer) {
		r.onSubmit = handler
	}
}

// WithFileLoader overrides how file and image answers are read from disk.
// The default uses os.ReadFile; answers that fail to load are kept as
// reference strings.
func WithFileLoader(loader func(path string) ([]byte, error)) Option {
	return func(r *Renderer) {
		if loader != nil {
			r.readFile = loader
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
