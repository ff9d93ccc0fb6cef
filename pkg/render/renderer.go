// Package render holds the runtime half of the engine: the Session state
// machine that interprets a schema against a value map, submit-time
// validation, and the Renderer seam output renderers register against.
package render

import (
	"context"

	"github.com/classforge/formkit/pkg/schema"
)

// Renderer converts a form schema plus per-request options into a byte
// representation (HTML markup, collected JSON values, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, s schema.FormSchema, options Options) ([]byte, error)
}
