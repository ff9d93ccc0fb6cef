// Package store defines the persistence gateway for form schemas. A gateway
// hides where documents live (memory, files, a database) behind load and save
// operations keyed by schema key, and can fall back to a synthesized default
// when an entity has never been customised.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/classforge/formkit/pkg/schema"
)

// ErrSchemaNotFound signals no stored document exists under the requested key.
var ErrSchemaNotFound = errors.New("store: schema not found")

// Synthesizer produces the default schema for a key that has no stored
// document. The second return is false when the key has no known default.
type Synthesizer func(key string) (schema.FormSchema, bool)

// Gateway is the persistence contract for form schemas.
type Gateway interface {
	// Load fetches the stored schema for a key, or ErrSchemaNotFound.
	Load(ctx context.Context, key string) (schema.FormSchema, error)
	// Save validates and persists a schema under its key, replacing any
	// previous document.
	Save(ctx context.Context, s schema.FormSchema) error
	// GetOrCreateDefault loads the stored schema, or synthesizes, persists,
	// and returns the default when none exists.
	GetOrCreateDefault(ctx context.Context, key string) (schema.FormSchema, error)
}

// LoadOrDefault reads the schema for a key, falling back to the gateway's
// default when nothing is stored yet. Errors other than a missing document
// pass through unchanged.
func LoadOrDefault(ctx context.Context, gw Gateway, key string) (schema.FormSchema, error) {
	s, err := gw.Load(ctx, key)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrSchemaNotFound) {
		return schema.FormSchema{}, err
	}
	return gw.GetOrCreateDefault(ctx, key)
}

// ValidateForSave runs the invariant checks shared by every gateway before a
// document is written.
func ValidateForSave(s schema.FormSchema) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("store: refusing to save: %w", err)
	}
	return nil
}
