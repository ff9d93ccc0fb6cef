// Package memory provides an in-process schema gateway, used by tests and by
// callers that do not need durability.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/classforge/formkit/pkg/schema"
	"github.com/classforge/formkit/pkg/store"
)

// Option configures a Store.
type Option func(*Store)

// WithSynthesizer wires the default-schema source used by GetOrCreateDefault.
func WithSynthesizer(fn store.Synthesizer) Option {
	return func(s *Store) {
		s.synthesize = fn
	}
}

// Store keeps schemas in a map guarded by a RWMutex. Documents are deep-copied
// on the way in and out, so callers can never mutate stored state through a
// returned schema.
type Store struct {
	mu         sync.RWMutex
	schemas    map[string]schema.FormSchema
	synthesize store.Synthesizer
}

// New constructs an empty in-memory gateway.
func New(options ...Option) *Store {
	s := &Store{schemas: make(map[string]schema.FormSchema)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Load fetches the stored schema for a key.
func (s *Store) Load(_ context.Context, key string) (schema.FormSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.schemas[key]
	if !ok {
		return schema.FormSchema{}, fmt.Errorf("%w: %q", store.ErrSchemaNotFound, key)
	}
	return stored.Clone(), nil
}

// Save validates and stores a schema under its key.
func (s *Store) Save(_ context.Context, doc schema.FormSchema) error {
	if err := store.ValidateForSave(doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[doc.Key] = doc.Clone()
	return nil
}

// GetOrCreateDefault loads the stored schema, synthesizing and persisting the
// default when none exists.
func (s *Store) GetOrCreateDefault(ctx context.Context, key string) (schema.FormSchema, error) {
	if stored, err := s.Load(ctx, key); err == nil {
		return stored, nil
	}
	if s.synthesize == nil {
		return schema.FormSchema{}, fmt.Errorf("%w: %q (no default available)", store.ErrSchemaNotFound, key)
	}
	def, ok := s.synthesize(key)
	if !ok {
		return schema.FormSchema{}, fmt.Errorf("%w: %q (no default available)", store.ErrSchemaNotFound, key)
	}
	if err := s.Save(ctx, def); err != nil {
		return schema.FormSchema{}, err
	}
	return def.Clone(), nil
}

// Keys lists the stored schema keys in sorted order.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.schemas))
	for key := range s.schemas {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
