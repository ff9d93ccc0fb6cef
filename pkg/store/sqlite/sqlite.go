// Package sqlite persists form schemas in a single SQLite table, one row per
// schema key holding the canonical JSON document. It is the durable gateway
// for single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

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

// Store implements the schema gateway over a SQL connection.
type Store struct {
	db         *sql.DB
	synthesize store.Synthesizer
}

// Open opens (creating if needed) a SQLite database at path. Use ":memory:"
// for an ephemeral database in tests.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	return db, nil
}

// New wraps an open database connection. Call Init before first use.
func New(db *sql.DB, options ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Init creates the schema table when it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS form_schemas (
			key         TEXT PRIMARY KEY,
			entity_type TEXT NOT NULL DEFAULT '',
			document    TEXT NOT NULL,
			updated_at  TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("sqlite: create form_schemas: %w", err)
	}
	return nil
}

// Load fetches the stored schema for a key.
func (s *Store) Load(ctx context.Context, key string) (schema.FormSchema, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM form_schemas WHERE key = ?`, key,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.FormSchema{}, fmt.Errorf("%w: %q", store.ErrSchemaNotFound, key)
	}
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("sqlite: load %q: %w", key, err)
	}
	doc, err := schema.Unmarshal([]byte(document))
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("sqlite: decode %q: %w", key, err)
	}
	return doc, nil
}

// Save validates and upserts the schema document under its key.
func (s *Store) Save(ctx context.Context, doc schema.FormSchema) error {
	if err := store.ValidateForSave(doc); err != nil {
		return err
	}
	payload, err := schema.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sqlite: encode %q: %w", doc.Key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form_schemas (key, entity_type, document, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			entity_type = excluded.entity_type,
			document    = excluded.document,
			updated_at  = excluded.updated_at
	`, doc.Key, string(doc.EntityType), string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite: save %q: %w", doc.Key, err)
	}
	return nil
}

// GetOrCreateDefault loads the stored schema, synthesizing and persisting the
// default when none exists.
func (s *Store) GetOrCreateDefault(ctx context.Context, key string) (schema.FormSchema, error) {
	if stored, err := s.Load(ctx, key); err == nil {
		return stored, nil
	} else if !errors.Is(err, store.ErrSchemaNotFound) {
		return schema.FormSchema{}, err
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
	return def, nil
}

// Keys lists the stored schema keys in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM form_schemas ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("sqlite: scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list keys: %w", err)
	}
	return keys, nil
}
