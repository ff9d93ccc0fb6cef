// Package schemafs persists form schemas as JSON or YAML documents in a
// directory, one file per schema key. It is the gateway used when schemas are
// checked into a repository next to the application that serves them.
package schemafs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/classforge/formkit/pkg/schema"
	"github.com/classforge/formkit/pkg/store"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Option configures a Store.
type Option func(*Store)

// WithSynthesizer wires the default-schema source used by GetOrCreateDefault.
func WithSynthesizer(fn store.Synthesizer) Option {
	return func(s *Store) {
		s.synthesize = fn
	}
}

// Store reads and writes schema documents under a base directory. Loads accept
// JSON and YAML; saves always write canonical JSON.
type Store struct {
	dir        string
	synthesize store.Synthesizer
}

// New constructs a directory-backed gateway rooted at dir.
func New(dir string, options ...Option) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("schemafs: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("schemafs: create %s: %w", dir, err)
	}
	s := &Store{dir: dir}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Load fetches the schema stored under key, trying each supported extension.
func (s *Store) Load(_ context.Context, key string) (schema.FormSchema, error) {
	for _, ext := range extensions {
		path := filepath.Join(s.dir, key+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return schema.FormSchema{}, fmt.Errorf("schemafs: read %s: %w", path, err)
		}
		return parseDocument(data, path)
	}
	return schema.FormSchema{}, fmt.Errorf("%w: %q", store.ErrSchemaNotFound, key)
}

// Save validates the schema and writes it as <key>.json. The write goes
// through a temp file and rename so readers never observe a partial document.
func (s *Store) Save(_ context.Context, doc schema.FormSchema) error {
	if err := store.ValidateForSave(doc); err != nil {
		return err
	}
	payload, err := schema.Marshal(doc)
	if err != nil {
		return fmt.Errorf("schemafs: encode %q: %w", doc.Key, err)
	}

	tmp, err := os.CreateTemp(s.dir, doc.Key+".*.tmp")
	if err != nil {
		return fmt.Errorf("schemafs: stage %q: %w", doc.Key, err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("schemafs: stage %q: %w", doc.Key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("schemafs: stage %q: %w", doc.Key, err)
	}
	target := filepath.Join(s.dir, doc.Key+".json")
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("schemafs: write %s: %w", target, err)
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

// Keys lists every schema key present in the directory, sorted.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("schemafs: list %s: %w", s.dir, err)
	}
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if !supportedExtension(ext) {
			continue
		}
		seen[strings.TrimSuffix(name, ext)] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// parseDocument decodes JSON directly; YAML documents are normalised through
// an intermediate map so the schema's JSON field names stay authoritative.
func parseDocument(data []byte, source string) (schema.FormSchema, error) {
	if doc, err := schema.Unmarshal(data); err == nil {
		return doc, nil
	}

	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return schema.FormSchema{}, fmt.Errorf("schemafs: parse %s: invalid JSON or YAML", source)
	}
	normalized, err := json.Marshal(tree)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("schemafs: parse %s: %w", source, err)
	}
	doc, err := schema.Unmarshal(normalized)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("schemafs: parse %s: %w", source, err)
	}
	return doc, nil
}

func supportedExtension(ext string) bool {
	for _, candidate := range extensions {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}
