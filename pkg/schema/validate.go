package schema

import (
	"fmt"
	"strings"
)

// Validate checks the structural invariants every stored schema must satisfy:
// non-empty key, pairwise distinct field ids and names, known kinds, and
// option values unique within each field.
func (s FormSchema) Validate() error {
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("schema: key is required")
	}

	ids := make(map[string]struct{}, len(s.Fields))
	names := make(map[string]struct{}, len(s.Fields))

	for i, field := range s.Fields {
		if strings.TrimSpace(field.ID) == "" {
			return fmt.Errorf("schema: field %d has empty id", i)
		}
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("schema: field %q has empty name", field.ID)
		}
		if !field.Kind.Valid() {
			return fmt.Errorf("schema: field %q has unknown kind %q", field.Name, field.Kind)
		}
		if _, exists := ids[field.ID]; exists {
			return fmt.Errorf("schema: duplicate field id %q", field.ID)
		}
		if _, exists := names[field.Name]; exists {
			return fmt.Errorf("schema: duplicate field name %q", field.Name)
		}
		ids[field.ID] = struct{}{}
		names[field.Name] = struct{}{}

		if err := validateOptions(field); err != nil {
			return err
		}
	}
	return nil
}

func validateOptions(field Field) error {
	if len(field.Options) == 0 {
		return nil
	}
	values := make(map[string]struct{}, len(field.Options))
	for _, opt := range field.Options {
		if _, exists := values[opt.Value]; exists {
			return fmt.Errorf("schema: field %q has duplicate option value %q", field.Name, opt.Value)
		}
		values[opt.Value] = struct{}{}
	}
	return nil
}
