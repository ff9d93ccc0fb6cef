package schema

import (
	"encoding/json"
	"fmt"
)

// Marshal serialises the schema into its persisted record form.
func Marshal(s FormSchema) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schema: marshal %q: %w", s.Key, err)
	}
	return data, nil
}

// Unmarshal decodes a persisted record and verifies its structural invariants
// so malformed documents are rejected at the boundary rather than at render
// time.
func Unmarshal(data []byte) (FormSchema, error) {
	var s FormSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return FormSchema{}, fmt.Errorf("schema: unmarshal: %w", err)
	}
	if err := s.Validate(); err != nil {
		return FormSchema{}, err
	}
	return s, nil
}
