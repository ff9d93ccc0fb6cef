package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/classforge/formkit/pkg/schema"
)

func intPtr(n int) *int { return &n }

func sampleSchema() schema.FormSchema {
	return schema.FormSchema{
		Key:        "student_form",
		Name:       "Student",
		EntityType: schema.EntityStudent,
		Fields: []schema.Field{
			{
				ID:       "f1",
				Name:     "first_name",
				Label:    "First Name",
				Kind:     schema.KindText,
				Required: true,
				Validations: &schema.Validations{
					MinLength: intPtr(2),
				},
			},
			{
				ID:   "f2",
				Name: "grade",
				Kind: schema.KindSelect,
				Options: []schema.Option{
					{ID: "o1", Label: "Grade 5", Value: "5"},
					{ID: "o2", Label: "Grade 6", Value: "6"},
				},
			},
			{
				ID:        "f3",
				Name:      "class",
				Kind:      schema.KindSelect,
				DependsOn: []string{"grade"},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	original := sampleSchema()

	data, err := schema.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := schema.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*schema.FormSchema)
	}{
		{
			name: "duplicate id",
			mutate: func(s *schema.FormSchema) {
				s.Fields[1].ID = s.Fields[0].ID
			},
		},
		{
			name: "duplicate name",
			mutate: func(s *schema.FormSchema) {
				s.Fields[1].Name = s.Fields[0].Name
			},
		},
		{
			name: "duplicate option value",
			mutate: func(s *schema.FormSchema) {
				s.Fields[1].Options[1].Value = s.Fields[1].Options[0].Value
			},
		},
		{
			name: "unknown kind",
			mutate: func(s *schema.FormSchema) {
				s.Fields[0].Kind = "carousel"
			},
		},
		{
			name: "empty key",
			mutate: func(s *schema.FormSchema) {
				s.Key = " "
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := sampleSchema()
			tc.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := sampleSchema()
	clone := original.Clone()

	clone.Fields[0].Label = "changed"
	clone.Fields[1].Options[0].Value = "99"
	*clone.Fields[0].Validations.MinLength = 42
	clone.Fields[2].DependsOn[0] = "other"

	if original.Fields[0].Label != "First Name" {
		t.Fatalf("label aliased into original")
	}
	if original.Fields[1].Options[0].Value != "5" {
		t.Fatalf("options aliased into original")
	}
	if *original.Fields[0].Validations.MinLength != 2 {
		t.Fatalf("validations aliased into original")
	}
	if original.Fields[2].DependsOn[0] != "grade" {
		t.Fatalf("dependsOn aliased into original")
	}
}

func TestLabelize(t *testing.T) {
	cases := map[string]string{
		"first_name":  "First Name",
		"guardianTel": "Guardian Tel",
		"class-room":  "Class Room",
		"":            "",
	}
	for input, want := range cases {
		if got := schema.Labelize(input); got != want {
			t.Errorf("Labelize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestKindHelpers(t *testing.T) {
	if !schema.KindSelect.HasOptions() || schema.KindText.HasOptions() {
		t.Fatalf("HasOptions dispatch wrong")
	}
	for _, kind := range schema.Kinds() {
		if !kind.Valid() {
			t.Fatalf("kind %q should be valid", kind)
		}
	}
	if schema.FieldKind("carousel").Valid() {
		t.Fatalf("unknown kind reported valid")
	}
}
