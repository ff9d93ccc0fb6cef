package html_test

import (
	"context"
	"strings"
	"testing"

	"github.com/classforge/formkit/pkg/render"
	"github.com/classforge/formkit/pkg/renderers/html"
	"github.com/classforge/formkit/pkg/resolver"
	"github.com/classforge/formkit/pkg/schema"
)

func renderSchema(t *testing.T, s schema.FormSchema, opts render.Options, options ...html.Option) string {
	t.Helper()
	renderer, err := html.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), s, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderControlsPerKind(t *testing.T) {
	s := schema.FormSchema{
		Key:  "student_form",
		Name: "Student",
		Fields: []schema.Field{
			{ID: "f1", Name: "first_name", Label: "First Name", Kind: schema.KindText, Required: true, Placeholder: "Jane"},
			{ID: "f2", Name: "email", Kind: schema.KindEmail},
			{ID: "f3", Name: "bio", Kind: schema.KindTextarea},
			{ID: "f4", Name: "active", Kind: schema.KindToggle},
			{ID: "f5", Name: "grade", Kind: schema.KindSelect, Options: []schema.Option{
				{ID: "o1", Label: "Grade 5", Value: "5"},
			}},
			{ID: "f6", Name: "subjects", Kind: schema.KindMultiSelect, Options: []schema.Option{
				{ID: "o1", Label: "Math", Value: "math"},
				{ID: "o2", Label: "Art", Value: "art"},
			}},
			{ID: "f7", Name: "photo", Kind: schema.KindImage},
			{ID: "f8", Name: "legacy", Kind: "hologram"},
		},
	}

	out := renderSchema(t, s, render.Options{
		Values: map[string]any{
			"first_name": "Ada",
			"active":     true,
			"subjects":   []string{"art"},
			"photo":      "uploads/ada.png",
		},
		Errors: map[string][]string{"email": {"required"}},
	})

	for _, want := range []string{
		`data-schema-key="student_form"`,
		`<h1 class="formkit-title">Student</h1>`,
		`<input type="text" id="first_name" name="first_name" value="Ada" placeholder="Jane" required>`,
		`<input type="email" id="email" name="email">`,
		`<textarea id="bio" name="bio">`,
		`role="switch"`,
		` checked`,
		`<option value="5">Grade 5</option>`,
		`<select id="subjects" name="subjects" multiple>`,
		`<option value="art" selected>`,
		`accept="image/*"`,
		`data-current="uploads/ada.png"`,
		`<p class="formkit-error">required</p>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	if strings.Contains(out, "legacy") {
		t.Errorf("unknown kind must render nothing")
	}
}

func TestRenderDependentSelect(t *testing.T) {
	s := schema.FormSchema{
		Key: "assignment_form",
		Fields: []schema.Field{
			{ID: "f1", Name: "teacher", Kind: schema.KindSelect, Options: []schema.Option{
				{ID: "o1", Label: "T1", Value: "T1"},
			}},
			{ID: "f2", Name: "class", Kind: schema.KindSelect, DependsOn: []string{"teacher"}},
		},
	}

	lookup := resolver.OptionLookupFunc(func(context.Context, schema.Field, map[string]string) ([]schema.Option, error) {
		return []schema.Option{{Value: "5A"}}, nil
	})

	// Without an upstream value the dependent select is disabled and empty.
	out := renderSchema(t, s, render.Options{}, html.WithResolver(resolver.New(lookup)))
	if !strings.Contains(out, `<select id="class" name="class" disabled>`) {
		t.Errorf("dependent select should be disabled:\n%s", out)
	}
	if !strings.Contains(out, `data-depends-on="teacher"`) {
		t.Errorf("dependency metadata missing:\n%s", out)
	}

	// With the teacher chosen the lookup's options appear.
	out = renderSchema(t, s, render.Options{Values: map[string]any{"teacher": "T1"}},
		html.WithResolver(resolver.New(lookup)))
	if !strings.Contains(out, `<option value="5A">5A</option>`) {
		t.Errorf("live options missing:\n%s", out)
	}

	// Without a resolver the dependent field stays disabled rather than
	// guessing at options.
	out = renderSchema(t, s, render.Options{Values: map[string]any{"teacher": "T1"}})
	if !strings.Contains(out, `<select id="class" name="class" disabled>`) {
		t.Errorf("resolver-less render should disable dependents:\n%s", out)
	}
}

func TestHelpTextIsSanitized(t *testing.T) {
	s := schema.FormSchema{
		Key: "student_form",
		Fields: []schema.Field{
			{
				ID: "f1", Name: "first_name", Kind: schema.KindText,
				HelpText: `Use the <b>legal</b> name<script>alert(1)</script>`,
			},
		},
	}

	out := renderSchema(t, s, render.Options{})
	if strings.Contains(out, "<script>") {
		t.Fatalf("script tag survived sanitisation:\n%s", out)
	}
	if !strings.Contains(out, "<b>legal</b>") {
		t.Fatalf("inline markup should survive:\n%s", out)
	}
}

func TestPasswordValueNeverEchoed(t *testing.T) {
	s := schema.FormSchema{
		Key: "account_form",
		Fields: []schema.Field{
			{ID: "f1", Name: "secret", Kind: schema.KindPassword},
		},
	}
	out := renderSchema(t, s, render.Options{Values: map[string]any{"secret": "hunter2"}})
	if strings.Contains(out, "hunter2") {
		t.Fatalf("password value must not appear in markup")
	}
}
