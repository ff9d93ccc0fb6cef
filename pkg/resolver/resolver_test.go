package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/classforge/formkit/pkg/resolver"
	"github.com/classforge/formkit/pkg/schema"
)

func cascadeSchema() schema.FormSchema {
	return schema.FormSchema{
		Key:        "assignment_form",
		EntityType: schema.EntityAssignment,
		Fields: []schema.Field{
			{
				ID:   "f1",
				Name: "teacher",
				Kind: schema.KindSelect,
				Options: []schema.Option{
					{ID: "o1", Label: "Teacher One", Value: "T1"},
					{ID: "o2", Label: "Teacher Two", Value: "T2"},
				},
			},
			{
				ID:        "f2",
				Name:      "class",
				Kind:      schema.KindSelect,
				DependsOn: []string{"teacher"},
			},
			{
				ID:        "f3",
				Name:      "subject",
				Kind:      schema.KindSelect,
				DependsOn: []string{"teacher", "class"},
			},
		},
	}
}

// classesByTeacher mimics the external lookup boundary with canned data.
func classesByTeacher() resolver.OptionLookupFunc {
	classes := map[string][]string{
		"T1": {"5A"},
		"T2": {"5B", "5C"},
	}
	subjects := map[string][]string{
		"5A": {"Math"},
		"5B": {"English", "History"},
		"5C": {"Science"},
	}
	return func(_ context.Context, field schema.Field, upstream map[string]string) ([]schema.Option, error) {
		var names []string
		switch field.Name {
		case "class":
			names = classes[upstream["teacher"]]
		case "subject":
			names = subjects[upstream["class"]]
		}
		out := make([]schema.Option, len(names))
		for i, name := range names {
			out[i] = schema.Option{Value: name}
		}
		return out, nil
	}
}

func TestResolveIndependentField(t *testing.T) {
	r := resolver.New(classesByTeacher())
	s := cascadeSchema()

	state, err := r.ResolveField(context.Background(), s, s.Fields[0], nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !state.Enabled {
		t.Fatalf("independent field must always be enabled")
	}
	if diff := cmp.Diff(s.Fields[0].Options, state.Options); diff != "" {
		t.Fatalf("static options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDisabledUntilUpstreamFilled(t *testing.T) {
	r := resolver.New(classesByTeacher())
	s := cascadeSchema()

	states := r.Resolve(context.Background(), s, map[string]any{})
	if states["class"].Enabled {
		t.Fatalf("class must stay disabled without a teacher value")
	}
	if diff := cmp.Diff([]string{"teacher"}, states["class"].Missing); diff != "" {
		t.Fatalf("missing upstream mismatch (-want +got):\n%s", diff)
	}
	if states["subject"].Enabled {
		t.Fatalf("subject must stay disabled without teacher and class")
	}
}

func TestResolveEnabledWithOptions(t *testing.T) {
	r := resolver.New(classesByTeacher())
	s := cascadeSchema()

	values := map[string]any{"teacher": "T2"}
	states := r.Resolve(context.Background(), s, values)

	state := states["class"]
	if !state.Enabled {
		t.Fatalf("class should be enabled once teacher is chosen")
	}
	want := []schema.Option{
		{ID: "0", Label: "5B", Value: "5B"},
		{ID: "1", Label: "5C", Value: "5C"},
	}
	if diff := cmp.Diff(want, state.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyClearsStaleDownstreamValue(t *testing.T) {
	r := resolver.New(classesByTeacher())
	s := cascadeSchema()

	// Class 5A was chosen while teacher T1 was active; the operator then
	// switches to T2, whose classes are 5B/5C.
	values := map[string]any{"teacher": "T2", "class": "5A"}
	states, cleared := r.Apply(context.Background(), s, values)

	if _, present := values["class"]; present {
		t.Fatalf("stale class value must be cleared, still have %v", values["class"])
	}
	if diff := cmp.Diff([]string{"class"}, cleared); diff != "" {
		t.Fatalf("cleared fields mismatch (-want +got):\n%s", diff)
	}
	if !states["class"].Enabled {
		t.Fatalf("class remains enabled for a new selection")
	}
}

func TestApplyKeepsStillValidValue(t *testing.T) {
	r := resolver.New(classesByTeacher())
	s := cascadeSchema()

	values := map[string]any{"teacher": "T2", "class": "5B"}
	_, cleared := r.Apply(context.Background(), s, values)

	if len(cleared) != 0 {
		t.Fatalf("nothing should clear, got %v", cleared)
	}
	if values["class"] != "5B" {
		t.Fatalf("valid selection must be retained")
	}
}

func TestApplyCascadesTransitively(t *testing.T) {
	r := resolver.New(classesByTeacher())
	s := cascadeSchema()

	// Teacher changed to T1; class 5B and subject English both become stale.
	values := map[string]any{"teacher": "T1", "class": "5B", "subject": "English"}
	_, cleared := r.Apply(context.Background(), s, values)

	if diff := cmp.Diff([]string{"class", "subject"}, cleared); diff != "" {
		t.Fatalf("transitive clearing mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupFailureDegradesField(t *testing.T) {
	boom := errors.New("upstream unreachable")
	r := resolver.New(resolver.OptionLookupFunc(func(context.Context, schema.Field, map[string]string) ([]schema.Option, error) {
		return nil, boom
	}))
	s := cascadeSchema()

	states := r.Resolve(context.Background(), s, map[string]any{"teacher": "T1"})
	state := states["class"]
	if state.Enabled {
		t.Fatalf("failed lookup must leave the field disabled")
	}
	if len(state.Options) != 0 {
		t.Fatalf("failed lookup must yield empty options")
	}
	if !errors.Is(state.LookupErr, boom) {
		t.Fatalf("lookup error not surfaced: %v", state.LookupErr)
	}
}

func TestDanglingUpstreamDisablesForever(t *testing.T) {
	r := resolver.New(classesByTeacher())
	s := cascadeSchema()
	// Simulate the builder removing the teacher field without cascading.
	s.Fields = s.Fields[1:]

	states := r.Resolve(context.Background(), s, map[string]any{"teacher": "T1"})
	if states["class"].Enabled {
		t.Fatalf("dangling upstream reference must resolve as disabled")
	}
}

func TestStaleResponseSuppression(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 2)

	lookup := resolver.OptionLookupFunc(func(_ context.Context, _ schema.Field, upstream map[string]string) ([]schema.Option, error) {
		teacher := upstream["teacher"]
		started <- teacher
		if teacher == "T1" {
			// T1's response arrives only after T2's has been applied.
			<-release
			return []schema.Option{{Value: "5A"}}, nil
		}
		return []schema.Option{{Value: "5B"}, {Value: "5C"}}, nil
	})

	r := resolver.New(lookup)
	s := cascadeSchema()
	classField := s.Fields[1]

	slowDone := make(chan struct{})
	var slowState resolver.FieldState
	var slowErr error
	go func() {
		defer close(slowDone)
		slowState, slowErr = r.ResolveField(context.Background(), s, classField, map[string]any{"teacher": "T1"})
	}()
	<-started

	fastState, fastErr := r.ResolveField(context.Background(), s, classField, map[string]any{"teacher": "T2"})
	if fastErr != nil {
		t.Fatalf("fast lookup: %v", fastErr)
	}

	close(release)
	<-slowDone

	if !errors.Is(slowErr, resolver.ErrStale) {
		t.Fatalf("superseded lookup must report ErrStale, got state=%+v err=%v", slowState, slowErr)
	}

	want := []schema.Option{
		{ID: "0", Label: "5B", Value: "5B"},
		{ID: "1", Label: "5C", Value: "5C"},
	}
	if diff := cmp.Diff(want, fastState.Options); diff != "" {
		t.Fatalf("final options must reflect T2 (-want +got):\n%s", diff)
	}
}
