package builder

import "github.com/classforge/formkit/pkg/schema"

// FieldPatch is a shallow-merge update for a single field. Nil members leave
// the current value in place; non-nil members replace it wholesale. The field
// id is deliberately absent: ids are immutable after creation.
//
// Kind is patchable to match observed operator behaviour, but changing it does
// not reconcile Options or Validations; that remains the caller's
// responsibility.
type FieldPatch struct {
	Name             *string
	Label            *string
	Placeholder      *string
	HelpText         *string
	Kind             *schema.FieldKind
	Required         *bool
	Filterable       *bool
	VisibleInListing *bool
	Options          *[]schema.Option
	Validations      *schema.Validations
	DependsOn        *[]string
	Config           *schema.Config
}

// apply merges everything except Name, which UpdateField handles up front so
// uniqueness can be rejected before any mutation lands.
func (p FieldPatch) apply(field *schema.Field) {
	if p.Label != nil {
		field.Label = *p.Label
	}
	if p.Placeholder != nil {
		field.Placeholder = *p.Placeholder
	}
	if p.HelpText != nil {
		field.HelpText = *p.HelpText
	}
	if p.Kind != nil && p.Kind.Valid() {
		field.Kind = *p.Kind
	}
	if p.Required != nil {
		field.Required = *p.Required
	}
	if p.Filterable != nil {
		field.Filterable = *p.Filterable
	}
	if p.VisibleInListing != nil {
		field.VisibleInListing = *p.VisibleInListing
	}
	if p.Options != nil {
		field.Options = append([]schema.Option(nil), (*p.Options)...)
	}
	if p.Validations != nil {
		v := *p.Validations
		field.Validations = &v
	}
	if p.DependsOn != nil {
		field.DependsOn = append([]string(nil), (*p.DependsOn)...)
	}
	if p.Config != nil {
		cfg := *p.Config
		field.Config = &cfg
	}
}
