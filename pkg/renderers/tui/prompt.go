package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/classforge/formkit/pkg/render"
	"github.com/classforge/formkit/pkg/schema"
)

// promptValue asks for one field's value with the prompt matching its kind.
// The second return is false when the field was skipped without an answer.
func (r *Renderer) promptValue(ctx context.Context, field schema.Field, session *render.Session, options []schema.Option) (any, bool, error) {
	existing, _ := session.Value(field.Name)

	switch field.Kind {
	case schema.KindText, schema.KindEmail, schema.KindPhone, schema.KindURL, schema.KindDate:
		value, err := r.driver.Input(ctx, InputConfig{
			Message: promptLabel(field),
			Default: stringOr(existing, ""),
			Help:    helpOrPlaceholder(field),
		})
		return value, err == nil, err
	case schema.KindPassword:
		value, err := r.driver.Password(ctx, InputConfig{
			Message: promptLabel(field),
			Help:    field.HelpText,
		})
		return value, err == nil, err
	case schema.KindTextarea:
		value, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: promptLabel(field),
			Default: stringOr(existing, ""),
			Help:    field.HelpText,
		})
		return value, err == nil, err
	case schema.KindNumber:
		return r.promptNumber(ctx, field)
	case schema.KindCheckbox, schema.KindToggle:
		current, _ := existing.(bool)
		value, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: promptLabel(field),
			Default: current,
			Help:    field.HelpText,
		})
		return value, err == nil, err
	case schema.KindSelect, schema.KindRadio:
		return r.promptSelect(ctx, field, existing, options)
	case schema.KindMultiSelect:
		return r.promptMultiSelect(ctx, field, existing, options)
	case schema.KindFile, schema.KindImage:
		return r.promptFile(ctx, field, existing)
	case schema.KindDynamicConfig:
		return r.promptDynamicConfig(ctx, field)
	default:
		return nil, false, nil
	}
}

func (r *Renderer) promptNumber(ctx context.Context, field schema.Field) (any, bool, error) {
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: promptLabel(field),
			Help:    field.HelpText,
		})
		if err != nil {
			return nil, false, err
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			if field.Required {
				r.info(ctx, fmt.Sprintf("Invalid %s: required", field.Name), true)
				continue
			}
			return nil, false, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			r.info(ctx, fmt.Sprintf("Invalid %s: not a number", field.Name), true)
			continue
		}
		return parsed, true, nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, field schema.Field, existing any, options []schema.Option) (any, bool, error) {
	if len(options) == 0 {
		r.info(ctx, fmt.Sprintf("Skipping %s (no options)", field.Name), false)
		return nil, false, nil
	}
	labels := optionLabels(options)
	defaultIdx := -1
	if current, ok := existing.(string); ok {
		defaultIdx = optionIndex(options, current)
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      promptLabel(field),
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         field.HelpText,
	})
	if err != nil {
		return nil, false, err
	}
	if idx < 0 || idx >= len(options) {
		return nil, false, nil
	}
	return options[idx].Value, true, nil
}

func (r *Renderer) promptMultiSelect(ctx context.Context, field schema.Field, existing any, options []schema.Option) (any, bool, error) {
	if len(options) == 0 {
		r.info(ctx, fmt.Sprintf("Skipping %s (no options)", field.Name), false)
		return nil, false, nil
	}
	labels := optionLabels(options)
	var defaults []int
	if current, ok := existing.([]string); ok {
		for _, value := range current {
			if idx := optionIndex(options, value); idx >= 0 {
				defaults = append(defaults, idx)
			}
		}
	}

	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  promptLabel(field),
		Options:  labels,
		Defaults: defaults,
		Help:     field.HelpText,
	})
	if err != nil {
		return nil, false, err
	}
	selected := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			selected = append(selected, options[idx].Value)
		}
	}
	return selected, true, nil
}

// promptFile accepts either a local path, read into a pending upload, or any
// other string kept verbatim as a stored-object reference.
func (r *Renderer) promptFile(ctx context.Context, field schema.Field, existing any) (any, bool, error) {
	input, err := r.driver.Input(ctx, InputConfig{
		Message: promptLabel(field) + " (path or reference)",
		Default: stringOr(existing, ""),
		Help:    field.HelpText,
	})
	if err != nil {
		return nil, false, err
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, false, nil
	}
	if data, err := r.readFile(trimmed); err == nil {
		return render.PendingFile{Filename: filepath.Base(trimmed), Data: data}, true, nil
	}
	return trimmed, true, nil
}

// promptDynamicConfig collects repeated entries shaped by the field's
// configured sub-fields.
func (r *Renderer) promptDynamicConfig(ctx context.Context, field schema.Field) (any, bool, error) {
	if field.Config == nil || len(field.Config.Entries) == 0 {
		r.info(ctx, fmt.Sprintf("Skipping %s (no entry shape configured)", field.Name), false)
		return nil, false, nil
	}

	var entries []map[string]any
	for {
		entry := make(map[string]any, len(field.Config.Entries))
		for _, sub := range field.Config.Entries {
			value, err := r.promptSubField(ctx, field, sub)
			if err != nil {
				return nil, false, err
			}
			entry[sub.Name] = value
		}
		entries = append(entries, entry)

		again, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add another %s entry?", promptLabel(field)),
		})
		if err != nil {
			return nil, false, err
		}
		if !again {
			break
		}
	}
	return entries, true, nil
}

func (r *Renderer) promptSubField(ctx context.Context, field schema.Field, sub schema.SubField) (any, error) {
	message := fmt.Sprintf("%s: %s", promptLabel(field), subLabel(sub))
	if len(sub.Options) > 0 {
		labels := optionLabels(sub.Options)
		idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(sub.Options) {
			return "", nil
		}
		return sub.Options[idx].Value, nil
	}
	return r.driver.Input(ctx, InputConfig{Message: message})
}

func promptLabel(field schema.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return schema.Labelize(field.Name)
}

func subLabel(sub schema.SubField) string {
	if sub.Label != "" {
		return sub.Label
	}
	return schema.Labelize(sub.Name)
}

func optionLabels(options []schema.Option) []string {
	labels := make([]string, len(options))
	for i, opt := range options {
		labels[i] = opt.Label
		if labels[i] == "" {
			labels[i] = opt.Value
		}
	}
	return labels
}

func optionIndex(options []schema.Option, value string) int {
	for i, opt := range options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

func helpOrPlaceholder(field schema.Field) string {
	if field.HelpText != "" {
		return field.HelpText
	}
	return field.Placeholder
}

func stringOr(value any, fallback string) string {
	if s, ok := value.(string); ok && s != "" {
		return s
	}
	return fallback
}
