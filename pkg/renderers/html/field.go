package html

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/classforge/formkit/pkg/render"
	"github.com/classforge/formkit/pkg/resolver"
	"github.com/classforge/formkit/pkg/schema"
)

var inputTypes = map[schema.FieldKind]string{
	schema.KindText:     "text",
	schema.KindEmail:    "email",
	schema.KindNumber:   "number",
	schema.KindPhone:    "tel",
	schema.KindURL:      "url",
	schema.KindPassword: "password",
	schema.KindDate:     "date",
}

// renderField produces the wrapper plus control markup for one field, or ""
// for kinds outside the closed enumeration.
func renderField(field schema.Field, state resolver.FieldState, options render.Options) string {
	control := renderControl(field, state, options)
	if control == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(control) + 256)

	b.WriteString(`<div class="formkit-field" data-field-id="`)
	b.WriteString(html.EscapeString(field.ID))
	b.WriteString(`" data-kind="`)
	b.WriteString(html.EscapeString(string(field.Kind)))
	b.WriteString(`"`)
	if len(field.DependsOn) > 0 {
		b.WriteString(` data-depends-on="`)
		b.WriteString(html.EscapeString(strings.Join(field.DependsOn, " ")))
		b.WriteString(`"`)
	}
	b.WriteString(">\n")

	if field.Kind != schema.KindCheckbox && field.Kind != schema.KindToggle {
		writeLabel(&b, field)
	}
	b.WriteString("  ")
	b.WriteString(control)
	b.WriteByte('\n')

	if field.HelpText != "" {
		b.WriteString(`  <p class="formkit-help">`)
		b.WriteString(sanitizeHelpText(field.HelpText))
		b.WriteString("</p>\n")
	}
	for _, message := range options.Errors[field.Name] {
		b.WriteString(`  <p class="formkit-error">`)
		b.WriteString(html.EscapeString(message))
		b.WriteString("</p>\n")
	}

	b.WriteString("</div>")
	return b.String()
}

func renderControl(field schema.Field, state resolver.FieldState, options render.Options) string {
	value := options.Values[field.Name]

	switch field.Kind {
	case schema.KindText, schema.KindEmail, schema.KindNumber, schema.KindPhone,
		schema.KindURL, schema.KindPassword, schema.KindDate:
		return renderInput(field, inputTypes[field.Kind], value)
	case schema.KindTextarea:
		return renderTextarea(field, value)
	case schema.KindCheckbox, schema.KindToggle:
		return renderCheckbox(field, value)
	case schema.KindSelect, schema.KindMultiSelect:
		return renderSelect(field, state, value)
	case schema.KindRadio:
		return renderRadioGroup(field, state, value)
	case schema.KindFile, schema.KindImage:
		return renderFileInput(field, value)
	case schema.KindDynamicConfig:
		return renderDynamicConfig(field, value)
	default:
		// Unknown kinds render nothing; the field is simply skipped.
		return ""
	}
}

func renderInput(field schema.Field, inputType string, value any) string {
	var b strings.Builder
	b.WriteString(`<input type="`)
	b.WriteString(inputType)
	b.WriteString(`" id="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`"`)
	if text := stringValue(value); text != "" && field.Kind != schema.KindPassword {
		b.WriteString(` value="`)
		b.WriteString(html.EscapeString(text))
		b.WriteString(`"`)
	}
	if field.Placeholder != "" {
		b.WriteString(` placeholder="`)
		b.WriteString(html.EscapeString(field.Placeholder))
		b.WriteString(`"`)
	}
	writeCommonAttrs(&b, field)
	b.WriteString(">")
	return b.String()
}

func renderTextarea(field schema.Field, value any) string {
	var b strings.Builder
	b.WriteString(`<textarea id="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`"`)
	if field.Placeholder != "" {
		b.WriteString(` placeholder="`)
		b.WriteString(html.EscapeString(field.Placeholder))
		b.WriteString(`"`)
	}
	writeCommonAttrs(&b, field)
	b.WriteString(">")
	b.WriteString(html.EscapeString(stringValue(value)))
	b.WriteString("</textarea>")
	return b.String()
}

func renderCheckbox(field schema.Field, value any) string {
	var b strings.Builder
	b.WriteString(`<label class="formkit-checkbox"><input type="checkbox" id="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`" value="true"`)
	if field.Kind == schema.KindToggle {
		b.WriteString(` role="switch" class="formkit-toggle"`)
	}
	if checked, ok := value.(bool); ok && checked {
		b.WriteString(" checked")
	}
	writeCommonAttrs(&b, field)
	b.WriteString("> ")
	b.WriteString(html.EscapeString(displayLabel(field)))
	b.WriteString("</label>")
	return b.String()
}

func renderSelect(field schema.Field, state resolver.FieldState, value any) string {
	options, disabled := effectiveOptions(field, state)
	selected := selectedValues(value)

	var b strings.Builder
	b.WriteString(`<select id="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`"`)
	if field.Kind == schema.KindMultiSelect {
		b.WriteString(" multiple")
	}
	if disabled {
		b.WriteString(" disabled")
	}
	writeCommonAttrs(&b, field)
	b.WriteString(">")

	if field.Kind == schema.KindSelect {
		b.WriteString(`<option value="">`)
		if field.Placeholder != "" {
			b.WriteString(html.EscapeString(field.Placeholder))
		} else {
			b.WriteString("Choose…")
		}
		b.WriteString("</option>")
	}

	for _, opt := range options {
		b.WriteString(`<option value="`)
		b.WriteString(html.EscapeString(opt.Value))
		b.WriteString(`"`)
		if _, ok := selected[opt.Value]; ok {
			b.WriteString(" selected")
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(opt.Label))
		b.WriteString("</option>")
	}
	b.WriteString("</select>")
	return b.String()
}

func renderRadioGroup(field schema.Field, state resolver.FieldState, value any) string {
	options, disabled := effectiveOptions(field, state)
	selected := selectedValues(value)

	var b strings.Builder
	b.WriteString(`<fieldset class="formkit-radio-group"`)
	if disabled {
		b.WriteString(" disabled")
	}
	b.WriteString(">")
	for _, opt := range options {
		b.WriteString(`<label><input type="radio" name="`)
		b.WriteString(html.EscapeString(field.Name))
		b.WriteString(`" value="`)
		b.WriteString(html.EscapeString(opt.Value))
		b.WriteString(`"`)
		if _, ok := selected[opt.Value]; ok {
			b.WriteString(" checked")
		}
		if field.Required {
			b.WriteString(" required")
		}
		b.WriteString("> ")
		b.WriteString(html.EscapeString(opt.Label))
		b.WriteString("</label>")
	}
	b.WriteString("</fieldset>")
	return b.String()
}

func renderFileInput(field schema.Field, value any) string {
	var b strings.Builder
	b.WriteString(`<input type="file" id="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`"`)
	if field.Kind == schema.KindImage {
		b.WriteString(` accept="image/*"`)
	}
	// An already-resolved upload reference is carried through so editing an
	// existing record does not force a re-upload.
	if ref := stringValue(value); ref != "" {
		b.WriteString(` data-current="`)
		b.WriteString(html.EscapeString(ref))
		b.WriteString(`"`)
	}
	writeCommonAttrs(&b, field)
	b.WriteString(">")
	return b.String()
}

func renderDynamicConfig(field schema.Field, value any) string {
	var b strings.Builder
	b.WriteString(`<fieldset class="formkit-dynamic" data-name="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`"`)
	if field.Config != nil && len(field.Config.Entries) > 0 {
		if descriptor, err := json.Marshal(field.Config.Entries); err == nil {
			b.WriteString(` data-config="`)
			b.WriteString(html.EscapeString(string(descriptor)))
			b.WriteString(`"`)
		}
	}
	if entries, ok := value.([]map[string]any); ok && len(entries) > 0 {
		if existing, err := json.Marshal(entries); err == nil {
			b.WriteString(` data-entries="`)
			b.WriteString(html.EscapeString(string(existing)))
			b.WriteString(`"`)
		}
	}
	b.WriteString(`><legend>`)
	b.WriteString(html.EscapeString(displayLabel(field)))
	b.WriteString("</legend></fieldset>")
	return b.String()
}

func writeLabel(b *strings.Builder, field schema.Field) {
	b.WriteString(`  <label for="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(displayLabel(field)))
	if field.Required {
		b.WriteString(` <span class="formkit-required">*</span>`)
	}
	b.WriteString("</label>\n")
}

func writeCommonAttrs(b *strings.Builder, field schema.Field) {
	if field.Required {
		b.WriteString(" required")
	}
}

func effectiveOptions(field schema.Field, state resolver.FieldState) ([]schema.Option, bool) {
	if len(field.DependsOn) == 0 {
		return field.Options, false
	}
	if !state.Enabled {
		return nil, true
	}
	return state.Options, false
}

func displayLabel(field schema.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return schema.Labelize(field.Name)
}

func selectedValues(value any) map[string]struct{} {
	out := make(map[string]struct{})
	switch v := value.(type) {
	case nil:
	case []string:
		for _, item := range v {
			out[item] = struct{}{}
		}
	case []any:
		for _, item := range v {
			out[fmt.Sprint(item)] = struct{}{}
		}
	default:
		if text := stringValue(value); text != "" {
			out[text] = struct{}{}
		}
	}
	return out
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case render.PendingFile:
		return v.Filename
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
