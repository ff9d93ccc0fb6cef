// Package openapi imports form schemas from OpenAPI 3 documents: an
// operation's JSON request body becomes the seed schema an operator then
// refines in the builder.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/classforge/formkit/pkg/schema"
)

var (
	// ErrOperationNotFound signals the document declares no operation with
	// the requested id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody signals the operation has no JSON request body to
	// derive fields from.
	ErrNoRequestBody = errors.New("openapi: operation has no JSON request body")
)

// Import parses an OpenAPI 3 document and converts the named operation's
// request body into a form schema. Property order in the output is
// alphabetical so repeated imports of the same document are stable.
func Import(ctx context.Context, raw []byte, operationID string) (schema.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return schema.FormSchema{}, err
	}
	if len(raw) == 0 {
		return schema.FormSchema{}, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.FormSchema{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestBodySchema(operation)
	if body == nil || len(body.Properties) == 0 {
		return schema.FormSchema{}, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	doc := schema.FormSchema{
		Key:         operationID,
		Name:        operation.Summary,
		Description: operation.Description,
	}
	if doc.Name == "" {
		doc.Name = schema.Labelize(operationID)
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	for _, name := range sortedPropertyNames(body.Properties) {
		property := body.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		field, ok := convertProperty(name, property.Value, required[name])
		if !ok {
			continue
		}
		doc.Fields = append(doc.Fields, field)
	}

	if err := doc.Validate(); err != nil {
		return schema.FormSchema{}, fmt.Errorf("openapi: imported schema: %w", err)
	}
	return doc, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestBodySchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	media := operation.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}

// convertProperty maps one request-body property onto a form field. The
// second return is false for shapes the engine has no control for, such as
// arrays of scalars without an enum.
func convertProperty(name string, src *openapi3.Schema, required bool) (schema.Field, bool) {
	field := schema.Field{
		ID:       name,
		Name:     name,
		Label:    propertyLabel(name, src),
		HelpText: src.Description,
		Required: required,
	}

	switch firstSchemaType(src.Type) {
	case "boolean":
		field.Kind = schema.KindCheckbox
	case "integer", "number":
		field.Kind = schema.KindNumber
		field.Validations = numericValidations(src)
	case "array":
		return convertArrayProperty(field, src)
	case "object":
		return convertObjectProperty(field, src)
	default:
		field.Kind = stringKind(src)
		if len(src.Enum) > 0 {
			field.Kind = schema.KindSelect
			field.Options = enumOptions(src.Enum)
		} else {
			field.Validations = stringValidations(src)
		}
	}
	return field, true
}

func convertArrayProperty(field schema.Field, src *openapi3.Schema) (schema.Field, bool) {
	if src.Items == nil || src.Items.Value == nil {
		return schema.Field{}, false
	}
	items := src.Items.Value
	if len(items.Enum) > 0 {
		field.Kind = schema.KindMultiSelect
		field.Options = enumOptions(items.Enum)
		return field, true
	}
	if firstSchemaType(items.Type) == "object" && len(items.Properties) > 0 {
		field.Kind = schema.KindDynamicConfig
		field.Config = &schema.Config{Entries: subFields(items)}
		return field, true
	}
	return schema.Field{}, false
}

func convertObjectProperty(field schema.Field, src *openapi3.Schema) (schema.Field, bool) {
	if len(src.Properties) == 0 {
		return schema.Field{}, false
	}
	field.Kind = schema.KindDynamicConfig
	field.Config = &schema.Config{Entries: subFields(src)}
	return field, true
}

func subFields(src *openapi3.Schema) []schema.SubField {
	var entries []schema.SubField
	for _, name := range sortedPropertyNames(src.Properties) {
		property := src.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		sub := schema.SubField{Name: name, Label: propertyLabel(name, property.Value)}
		switch firstSchemaType(property.Value.Type) {
		case "boolean":
			sub.Kind = schema.KindCheckbox
		case "integer", "number":
			sub.Kind = schema.KindNumber
		default:
			sub.Kind = schema.KindText
			if len(property.Value.Enum) > 0 {
				sub.Kind = schema.KindSelect
				sub.Options = enumOptions(property.Value.Enum)
			}
		}
		entries = append(entries, sub)
	}
	return entries
}

func stringKind(src *openapi3.Schema) schema.FieldKind {
	switch src.Format {
	case "email":
		return schema.KindEmail
	case "date", "date-time":
		return schema.KindDate
	case "password":
		return schema.KindPassword
	case "uri", "url":
		return schema.KindURL
	case "binary", "byte":
		return schema.KindFile
	case "phone", "tel":
		return schema.KindPhone
	}
	return schema.KindText
}

func stringValidations(src *openapi3.Schema) *schema.Validations {
	var v schema.Validations
	var set bool
	if src.MinLength > 0 {
		value := int(src.MinLength)
		v.MinLength = &value
		set = true
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		v.MaxLength = &value
		set = true
	}
	if src.Pattern != "" {
		v.Pattern = src.Pattern
		set = true
	}
	if !set {
		return nil
	}
	return &v
}

func numericValidations(src *openapi3.Schema) *schema.Validations {
	var v schema.Validations
	var set bool
	if src.Min != nil {
		value := *src.Min
		v.MinValue = &value
		set = true
	}
	if src.Max != nil {
		value := *src.Max
		v.MaxValue = &value
		set = true
	}
	if !set {
		return nil
	}
	return &v
}

func enumOptions(enum []any) []schema.Option {
	options := make([]schema.Option, 0, len(enum))
	for i, raw := range enum {
		value := fmt.Sprint(raw)
		options = append(options, schema.Option{
			ID:    fmt.Sprint(i),
			Label: schema.Labelize(value),
			Value: value,
			Order: i,
		})
	}
	return options
}

func propertyLabel(name string, src *openapi3.Schema) string {
	if src.Title != "" {
		return src.Title
	}
	return schema.Labelize(name)
}

func sortedPropertyNames(properties openapi3.Schemas) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	for _, value := range values {
		if !strings.EqualFold(value, "null") {
			return value
		}
	}
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
