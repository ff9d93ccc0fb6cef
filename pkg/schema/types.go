package schema

// FieldKind is the closed enumeration of supported input kinds. Renderers
// dispatch on it exhaustively; unknown kinds produce no control.
type FieldKind string

const (
	KindText          FieldKind = "text"
	KindEmail         FieldKind = "email"
	KindNumber        FieldKind = "number"
	KindPhone         FieldKind = "phone"
	KindURL           FieldKind = "url"
	KindPassword      FieldKind = "password"
	KindTextarea      FieldKind = "textarea"
	KindDate          FieldKind = "date"
	KindCheckbox      FieldKind = "checkbox"
	KindToggle        FieldKind = "toggle"
	KindSelect        FieldKind = "select"
	KindMultiSelect   FieldKind = "multiselect"
	KindRadio         FieldKind = "radio"
	KindFile          FieldKind = "file"
	KindImage         FieldKind = "image"
	KindDynamicConfig FieldKind = "dynamicconfig"
)

// Kinds lists every supported FieldKind in a stable order.
func Kinds() []FieldKind {
	return []FieldKind{
		KindText, KindEmail, KindNumber, KindPhone, KindURL, KindPassword,
		KindTextarea, KindDate, KindCheckbox, KindToggle, KindSelect,
		KindMultiSelect, KindRadio, KindFile, KindImage, KindDynamicConfig,
	}
}

// Valid reports whether the kind belongs to the closed enumeration.
func (k FieldKind) Valid() bool {
	switch k {
	case KindText, KindEmail, KindNumber, KindPhone, KindURL, KindPassword,
		KindTextarea, KindDate, KindCheckbox, KindToggle, KindSelect,
		KindMultiSelect, KindRadio, KindFile, KindImage, KindDynamicConfig:
		return true
	default:
		return false
	}
}

// HasOptions reports whether fields of this kind carry a static option list.
func (k FieldKind) HasOptions() bool {
	switch k {
	case KindSelect, KindMultiSelect, KindRadio:
		return true
	default:
		return false
	}
}

// EntityType names the business object a schema configures. The engine treats
// it as an opaque tag; only the default catalog interprets it.
type EntityType string

const (
	EntityStudent    EntityType = "student"
	EntityTeacher    EntityType = "teacher"
	EntityClass      EntityType = "class"
	EntityAssignment EntityType = "assignment"
	EntityExam       EntityType = "exam"
	EntityLiveClass  EntityType = "liveclass"
)

// Option is one selectable choice inside a select/multiselect/radio field.
// ID exists for list-editing stability and is independent of Value.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
	Order int    `json:"order,omitempty"`
}

// Validations captures the structured rule set applied at submit time. Nil
// pointers mean "no constraint", never "constraint of zero".
type Validations struct {
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	MinValue  *float64 `json:"minValue,omitempty"`
	MaxValue  *float64 `json:"maxValue,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// SubField describes one column of a dynamic-config entry.
type SubField struct {
	Name    string    `json:"name"`
	Label   string    `json:"label,omitempty"`
	Kind    FieldKind `json:"kind"`
	Options []Option  `json:"options,omitempty"`
}

// Config carries the sub-field descriptors a dynamic-config control uses to
// build repeatable structured entries.
type Config struct {
	Entries []SubField `json:"entries,omitempty"`
}

// Field models an individual input inside a form schema. Struct fields are
// annotated so stores can serialise them directly.
type Field struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Label            string       `json:"label,omitempty"`
	Placeholder      string       `json:"placeholder,omitempty"`
	HelpText         string       `json:"helpText,omitempty"`
	Kind             FieldKind    `json:"kind"`
	Required         bool         `json:"required"`
	Filterable       bool         `json:"isFilterable,omitempty"`
	VisibleInListing bool         `json:"isVisibleInListing,omitempty"`
	Options          []Option     `json:"options,omitempty"`
	Validations      *Validations `json:"validations,omitempty"`
	DependsOn        []string     `json:"dependsOn,omitempty"`
	Config           *Config      `json:"config,omitempty"`
}

// FormSchema is the aggregate a builder session mutates and a render session
// interprets. Field order is significant: array index is display order.
type FormSchema struct {
	Key         string     `json:"key"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	EntityType  EntityType `json:"entityType,omitempty"`
	Fields      []Field    `json:"fields"`
}

// FieldByID returns a pointer into Fields for in-place mutation, or nil when
// the id is unknown.
func (s *FormSchema) FieldByID(id string) *Field {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return &s.Fields[i]
		}
	}
	return nil
}

// FieldByName looks a field up by its machine key.
func (s *FormSchema) FieldByName(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// IndexOf returns the position of the field with the given id, or -1.
func (s *FormSchema) IndexOf(id string) int {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return i
		}
	}
	return -1
}

// HasName reports whether any field already uses the machine key.
func (s *FormSchema) HasName(name string) bool {
	return s.FieldByName(name) != nil
}
