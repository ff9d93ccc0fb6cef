// Package catalog holds the built-in default form schema for each entity
// type. Gateways synthesize from here when an entity's form has never been
// customised, so a fresh deployment renders sensible forms immediately.
package catalog

import (
	"sort"
	"strings"

	"github.com/classforge/formkit/pkg/schema"
)

// KeyFor derives the storage key for an entity's form schema.
func KeyFor(entity schema.EntityType) string {
	return string(entity) + "_form"
}

// Default returns the built-in schema for an entity type.
func Default(entity schema.EntityType) (schema.FormSchema, bool) {
	doc, ok := defaults[entity]
	if !ok {
		return schema.FormSchema{}, false
	}
	return doc.Clone(), true
}

// ByKey resolves a storage key back to its default schema. Its signature
// matches store.Synthesizer so gateways can use it directly.
func ByKey(key string) (schema.FormSchema, bool) {
	entity := schema.EntityType(strings.TrimSuffix(key, "_form"))
	if string(entity) == key {
		return schema.FormSchema{}, false
	}
	return Default(entity)
}

// Keys lists the storage keys of every built-in schema, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for entity := range defaults {
		keys = append(keys, KeyFor(entity))
	}
	sort.Strings(keys)
	return keys
}

var defaults = map[schema.EntityType]schema.FormSchema{
	schema.EntityStudent: {
		Key:        "student_form",
		Name:       "Student",
		EntityType: schema.EntityStudent,
		Fields: []schema.Field{
			textField("student_first_name", "first_name", "First Name", true),
			textField("student_last_name", "last_name", "Last Name", true),
			{
				ID: "student_email", Name: "email", Label: "Email",
				Kind: schema.KindEmail, Required: true, Filterable: true,
			},
			{ID: "student_date_of_birth", Name: "date_of_birth", Label: "Date of Birth", Kind: schema.KindDate},
			{
				ID: "student_grade", Name: "grade", Label: "Grade",
				Kind: schema.KindSelect, Filterable: true, VisibleInListing: true,
				Options: gradeOptions(),
			},
			{ID: "student_guardian_phone", Name: "guardian_phone", Label: "Guardian Phone", Kind: schema.KindPhone},
			{ID: "student_photo", Name: "photo", Label: "Photo", Kind: schema.KindImage},
			{ID: "student_notes", Name: "notes", Label: "Notes", Kind: schema.KindTextarea},
		},
	},
	schema.EntityTeacher: {
		Key:        "teacher_form",
		Name:       "Teacher",
		EntityType: schema.EntityTeacher,
		Fields: []schema.Field{
			textField("teacher_first_name", "first_name", "First Name", true),
			textField("teacher_last_name", "last_name", "Last Name", true),
			{
				ID: "teacher_email", Name: "email", Label: "Email",
				Kind: schema.KindEmail, Required: true, Filterable: true,
			},
			{ID: "teacher_phone", Name: "phone", Label: "Phone", Kind: schema.KindPhone},
			{
				ID: "teacher_subjects", Name: "subjects", Label: "Subjects",
				Kind: schema.KindMultiSelect, Filterable: true,
				Options: subjectOptions(),
			},
			{ID: "teacher_photo", Name: "photo", Label: "Photo", Kind: schema.KindImage},
		},
	},
	schema.EntityClass: {
		Key:        "class_form",
		Name:       "Class",
		EntityType: schema.EntityClass,
		Fields: []schema.Field{
			textField("class_name", "name", "Class Name", true),
			{
				ID: "class_grade", Name: "grade", Label: "Grade",
				Kind: schema.KindSelect, Required: true, Filterable: true, VisibleInListing: true,
				Options: gradeOptions(),
			},
			{ID: "class_teacher", Name: "teacher", Label: "Class Teacher", Kind: schema.KindSelect},
			{
				ID: "class_capacity", Name: "capacity", Label: "Capacity", Kind: schema.KindNumber,
				Validations: &schema.Validations{MinValue: floatPtr(1)},
			},
			{
				ID: "class_schedule", Name: "schedule", Label: "Weekly Schedule",
				Kind: schema.KindDynamicConfig,
				Config: &schema.Config{Entries: []schema.SubField{
					{Name: "subject", Label: "Subject", Kind: schema.KindText},
					{Name: "day", Label: "Day", Kind: schema.KindSelect, Options: dayOptions()},
					{Name: "start_time", Label: "Start Time", Kind: schema.KindText},
				}},
			},
		},
	},
	schema.EntityAssignment: {
		Key:        "assignment_form",
		Name:       "Assignment",
		EntityType: schema.EntityAssignment,
		Fields: []schema.Field{
			textField("assignment_title", "title", "Title", true),
			{ID: "assignment_description", Name: "description", Label: "Description", Kind: schema.KindTextarea},
			{ID: "assignment_teacher", Name: "teacher", Label: "Teacher", Kind: schema.KindSelect, Required: true},
			{
				ID: "assignment_class", Name: "class", Label: "Class",
				Kind: schema.KindSelect, Required: true, DependsOn: []string{"teacher"},
			},
			{
				ID: "assignment_subject", Name: "subject", Label: "Subject",
				Kind: schema.KindSelect, Required: true, DependsOn: []string{"class"},
			},
			{ID: "assignment_due_date", Name: "due_date", Label: "Due Date", Kind: schema.KindDate, Required: true},
			{
				ID: "assignment_total_marks", Name: "total_marks", Label: "Total Marks", Kind: schema.KindNumber,
				Validations: &schema.Validations{MinValue: floatPtr(0)},
			},
			{ID: "assignment_attachment", Name: "attachment", Label: "Attachment", Kind: schema.KindFile},
		},
	},
	schema.EntityExam: {
		Key:        "exam_form",
		Name:       "Exam",
		EntityType: schema.EntityExam,
		Fields: []schema.Field{
			textField("exam_name", "name", "Exam Name", true),
			{ID: "exam_teacher", Name: "teacher", Label: "Teacher", Kind: schema.KindSelect, Required: true},
			{
				ID: "exam_class", Name: "class", Label: "Class",
				Kind: schema.KindSelect, Required: true, DependsOn: []string{"teacher"},
			},
			{
				ID: "exam_subject", Name: "subject", Label: "Subject",
				Kind: schema.KindSelect, Required: true, DependsOn: []string{"class"},
			},
			{ID: "exam_date", Name: "exam_date", Label: "Exam Date", Kind: schema.KindDate, Required: true},
			{
				ID: "exam_duration_minutes", Name: "duration_minutes", Label: "Duration (minutes)",
				Kind:        schema.KindNumber,
				Validations: &schema.Validations{MinValue: floatPtr(5), MaxValue: floatPtr(480)},
			},
			{
				ID: "exam_total_marks", Name: "total_marks", Label: "Total Marks", Kind: schema.KindNumber,
				Validations: &schema.Validations{MinValue: floatPtr(0)},
			},
		},
	},
	schema.EntityLiveClass: {
		Key:        "liveclass_form",
		Name:       "Live Class",
		EntityType: schema.EntityLiveClass,
		Fields: []schema.Field{
			textField("liveclass_topic", "topic", "Topic", true),
			{ID: "liveclass_teacher", Name: "teacher", Label: "Teacher", Kind: schema.KindSelect, Required: true},
			{
				ID: "liveclass_class", Name: "class", Label: "Class",
				Kind: schema.KindSelect, Required: true, DependsOn: []string{"teacher"},
			},
			{ID: "liveclass_start_time", Name: "start_time", Label: "Start Time", Kind: schema.KindDate, Required: true},
			{
				ID: "liveclass_duration_minutes", Name: "duration_minutes", Label: "Duration (minutes)",
				Kind:        schema.KindNumber,
				Validations: &schema.Validations{MinValue: floatPtr(10), MaxValue: floatPtr(240)},
			},
			{ID: "liveclass_meeting_url", Name: "meeting_url", Label: "Meeting URL", Kind: schema.KindURL},
			{ID: "liveclass_recording", Name: "recording_enabled", Label: "Record Session", Kind: schema.KindToggle},
		},
	},
}

func textField(id, name, label string, required bool) schema.Field {
	return schema.Field{
		ID: id, Name: name, Label: label,
		Kind: schema.KindText, Required: required,
		Filterable: required, VisibleInListing: required,
	}
}

func gradeOptions() []schema.Option {
	grades := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
	options := make([]schema.Option, len(grades))
	for i, grade := range grades {
		options[i] = schema.Option{
			ID:    "grade_" + grade,
			Label: "Grade " + grade,
			Value: grade,
			Order: i,
		}
	}
	return options
}

func subjectOptions() []schema.Option {
	subjects := []string{"Mathematics", "Science", "English", "History", "Geography", "Art", "Music", "Physical Education"}
	options := make([]schema.Option, len(subjects))
	for i, subject := range subjects {
		options[i] = schema.Option{
			ID:    "subject_" + strings.ToLower(strings.ReplaceAll(subject, " ", "_")),
			Label: subject,
			Value: strings.ToLower(strings.ReplaceAll(subject, " ", "_")),
			Order: i,
		}
	}
	return options
}

func dayOptions() []schema.Option {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	options := make([]schema.Option, len(days))
	for i, day := range days {
		options[i] = schema.Option{
			ID:    "day_" + strings.ToLower(day),
			Label: day,
			Value: strings.ToLower(day),
			Order: i,
		}
	}
	return options
}

func floatPtr(v float64) *float64 { return &v }
