package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/classforge/formkit/pkg/schema"
)

// ValidateField checks one field's value against its rule set and returns the
// collected failure messages. An absent rule imposes no constraint.
func ValidateField(field schema.Field, value any) []string {
	var messages []string

	if field.Required && isEmpty(value) {
		messages = append(messages, "required")
	}
	if field.Validations == nil || isEmpty(value) {
		return messages
	}
	rules := field.Validations

	if text, ok := stringFor(value); ok {
		if rules.MinLength != nil && len(text) < *rules.MinLength {
			messages = append(messages, fmt.Sprintf("must be at least %d characters", *rules.MinLength))
		}
		if rules.MaxLength != nil && len(text) > *rules.MaxLength {
			messages = append(messages, fmt.Sprintf("must be at most %d characters", *rules.MaxLength))
		}
		if rules.Pattern != "" {
			re, err := regexp.Compile(rules.Pattern)
			if err != nil {
				messages = append(messages, "invalid pattern rule")
			} else if !re.MatchString(text) {
				messages = append(messages, "does not match required pattern")
			}
		}
	}

	if number, ok := numberFor(value); ok {
		if rules.MinValue != nil && number < *rules.MinValue {
			messages = append(messages, fmt.Sprintf("must be at least %v", *rules.MinValue))
		}
		if rules.MaxValue != nil && number > *rules.MaxValue {
			messages = append(messages, fmt.Sprintf("must be at most %v", *rules.MaxValue))
		}
	}

	return messages
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case []map[string]any:
		return len(v) == 0
	case PendingFile:
		return len(v.Data) == 0 && v.Filename == ""
	default:
		return false
	}
}

func stringFor(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

func numberFor(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
