package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps each failing field (json name) to a readable message.
// Errors that are not validator errors come back under the "body" key.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		out[e.Field()] = formatSingleError(e)
	}
	return out
}

// FormatValidationErrors returns one "field: message" line per failure.
func FormatValidationErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, e.Field()+": "+formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	param := e.Param()

	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return fmt.Sprintf("must be at least %s", param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return fmt.Sprintf("must be at most %s", param)
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", param)
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", param)
	case "gtefield":
		return fmt.Sprintf("must not be less than %s", toSnake(param))
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "valid_name":
		return "may only contain letters, digits, spaces and . ' - / & ( ) ,"
	case "valid_phone":
		return "must be a phone number of 7-15 digits, optionally starting with +"
	case "no_emoji":
		return "must not contain emoji or symbols"
	default:
		return fmt.Sprintf("failed %q validation", e.Tag())
	}
}

// toSnake turns a Go field name such as SalaryMin into salary_min.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
