package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"IDToken":      "ID token",
	"Title":        "Job title",
	"Company":      "Company",
	"Location":     "Location",
	"Type":         "Job type",
	"Description":  "Description",
	"Requirements": "Requirements",
	"SalaryMin":    "Minimum salary",
	"SalaryMax":    "Maximum salary",
	"Currency":     "Currency",
	"Status":       "Status",
	"Resume":       "Resume URL",
	"CoverLetter":  "Cover letter",
	"Role":         "Role",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
	case "url":
		return fmt.Sprintf("%s: must be a valid URL", label)
	case "job_type":
		return fmt.Sprintf("%s: must be one of: full-time, part-time, contract, internship", label)
	case "job_status":
		return fmt.Sprintf("%s: must be one of: active, closed", label)
	case "application_status":
		return fmt.Sprintf("%s: must be one of: pending, reviewed, accepted, rejected", label)
	case "currency":
		return fmt.Sprintf("%s: must be a three-letter currency code", label)
	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)
	case "gtefield":
		return fmt.Sprintf("%s: must be greater than or equal to %s", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-facing label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
