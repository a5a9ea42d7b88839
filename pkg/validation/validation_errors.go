package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	// Auth and profile fields
	"Name":            "Full name",
	"FirstName":       "First name",
	"LastName":        "Last name",
	"Email":           "Email",
	"Password":        "Password",
	"CurrentPassword": "Current password",
	"NewPassword":     "New password",
	"ConfirmPassword": "Password confirmation",
	"AccountType":     "Account type",
	"Phone":           "Phone number",
	"BirthDate":       "Date of birth",

	// Job fields
	"Title":       "Job title",
	"CompanyName": "Company name",
	"Location":    "Location",
	"SalaryMin":   "Minimum salary",
	"SalaryMax":   "Maximum salary",
	"Currency":    "Currency",
	"Description": "Description",

	// Message fields
	"Text": "Message",
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

	case "email":
		return fmt.Sprintf("%s: invalid email address", label)

	case "valid_name":
		return fmt.Sprintf("%s: may only contain letters, spaces and . ' -", label)

	case "valid_phone":
		return fmt.Sprintf("%s: must contain at least %d digits", label, minPhoneDigits)

	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or symbols", label)

	case "past_date":
		return fmt.Sprintf("%s: must be a date in the past (YYYY-MM-DD)", label)

	case "eqfield":
		return fmt.Sprintf("%s: must match %s", label, getFieldLabel(param))

	case "gtefield":
		return fmt.Sprintf("%s: must not be less than %s", label, getFieldLabel(param))

	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
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
