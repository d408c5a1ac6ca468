package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single schema validation failure: the offending field plus
// a human-readable reason, suitable for returning to the submitter.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// contactFields carries the raw, pre-sanitized values through validation.
// Schema validation is independent of the cleaning pipeline and always runs
// against what the client actually sent.
type contactFields struct {
	Name    string `validate:"required,trimmed_min=2,trimmed_max=100,name_chars"`
	Email   string `validate:"required,min=5,max=255,strict_email"`
	Message string `validate:"required,trimmed_min=10,trimmed_max=1000,message_chars"`
}

var (
	nameChars    = regexp.MustCompile(`^[\p{L}\s'-]+$`)
	messageChars = regexp.MustCompile(`^[\p{L}\p{N}\s!?.,'"()]+$`)

	// RFC-5322-ish. Stricter-than-standard policy rejections ('+' tags,
	// double dots) are separate checks so the reasons stay distinguishable.
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%-]+@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)+$`)
)

var contactValidator = newContactValidator()

func newContactValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("trimmed_min", func(fl validator.FieldLevel) bool {
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(strings.TrimSpace(fl.Field().String())) >= min
	})
	_ = v.RegisterValidation("trimmed_max", func(fl validator.FieldLevel) bool {
		max, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(strings.TrimSpace(fl.Field().String())) <= max
	})
	_ = v.RegisterValidation("name_chars", func(fl validator.FieldLevel) bool {
		return nameChars.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("message_chars", func(fl validator.FieldLevel) bool {
		return messageChars.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strict_email", func(fl validator.FieldLevel) bool {
		email := fl.Field().String()
		if strings.Contains(email, "+") || strings.Contains(email, "..") {
			return false
		}
		return emailPattern.MatchString(email)
	})
	return v
}

// ValidateFields enforces the contact form schema on the raw field values.
// All field errors are collected and returned together rather than
// short-circuiting on the first failure. A nil return means every field passed.
func ValidateFields(name, email, message string) []FieldError {
	err := contactValidator.Struct(contactFields{
		Name:    name,
		Email:   email,
		Message: message,
	})
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: "form", Reason: "invalid submission"}}
	}

	fieldErrs := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := strings.ToLower(fe.Field())
		fieldErrs = append(fieldErrs, FieldError{
			Field:  field,
			Reason: reasonFor(field, fe),
		})
	}
	return fieldErrs
}

// reasonFor converts a validator error into a human-readable, user-correctable message.
func reasonFor(field string, fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "trimmed_min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "trimmed_max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "name_chars":
		return fmt.Sprintf("%s may only contain letters, spaces, hyphens and apostrophes", field)
	case "message_chars":
		return fmt.Sprintf("%s contains characters that are not allowed", field)
	case "strict_email":
		return fmt.Sprintf("%s must be a valid email address without '+' tags or consecutive dots", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
