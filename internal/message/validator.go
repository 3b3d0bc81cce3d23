package message

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Validator: decoding, validation and sanitization of client messages
type Validator struct {
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
}

func NewValidator() *Validator {
	return &Validator{
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		sanitizer: bluemonday.StrictPolicy(), // removes all HTML/scripts
	}
}

// Decode: unmarshals raw into target and validates it
func (v *Validator) Decode(raw []byte, target interface{}) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to parse message: %w", err)
	}

	if err := v.validate.Struct(target); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// SanitizeString strips markup from a string echoed back to clients
func (v *Validator) SanitizeString(s string) string {
	return v.sanitizer.Sanitize(s)
}

// formatValidationErrors reports the first failing field
func formatValidationErrors(errors validator.ValidationErrors) error {
	return fmt.Errorf("validation failed: %s", formatSingleError(errors[0]))
}

func formatSingleError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "min", "max":
		return fmt.Sprintf("'%s' value out of allowed range", field)
	case "oneof", "eq":
		return fmt.Sprintf("'%s' has an unsupported value", field)
	default:
		return fmt.Sprintf("'%s' is invalid", field)
	}
}
