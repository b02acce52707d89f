package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
	enums    map[string][]string
}

func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		enums:    make(map[string][]string),
	}
}

// RegisterEnum adds a tag accepting exactly the given values. It panics when
// the tag is rejected by the validator, such as an empty or reserved name.
func (v *Validator) RegisterEnum(tag string, allowed []string) *Validator {
	values := append([]string(nil), allowed...)
	err := v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, a := range values {
			if s == a {
				return true
			}
		}
		return false
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
	v.enums[tag] = values
	return v
}

// ValidateStruct checks s against its `validate` tags and returns the
// failures keyed by lower-cased field name, or nil when s is valid.
func (v *Validator) ValidateStruct(s interface{}) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	details := FormatValidationErrors(err)
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			if allowed, ok := v.enums[e.Tag()]; ok {
				details[strings.ToLower(e.Field())] = fmt.Sprintf("%s must be one of: %s", e.Field(), strings.Join(allowed, ", "))
			}
		}
	}
	return details
}

// FormatValidationErrors turns validator errors into field messages
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["_"] = err.Error()
		return errors
	}

	for _, e := range validationErrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errors[field] = fmt.Sprintf("%s is required", e.Field())
		case "min":
			errors[field] = fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
		case "max":
			errors[field] = fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
		case "oneof":
			errors[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
		default:
			errors[field] = fmt.Sprintf("%s is invalid", e.Field())
		}
	}

	return errors
}

// SanitizeString strips null bytes and surrounding whitespace
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}
