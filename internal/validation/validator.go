// package validation provides helper functions for request data validation.
// It uses the go-playground/validator library and includes custom validation rules.
package validation

import (
	"fmt"
	"strings"

	"github.com/bloodbridge/matching-service/internal/bloodtype"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// init registers custom validation rules with the validator instance.
func init() {
	// The "blood_type" tag accepts exactly the eight known ABO/Rh types.
	// Empty strings pass so optional fields stay the 'required' tag's job.
	err := validate.RegisterValidation("blood_type", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			return true
		}

		_, parseErr := bloodtype.Parse(fl.Field().String())

		return parseErr == nil
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}
}

// ValidationError is a custom error type that holds a slice of validation error messages.
type ValidationError struct {
	Errors []string
}

// Error returns a single string concatenating all validation error messages.
func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct performs validation on a given struct based on its validation tags.
// If validation fails, it returns a *ValidationError with user-friendly messages.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors []string

		for _, err := range err.(validator.ValidationErrors) {
			var message string

			switch err.Tag() {
			case "blood_type":
				message = fmt.Sprintf(
					"field '%s' must be one of the eight blood types (O-, O+, A-, A+, B-, B+, AB-, AB+)",
					err.Field(),
				)
			default:
				message = fmt.Sprintf(
					"field '%s' failed on the '%s' tag",
					err.Field(),
					err.Tag(),
				)
			}
			validationErrors = append(validationErrors, message)
		}

		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
