// internal/validator/validator.go
package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"finny/internal/domain"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// Recurrence frequency enum: "one-time", "weekly", "bi-weekly", ...
	_ = Validate.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
		return domain.Frequency(fl.Field().String()).Valid()
	})

	// Employment mode enum: "full-time" or "contract".
	_ = Validate.RegisterValidation("employment", func(fl validator.FieldLevel) bool {
		return domain.EmploymentMode(fl.Field().String()).Valid()
	})

	// String is not empty and not only whitespace.
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
