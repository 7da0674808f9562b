package types

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// EmailPattern is the address shape accepted on intake. It is looser than
// validator's built-in email tag, which rejects underscores in the domain.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewValidator returns a validator with the intake tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return EmailPattern.MatchString(fl.Field().String())
	})
	return v
}
