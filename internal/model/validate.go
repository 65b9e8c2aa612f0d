package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "userauth/internal/errors"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// bcrypt limits bytes, not characters.
	_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return v
}

// fieldOrder is the order in which field messages are reported.
var fieldOrder = []string{"name", "email", "password", "role"}

var fieldLabels = map[string]string{
	"Name":     "name",
	"Email":    "email",
	"Password": "password",
	"Role":     "role",
}

// Validate checks the schema rules of u. Must be called before Prepare, while
// Password still holds the plaintext.
func (u *User) Validate() error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate user: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key, ok := fieldLabels[fe.Field()]
		if !ok {
			key = fe.Field()
		}
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = fieldMessage(fe)
	}
	return apperrors.Validation(fields, fieldOrder)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "bcryptmax":
		return fmt.Sprintf("%s must be at most %d bytes", fe.Field(), MaxPasswordBytes)
	case "oneof":
		return fmt.Sprintf("%s is invalid", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
