package accounts

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const minPasswordLength = 5

// Validate runs the registration validation rules. Password length
// mirrors what the public signup form enforces.
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(
			&e.Email,
			validation.Required,
			validation.Length(6, 100),
			is.Email,
		),
		validation.Field(
			&e.Password,
			validation.Required,
			validation.Length(minPasswordLength, 0),
		),
	)
}

func validateEmailAddress(email string) error {
	return validation.Validate(email,
		validation.Required,
		validation.Length(6, 100),
		is.Email,
	)
}
