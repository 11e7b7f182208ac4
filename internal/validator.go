package internal

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("field_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "text", "email", "textarea", "radio", "multiselect", "rating", "number":
			return true
		}
		return false
	})

	return v
}

func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err != nil {
		return err
	}
	return nil
}
