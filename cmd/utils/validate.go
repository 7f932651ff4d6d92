package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDay(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("shift", func(fl validator.FieldLevel) bool {
		_, err := models.ParseShift(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate runs struct tag validation and converts the first failure into a
// ValidationError naming the json field.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewValidationError("", err.Error())
	}
	fe := verrs[0]
	return NewValidationError(fe.Field(), describe(fe))
}

// ValidateVar checks a single value against a tag list, reporting failures
// under field the same way Validate does.
func ValidateVar(field string, value interface{}, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewValidationError(field, err.Error())
	}
	return NewValidationError(field, describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "weekday":
		return "must be a weekday name"
	case "shift":
		return "must be morning or afternoon"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match the format %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}
