package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	looseEmailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern      = regexp.MustCompile(`^[1-9]\d{0,15}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	nonDigitPattern   = regexp.MustCompile(`\D`)
)

const minCardDigits = 13

// NewFormValidator builds the validator used for the checkout forms. Error
// keys are the JSON field names.
func NewFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return looseEmailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return validCardNumber(fl.Field().String())
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})

	return v
}

func validPhone(phone string) bool {
	return phonePattern.MatchString(nonDigitPattern.ReplaceAllString(phone, ""))
}

func cardDigits(number string) string {
	return strings.Join(strings.Fields(number), "")
}

func validCardNumber(number string) bool {
	digits := cardDigits(number)
	if len(digits) < minCardDigits {
		return false
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// validateForm runs struct validation and converts failures into a
// ValidationError; nil means the form is valid.
func validateForm(v *validator.Validate, form any) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fieldMessage(fe.Field(), fe.Tag())
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(field, tag string) string {
	switch tag {
	case "required":
		return "Please fill in your " + strings.ReplaceAll(field, "_", " ")
	case "looseemail":
		return "Please enter a valid email address"
	case "phone":
		return "Please enter a valid phone number"
	case "cardnumber":
		return "Please enter a valid card number"
	case "expiry":
		return "Please enter a valid expiry date (MM/YY)"
	case "min":
		if field == "cvv" {
			return "Please enter a valid CVV"
		}
	}
	return "Please enter a valid " + strings.ReplaceAll(field, "_", " ")
}
