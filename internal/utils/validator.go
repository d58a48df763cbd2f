// internal/utils/validator.go
package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	skuRE      = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{1,98}[A-Z0-9]$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("strong_password", validateStrongPassword)
	v.RegisterValidation("username", validateUsername)
	v.RegisterValidation("sku", validateSKU)
	return v
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Passwords need at least 8 characters mixing upper, lower, digit, and
// a punctuation or symbol character.
func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	has := func(match func(rune) bool) bool {
		return strings.IndexFunc(password, match) >= 0
	}

	return has(unicode.IsUpper) &&
		has(unicode.IsLower) &&
		has(unicode.IsNumber) &&
		has(func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) })
}

// Usernames are 3-50 characters of letters, digits, and underscores.
func validateUsername(fl validator.FieldLevel) bool {
	return usernameRE.MatchString(fl.Field().String())
}

// SKUs are 3-100 characters of uppercase letters, digits, and dashes,
// never starting or ending with a dash.
func validateSKU(fl validator.FieldLevel) bool {
	return skuRE.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// GetValidationErrors flattens a validator error into API-shaped entries.
func GetValidationErrors(err error) []ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		out = append(out, ValidationError{
			Field:   strings.ToLower(e.Field()),
			Tag:     e.Tag(),
			Message: validationMessage(e),
		})
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "strong_password":
		return "Password must contain at least 8 characters with uppercase, lowercase, number, and special character"
	case "username":
		return "Username must be 3-50 characters and contain only letters, numbers, and underscores"
	case "sku":
		return "SKU must be 3-100 characters of uppercase letters, digits, and dashes"
	default:
		return e.Field() + " is invalid"
	}
}
