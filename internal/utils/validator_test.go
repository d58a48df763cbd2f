package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrongPasswordRule(t *testing.T) {
	type payload struct {
		Password string `validate:"strong_password"`
	}

	for _, password := range []string{"TestPass123!", "Sup3r$ecret", "Aa1!aaaa"} {
		assert.NoError(t, ValidateStruct(&payload{Password: password}), password)
	}

	for _, password := range []string{
		"alllowercase1!", // no uppercase
		"ALLUPPERCASE1!", // no lowercase
		"NoDigitsHere!",  // no digit
		"NoSpecial123",   // no special character
		"Ab1!x",          // too short
	} {
		assert.Error(t, ValidateStruct(&payload{Password: password}), password)
	}
}

func TestUsernameRule(t *testing.T) {
	type payload struct {
		Username string `validate:"username"`
	}

	for _, username := range []string{"abc", "supplier_01", "ACME_2026"} {
		assert.NoError(t, ValidateStruct(&payload{Username: username}), username)
	}

	for _, username := range []string{"ab", "has space", "has-dash", "has.dot", strings.Repeat("a", 51)} {
		assert.Error(t, ValidateStruct(&payload{Username: username}), username)
	}
}

func TestSKURule(t *testing.T) {
	type payload struct {
		SKU string `validate:"sku"`
	}

	for _, sku := range []string{"QE-MCU-3201", "ABC", "0603-10K"} {
		assert.NoError(t, ValidateStruct(&payload{SKU: sku}), sku)
	}

	for _, sku := range []string{"qe-mcu-3201", "AB", "-ABC", "ABC-", "QE 1000"} {
		assert.Error(t, ValidateStruct(&payload{SKU: sku}), sku)
	}
}

func TestGetValidationErrors(t *testing.T) {
	type payload struct {
		Email    string `validate:"required,email"`
		Username string `validate:"required,username"`
	}

	errs := GetValidationErrors(ValidateStruct(&payload{Email: "not-an-email", Username: "x"}))
	require.Len(t, errs, 2)

	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "email", errs[0].Tag)
	assert.Equal(t, "Invalid email format", errs[0].Message)
	assert.Equal(t, "username", errs[1].Field)

	assert.Empty(t, GetValidationErrors(nil))
}
