package service

import (
	"math"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRules(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		email    string
		want     string
	}{
		{"blank", "", "m@x.com", "This field is required."},
		{"too short", "Ab1!", "m@x.com", "This password is too short. It must contain at least 8 characters."},
		{"numeric", "9876543210", "m@x.com", "This password is entirely numeric."},
		{"common", "Password123", "m@x.com", "This password is too common."},
		{"similar to email", "johnsmith1", "johnsmith@x.com", "The password is too similar to the email."},
		{"fine", "Str0ng!pwd", "johnsmith@x.com", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validation.Validate(tc.password, passwordRules(tc.email)...)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestEmailRules(t *testing.T) {
	assert.NoError(t, validation.Validate("shopper@example.com", emailRules()...))
	assert.EqualError(t, validation.Validate("", emailRules()...), "This field is required.")
	assert.EqualError(t, validation.Validate("nope", emailRules()...), "Enter a valid email address.")
}

func TestCheckFields(t *testing.T) {
	assert.NoError(t, checkFields(validation.Errors{
		"email": validation.Validate("shopper@example.com", emailRules()...),
	}))

	price := math.NaN()
	err := checkFields(validation.Errors{
		"email": validation.Validate("nope", emailRules()...),
		"slug":  validation.Validate("not a slug!", slugRules("Name")...),
		"price": validation.Validate(&price, validation.By(finite)),
		"stock": nil,
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string][]string{
		"email": {"Enter a valid email address."},
		"slug":  {"Enter a valid slug consisting of letters, numbers, underscores or hyphens."},
		"price": {"A valid number is required."},
	}, verr.Fields)
	assert.Equal(t, "email: Enter a valid email address.; price: A valid number is required.; slug: Enter a valid slug consisting of letters, numbers, underscores or hyphens.", verr.Error())
}

func TestPresence(t *testing.T) {
	var unsent *string
	empty := ""

	assert.EqualError(t, validation.Validate(unsent, presence(false)), requiredMessage)
	assert.NoError(t, validation.Validate(unsent, presence(true)))
	assert.EqualError(t, validation.Validate(&empty, presence(true)), requiredMessage)
}
