package service

import (
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strings"
	"time"
	"unicode"

	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/storage"
	"github.com/Baaaki/storefront/internal/utils"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	maxEmailLength    = 254

	requiredMessage = "This field is required."
)

var (
	errPasswordNumeric = errors.New("This password is entirely numeric.")
	errPasswordCommon  = errors.New("This password is too common.")
	errPasswordSimilar = errors.New("The password is too similar to the email.")
	errInvalidSlug     = errors.New("Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	errInvalidNumber   = errors.New("A valid number is required.")
	errDateFormat      = errors.New("Date has wrong format. Use YYYY-MM-DD.")
	errRatingRange     = errors.New("Ensure this value is between 1 and 5.")
)

// commonPasswords is a short deny-list of the most frequently leaked passwords
var commonPasswords = map[string]bool{
	"password": true, "password1": true, "password123": true, "12345678": true,
	"123456789": true, "1234567890": true, "qwerty123": true, "qwertyuiop": true,
	"iloveyou": true, "sunshine": true, "princess": true, "football": true,
	"baseball": true, "welcome1": true, "letmein1": true, "admin123": true,
	"abc12345": true, "passw0rd": true, "11111111": true, "00000000": true,
	"trustno1": true, "superman": true, "starwars": true, "whatever": true,
	"dragon123": true, "monkey123": true, "changeme": true, "q1w2e3r4": true,
}

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// index agree on one spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// presence is Required for full writes. Partial writes only reject a field
// that was sent empty.
func presence(partial bool) validation.Rule {
	if partial {
		return validation.NilOrNotEmpty.Error(requiredMessage)
	}
	return validation.Required.Error(requiredMessage)
}

func maxLength(n int) validation.Rule {
	return validation.Length(0, n).Error(fmt.Sprintf("Ensure this field has no more than %d characters.", n))
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(requiredMessage),
		maxLength(maxEmailLength),
		is.Email.Error("Enter a valid email address."),
	}
}

// passwordRules is the password policy. email feeds the similarity check.
func passwordRules(email string) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(requiredMessage),
		validation.Length(minPasswordLength, 0).Error("This password is too short. It must contain at least 8 characters."),
		validation.Length(0, maxPasswordLength).Error("This password is too long."),
		validation.By(notNumeric),
		validation.By(notCommon),
		validation.By(notSimilarTo(email)),
	}
}

// slugRules accepts a sent slug only when it is URL safe. A non-empty name
// must always yield some slug.
func slugRules(name string) []validation.Rule {
	rules := []validation.Rule{validation.By(urlSafeSlug)}
	if name != "" {
		rules = append([]validation.Rule{validation.Required.Error("Could not derive a slug from the name.")}, rules...)
	}
	return rules
}

func roleRule(role models.Role) validation.Rule {
	return validation.In(models.RoleSuperAdmin, models.RoleAdmin, models.RoleCustomer, models.RoleGuest).
		Error(fmt.Sprintf("%q is not a valid choice.", role))
}

func notNumeric(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return nil
		}
	}
	return errPasswordNumeric
}

func notCommon(value interface{}) error {
	s, _ := value.(string)
	if commonPasswords[strings.ToLower(s)] {
		return errPasswordCommon
	}
	return nil
}

func notSimilarTo(email string) validation.RuleFunc {
	return func(value interface{}) error {
		local, _, found := strings.Cut(strings.ToLower(email), "@")
		if !found || len(local) < 4 {
			return nil
		}
		p, _ := value.(string)
		p = strings.ToLower(p)
		if p != "" && (strings.Contains(p, local) || strings.Contains(local, p)) {
			return errPasswordSimilar
		}
		return nil
	}
}

// matches reports a mismatch once the confirmation was sent
func matches(confirmation string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if confirmation != "" && s != confirmation {
			return errors.New("Password fields didn't match.")
		}
		return nil
	}
}

func urlSafeSlug(value interface{}) error {
	s, _ := value.(string)
	if s != "" && !utils.IsSlug(s) {
		return errInvalidSlug
	}
	return nil
}

func finite(value interface{}) error {
	f, ok := value.(*float64)
	if ok && f != nil && (math.IsNaN(*f) || math.IsInf(*f, 0)) {
		return errInvalidNumber
	}
	return nil
}

func ratingInRange(value interface{}) error {
	r, ok := value.(*int)
	if ok && r != nil && (*r < minRating || *r > maxRating) {
		return errRatingRange
	}
	return nil
}

func isoDate(value interface{}) error {
	s, _ := value.(*string)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, strings.TrimSpace(*s)); err != nil {
		return errDateFormat
	}
	return nil
}

func validImage(value interface{}) error {
	fh, _ := value.(*multipart.FileHeader)
	if fh == nil {
		return nil
	}
	return storage.ValidateImage(fh)
}
