// Package validation wraps go-playground/validator with the storefront's
// custom rules and turns validation failures into per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"kitchen/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	ngPhoneRegex  = regexp.MustCompile(`^(?:\+234|0)[789][01]\d{8}$`)
	expiryRegex   = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	specialRegex  = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	strengthLabel = []string{"Very Weak", "Weak", "Fair", "Good", "Strong", "Very Strong"}
)

// FieldErrors maps a JSON field name to a user-facing message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, k := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", k, f[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// New returns a validator with the custom tags registered and JSON field
// names reported in errors.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("ng_phone", func(fl validator.FieldLevel) bool {
		return IsNigerianPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		s := CheckPassword(fl.Field().String())
		return s.Length && s.Uppercase && s.Lowercase && s.Number
	})
	_ = v.RegisterValidation("card_number", func(fl validator.FieldLevel) bool {
		n := NormalizeCardNumber(fl.Field().String())
		if len(n) < 12 || len(n) > 19 {
			return false
		}
		for _, r := range n {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
	_ = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		_, _, ok := ParseExpiry(fl.Field().String())
		return ok
	})
	return v
}

// IsNigerianPhone reports whether s is a Nigerian mobile number, ignoring
// whitespace.
func IsNigerianPhone(s string) bool {
	return ngPhoneRegex.MatchString(strings.Join(strings.Fields(s), ""))
}

// NormalizeCardNumber strips spaces and dashes from a card number.
func NormalizeCardNumber(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

// ParseExpiry parses an MM/YY card expiry. The year is returned as a
// four-digit year.
func ParseExpiry(s string) (month, year int, ok bool) {
	m := expiryRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	fmt.Sscanf(m[1], "%d", &month)
	fmt.Sscanf(m[2], "%d", &year)
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return month, 2000 + year, true
}

// CheckPassword runs the sign-up password checks.
func CheckPassword(pw string) models.PasswordStrength {
	s := models.PasswordStrength{Length: len(pw) >= 8, Special: specialRegex.MatchString(pw)}
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			s.Uppercase = true
		case unicode.IsLower(r):
			s.Lowercase = true
		case unicode.IsDigit(r):
			s.Number = true
		}
	}
	for _, ok := range []bool{s.Length, s.Uppercase, s.Lowercase, s.Number, s.Special} {
		if ok {
			s.Score++
		}
	}
	s.Label = strengthLabel[s.Score]
	return s
}

// Translate converts validator errors into FieldErrors. Any other error is
// returned unchanged.
func Translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		if _, seen := out[e.Field()]; seen {
			continue
		}
		out[e.Field()] = message(e)
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "email":
		return "Please enter a valid email address"
	case "ng_phone":
		return "Please enter a valid Nigerian phone number"
	case "strong_password":
		if pw, _ := e.Value().(string); len(pw) < 8 {
			return "Password must be at least 8 characters"
		}
		return "Password must contain uppercase, lowercase, and number"
	case "eqfield":
		return "Passwords do not match"
	case "card_number":
		return "Invalid card number"
	case "card_expiry":
		return "Invalid expiry date"
	}
	switch e.Field() {
	case "agreed":
		return "You must agree to the terms and conditions"
	case "cvv":
		return "Invalid CVV"
	case "password":
		return "Password is required"
	case "name":
		if e.Tag() == "min" || e.Tag() == "required" {
			return "Please enter cardholder name"
		}
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
}
