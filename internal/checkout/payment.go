package checkout

import (
	"time"

	"kitchen/internal/models"
	"kitchen/internal/validation"

	"github.com/go-playground/validator/v10"
)

// ValidatePayment checks the payment method and, for cards, the card fields
// including that the expiry month has not passed. Bank and transfer payments
// carry no fields to check.
func ValidatePayment(v *validator.Validate, req models.PaymentRequest, now time.Time) error {
	if err := v.Var(req.Method, "required,oneof=card bank transfer"); err != nil {
		return validation.FieldErrors{"method": "Please choose a payment method"}
	}
	if req.Method != models.PaymentCard {
		return nil
	}
	if req.Card == nil {
		return validation.FieldErrors{"card": "Card details are required"}
	}
	if err := v.Struct(req.Card); err != nil {
		return validation.Translate(err)
	}
	month, year, _ := validation.ParseExpiry(req.Card.Expiry)
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return validation.FieldErrors{"expiry": "Card has expired"}
	}
	return nil
}

// CardLast4 returns the last four digits of a card number.
func CardLast4(number string) string {
	n := validation.NormalizeCardNumber(number)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}
