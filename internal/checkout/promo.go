package checkout

import (
	"errors"
	"strings"
	"time"

	"kitchen/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrPromoEmpty          = errors.New("please enter a promo code")
	ErrPromoAlreadyApplied = errors.New("this promo code is already applied")
	ErrPromoInvalid        = errors.New("invalid promo code. Try: WELCOME10, CHUKS20, FREEDELIVERY, SAVE500")
	ErrPromoFirstOrderOnly = errors.New("this code is only valid for first-time orders")
)

// Promo is a discount rule from the static promo table. Discount is a rate
// for percentage promos and an amount in naira for fixed promos.
type Promo struct {
	Code           string
	Type           string
	Discount       float64
	MaxDiscount    int64 // zero means unbounded
	Description    string
	FirstOrderOnly bool
}

var promoTable = map[string]Promo{
	"WELCOME10":    {Code: "WELCOME10", Type: models.PromoPercentage, Discount: 0.10, MaxDiscount: 2000, Description: "10% off your order"},
	"CHUKS20":      {Code: "CHUKS20", Type: models.PromoPercentage, Discount: 0.20, MaxDiscount: 5000, Description: "20% off your order"},
	"FREEDELIVERY": {Code: "FREEDELIVERY", Type: models.PromoFixed, Discount: 500, Description: "Free delivery"},
	"SAVE500":      {Code: "SAVE500", Type: models.PromoFixed, Discount: 500, Description: "₦500 off"},
	"FIRSTORDER":   {Code: "FIRSTORDER", Type: models.PromoPercentage, Discount: 0.15, MaxDiscount: 3000, Description: "15% off first order", FirstOrderOnly: true},
}

// LookupPromo finds a promo by code, ignoring case and surrounding space.
func LookupPromo(code string) (Promo, bool) {
	p, ok := promoTable[NormalizePromoCode(code)]
	return p, ok
}

// NormalizePromoCode trims and upper-cases a user-typed code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountFor computes the discount the promo grants on subtotal. The result
// is never negative, never above subtotal, and never above MaxDiscount.
func (p Promo) DiscountFor(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	var d int64
	switch p.Type {
	case models.PromoPercentage:
		d = decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromFloat(p.Discount)).
			Round(0).
			IntPart()
		if p.MaxDiscount > 0 && d > p.MaxDiscount {
			d = p.MaxDiscount
		}
	case models.PromoFixed:
		d = decimal.NewFromFloat(p.Discount).Round(0).IntPart()
	}
	return max(0, min(d, subtotal))
}

// Apply stamps the promo with its application and expiry times.
func (p Promo) Apply(now time.Time, ttl time.Duration) models.AppliedPromo {
	return models.AppliedPromo{
		Code:        p.Code,
		Discount:    p.Discount,
		Type:        p.Type,
		MaxDiscount: p.MaxDiscount,
		Description: p.Description,
		AppliedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// promoFromApplied resolves an applied promo against the table so a stored
// record cannot grant more than the table allows.
func promoFromApplied(a *models.AppliedPromo) (Promo, bool) {
	if a == nil {
		return Promo{}, false
	}
	return LookupPromo(a.Code)
}
