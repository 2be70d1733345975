package checkout

import "kitchen/internal/models"

// Fees in naira.
const (
	DeliveryFee int64 = 500
	PickupFee   int64 = 0
	ServiceFee  int64 = 200
	Tax         int64 = 0
)

// DeliveryFeeFor returns the delivery fee for a delivery method. Unknown
// methods are charged as delivery.
func DeliveryFeeFor(method string) int64 {
	if method == models.DeliveryMethodPickup {
		return PickupFee
	}
	return DeliveryFee
}

// NormalizeMethod defaults an empty or unknown method to delivery.
func NormalizeMethod(method string) string {
	if method == models.DeliveryMethodPickup {
		return method
	}
	return models.DeliveryMethodDelivery
}

// Price builds the order summary for a cart subtotal.
func Price(subtotal int64, promo *models.AppliedPromo, method, instructions string) models.OrderSummary {
	method = NormalizeMethod(method)
	s := models.OrderSummary{
		Subtotal:            subtotal,
		DeliveryFee:         DeliveryFeeFor(method),
		ServiceFee:          ServiceFee,
		Tax:                 Tax,
		DeliveryMethod:      method,
		SpecialInstructions: instructions,
	}
	if p, ok := promoFromApplied(promo); ok {
		s.Discount = p.DiscountFor(subtotal)
		s.AppliedPromo = &models.PromoRef{Code: p.Code, Discount: s.Discount}
	}
	s.Total = max(0, s.Subtotal+s.DeliveryFee+s.ServiceFee+s.Tax-s.Discount)
	return s
}
