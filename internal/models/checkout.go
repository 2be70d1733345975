package models

import "time"

// Delivery methods.
const (
	DeliveryMethodDelivery = "delivery"
	DeliveryMethodPickup   = "pickup"
)

// Promo types.
const (
	PromoPercentage = "percentage"
	PromoFixed      = "fixed"
)

// Payment methods.
const (
	PaymentCard     = "card"
	PaymentBank     = "bank"
	PaymentTransfer = "transfer"
)

// PromoRef is the short promo record carried inside an OrderSummary.
type PromoRef struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
}

// OrderSummary is the priced order draft produced at the summary stage.
type OrderSummary struct {
	Subtotal            int64     `json:"subtotal"`
	DeliveryFee         int64     `json:"deliveryFee"`
	ServiceFee          int64     `json:"serviceFee"`
	Discount            int64     `json:"discount"`
	Tax                 int64     `json:"tax"`
	Total               int64     `json:"total"`
	DeliveryMethod      string    `json:"deliveryMethod"`
	SpecialInstructions string    `json:"specialInstructions"`
	AppliedPromo        *PromoRef `json:"appliedPromo"`
}

// AppliedPromo is a validated promo code with its expiry.
type AppliedPromo struct {
	Code        string    `json:"code"`
	Discount    float64   `json:"discount"` // rate for percentage, naira for fixed
	Type        string    `json:"type"`
	MaxDiscount int64     `json:"maxDiscount,omitempty"`
	Description string    `json:"description"`
	AppliedAt   time.Time `json:"appliedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Address is an entry in the client's delivery address book.
type Address struct {
	ID        string `json:"id"`
	Type      string `json:"type" validate:"required,oneof=home work other"`
	Label     string `json:"label" validate:"omitempty,max=50"`
	Address   string `json:"address" validate:"required,min=5,max=300"`
	Details   string `json:"details" validate:"omitempty,max=300"`
	IsDefault bool   `json:"isDefault"`
}

// DeliveryDetails is produced at the delivery stage.
type DeliveryDetails struct {
	Address       Address `json:"address"`
	DeliveryTime  string  `json:"deliveryTime"`
	ScheduledDate string  `json:"scheduledDate,omitempty"`
	ScheduledTime string  `json:"scheduledTime,omitempty"`
	Instructions  string  `json:"instructions"`
	ContactPhone  string  `json:"contactPhone"`
}

// PaymentData is handed from the payment stage to confirmation.
type PaymentData struct {
	Method        string    `json:"method"`
	Amount        int64     `json:"amount"`
	TransactionID string    `json:"transactionId"`
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
}

// LastPayment is the informational record kept after paying.
type LastPayment struct {
	Method    string    `json:"method"`
	Last4     string    `json:"last4,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PlacedOrder marks a paid checkout. The order is processing until ReadyAt.
type PlacedOrder struct {
	OrderID string      `json:"orderId"`
	Payment PaymentData `json:"payment"`
	ReadyAt time.Time   `json:"readyAt"`
}

// PromoRequest represents the request body for applying a promo code.
type PromoRequest struct {
	Code string `json:"code"`
}

// SummaryRequest represents the request body for confirming the order summary.
type SummaryRequest struct {
	DeliveryMethod      string `json:"deliveryMethod" validate:"omitempty,oneof=delivery pickup"`
	SpecialInstructions string `json:"specialInstructions" validate:"omitempty,max=500"`
}

// DeliveryRequest represents the request body for the delivery stage.
type DeliveryRequest struct {
	AddressID      string `json:"addressId" validate:"required"`
	DeliveryTime   string `json:"deliveryTime" validate:"required"`
	ScheduledDate  string `json:"scheduledDate"`
	ScheduledTime  string `json:"scheduledTime"`
	Instructions   string `json:"instructions" validate:"omitempty,max=500"`
	ContactPhone   string `json:"contactPhone" validate:"omitempty,ng_phone"`
	DeliveryMethod string `json:"deliveryMethod" validate:"omitempty,oneof=delivery pickup"`
}

// CardDetails holds the card fields entered at payment.
type CardDetails struct {
	Number   string `json:"number" validate:"required,card_number"`
	Expiry   string `json:"expiry" validate:"required,card_expiry"`
	CVV      string `json:"cvv" validate:"required,len=3,numeric"`
	Name     string `json:"name" validate:"required,min=3"`
	SaveCard bool   `json:"saveCard"`
}

// PaymentRequest represents the request body for the payment stage.
type PaymentRequest struct {
	Method string       `json:"method" validate:"required,oneof=card bank transfer"`
	Card   *CardDetails `json:"card"`
}
