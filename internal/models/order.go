package models

import "time"

// Order statuses shown in the order history.
const (
	OrderStatusPending        = "pending"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out-for-delivery"
	OrderStatusDelivered      = "delivered"
)

// OrderItem represents a single item within a past order.
type OrderItem struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Price    int64    `json:"price"` // unit price at the time of order
	Image    string   `json:"image,omitempty"`
	Options  []string `json:"options"`
}

// Order represents a placed order kept in the client's history.
type Order struct {
	ID                  string      `json:"id"`
	PlacedAt            time.Time   `json:"placedAt"`
	Items               []OrderItem `json:"items"`
	Subtotal            int64       `json:"subtotal"`
	DeliveryFee         int64       `json:"deliveryFee"`
	ServiceFee          int64       `json:"serviceFee"`
	Discount            int64       `json:"discount"`
	Total               int64       `json:"total"`
	Status              string      `json:"status"`
	PaymentMethod       string      `json:"paymentMethod"`
	CardLast4           string      `json:"cardLast4,omitempty"`
	TransactionID       string      `json:"transactionId,omitempty"`
	DeliveryAddress     string      `json:"deliveryAddress,omitempty"`
	DeliveryMethod      string      `json:"deliveryMethod"`
	EstimatedTime       string      `json:"estimatedTime,omitempty"`
	SpecialInstructions string      `json:"specialInstructions,omitempty"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

// UpdateOrderStatusRequest is the body for moving an order along.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending preparing out-for-delivery delivered"`
}
