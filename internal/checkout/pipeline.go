// Package checkout implements the checkout pipeline as an explicit state
// machine over the order draft:
//
//	cart -> summary -> delivery -> payment -> processing -> success
//
// Each stage's output is kept in the Draft, which callers load from and save
// to client storage around every transition.
package checkout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kitchen/internal/cart"
	"kitchen/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrEmptyCart    = errors.New("your cart is empty")
	ErrStageSkipped = errors.New("checkout stage skipped")
	ErrOrderPlaced  = errors.New("an order is already in progress")
	ErrProcessing   = errors.New("payment is still processing")
)

// Settings tunes the pipeline timers.
type Settings struct {
	ProcessingDelay time.Duration
	PromoTTL        time.Duration
}

// DefaultSettings matches the storefront: 3s processing, 24h promo codes.
func DefaultSettings() Settings {
	return Settings{ProcessingDelay: 3 * time.Second, PromoTTL: 24 * time.Hour}
}

// Draft is the accumulated checkout state. A nil field means that stage has
// not produced output yet.
type Draft struct {
	Promo    *models.AppliedPromo    `json:"appliedPromo,omitempty"`
	Summary  *models.OrderSummary    `json:"orderSummary,omitempty"`
	Delivery *models.DeliveryDetails `json:"deliveryDetails,omitempty"`
	Placed   *models.PlacedOrder     `json:"lastOrder,omitempty"`
}

// PaymentResult is everything the payment stage produces.
type PaymentResult struct {
	Payment     models.PaymentData
	LastPayment models.LastPayment
	Placed      models.PlacedOrder
	Summary     models.OrderSummary
}

// Confirmation is the data behind the confirmation page and receipts.
type Confirmation struct {
	OrderID  string                  `json:"orderId"`
	Stage    Stage                   `json:"stage"`
	Payment  models.PaymentData      `json:"payment"`
	Summary  models.OrderSummary     `json:"summary"`
	Delivery *models.DeliveryDetails `json:"deliveryDetails,omitempty"`
	Lines    []models.CartLine       `json:"lines"`
	ReadyAt  time.Time               `json:"readyAt"`
}

// Pipeline drives one tab's checkout over its cart.
type Pipeline struct {
	draft        Draft
	cart         *cart.Cart
	settings     Settings
	promoExpired bool
}

// New builds a pipeline from a loaded draft. An applied promo that has
// expired at now is dropped.
func New(d Draft, c *cart.Cart, s Settings, now time.Time) *Pipeline {
	p := &Pipeline{draft: d, cart: c, settings: s}
	if d.Promo != nil {
		if _, known := promoFromApplied(d.Promo); !known || !now.Before(d.Promo.ExpiresAt) {
			p.draft.Promo = nil
			p.promoExpired = true
		}
	}
	return p
}

// Draft returns the current draft for saving.
func (p *Pipeline) Draft() Draft { return p.draft }

// PromoExpired reports whether New discarded a stale promo.
func (p *Pipeline) PromoExpired() bool { return p.promoExpired }

// Stage derives the current stage from the draft.
func (p *Pipeline) Stage(now time.Time) Stage {
	switch {
	case p.draft.Placed != nil:
		if now.Before(p.draft.Placed.ReadyAt) {
			return StageProcessing
		}
		return StageSuccess
	case p.draft.Summary != nil && p.draft.Delivery != nil:
		return StagePayment
	case p.draft.Summary != nil:
		return StageDelivery
	case p.cart.Len() > 0:
		return StageSummary
	}
	return StageCart
}

// Preview prices the current cart with the applied promo and the chosen
// delivery method, without confirming anything.
func (p *Pipeline) Preview() models.OrderSummary {
	method, instructions := models.DeliveryMethodDelivery, ""
	if p.draft.Summary != nil {
		method, instructions = p.draft.Summary.DeliveryMethod, p.draft.Summary.SpecialInstructions
	}
	return Price(p.cart.Total(), p.draft.Promo, method, instructions)
}

// ApplyPromo validates and applies a promo code.
func (p *Pipeline) ApplyPromo(code string, hasOrdered bool, now time.Time) (models.AppliedPromo, error) {
	if p.draft.Placed != nil {
		return models.AppliedPromo{}, ErrOrderPlaced
	}
	code = NormalizePromoCode(code)
	if code == "" {
		return models.AppliedPromo{}, ErrPromoEmpty
	}
	if p.draft.Promo != nil && p.draft.Promo.Code == code {
		return models.AppliedPromo{}, ErrPromoAlreadyApplied
	}
	promo, ok := LookupPromo(code)
	if !ok {
		return models.AppliedPromo{}, ErrPromoInvalid
	}
	if promo.FirstOrderOnly && hasOrdered {
		return models.AppliedPromo{}, ErrPromoFirstOrderOnly
	}
	applied := promo.Apply(now, p.settings.PromoTTL)
	p.draft.Promo = &applied
	p.reprice()
	return applied, nil
}

// RemovePromo drops the applied promo.
func (p *Pipeline) RemovePromo() error {
	if p.draft.Placed != nil {
		return ErrOrderPlaced
	}
	p.draft.Promo = nil
	p.reprice()
	return nil
}

// ConfirmSummary prices the cart and records the order summary.
func (p *Pipeline) ConfirmSummary(method, instructions string) (models.OrderSummary, error) {
	if p.draft.Placed != nil {
		return models.OrderSummary{}, ErrOrderPlaced
	}
	if p.cart.Len() == 0 {
		return models.OrderSummary{}, ErrEmptyCart
	}
	s := Price(p.cart.Total(), p.draft.Promo, method, strings.TrimSpace(instructions))
	p.draft.Summary = &s
	return s, nil
}

// ConfirmDelivery records delivery details. A non-empty method that differs
// from the summary's re-prices the summary.
func (p *Pipeline) ConfirmDelivery(d models.DeliveryDetails, method string) error {
	if p.draft.Placed != nil {
		return ErrOrderPlaced
	}
	if p.draft.Summary == nil {
		return fmt.Errorf("%w: confirm the order summary first", ErrStageSkipped)
	}
	if method != "" && NormalizeMethod(method) != p.draft.Summary.DeliveryMethod {
		s := Price(p.cart.Total(), p.draft.Promo, method, p.draft.Summary.SpecialInstructions)
		p.draft.Summary = &s
	}
	p.draft.Delivery = &d
	return nil
}

// Pay validates the payment and places the order. The amount charged is the
// summary total re-priced against the current cart, so promo discounts and
// the pickup fee carry through to payment.
func (p *Pipeline) Pay(v *validator.Validate, req models.PaymentRequest, now time.Time) (PaymentResult, error) {
	switch {
	case p.draft.Placed != nil:
		return PaymentResult{}, ErrOrderPlaced
	case p.draft.Summary == nil:
		return PaymentResult{}, fmt.Errorf("%w: confirm the order summary first", ErrStageSkipped)
	case p.draft.Delivery == nil:
		return PaymentResult{}, fmt.Errorf("%w: confirm delivery details first", ErrStageSkipped)
	case p.cart.Len() == 0:
		return PaymentResult{}, ErrEmptyCart
	}
	if err := ValidatePayment(v, req, now); err != nil {
		return PaymentResult{}, err
	}

	p.reprice()
	summary := *p.draft.Summary
	payment := models.PaymentData{
		Method:        req.Method,
		Amount:        summary.Total,
		TransactionID: "TXN-" + strconv.FormatInt(now.UnixMilli(), 10),
		Timestamp:     now,
		Status:        "completed",
	}
	last := models.LastPayment{Method: req.Method, Timestamp: now}
	if req.Method == models.PaymentCard {
		last.Last4 = CardLast4(req.Card.Number)
	}
	placed := models.PlacedOrder{
		OrderID: "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
		Payment: payment,
		ReadyAt: now.Add(p.settings.ProcessingDelay),
	}
	p.draft.Placed = &placed
	return PaymentResult{Payment: payment, LastPayment: last, Placed: placed, Summary: summary}, nil
}

// Confirmation returns the receipt data once payment has been placed. It
// reports ErrProcessing while the processing window is open.
func (p *Pipeline) Confirmation(now time.Time) (Confirmation, error) {
	if p.draft.Placed == nil {
		return Confirmation{}, fmt.Errorf("%w: no payment has been made", ErrStageSkipped)
	}
	stage := p.Stage(now)
	c := Confirmation{
		OrderID:  p.draft.Placed.OrderID,
		Stage:    stage,
		Payment:  p.draft.Placed.Payment,
		Delivery: p.draft.Delivery,
		Lines:    p.cart.Lines(),
		ReadyAt:  p.draft.Placed.ReadyAt,
	}
	if p.draft.Summary != nil {
		c.Summary = *p.draft.Summary
	} else {
		c.Summary = p.Preview()
	}
	if stage == StageProcessing {
		return c, ErrProcessing
	}
	return c, nil
}

// Track ends a successful checkout: the cart is cleared and the draft reset.
func (p *Pipeline) Track(now time.Time) error {
	switch p.Stage(now) {
	case StageSuccess:
	case StageProcessing:
		return ErrProcessing
	default:
		return fmt.Errorf("%w: no payment has been made", ErrStageSkipped)
	}
	p.cart.Clear()
	p.draft = Draft{}
	return nil
}

// reprice refreshes a confirmed summary after the promo or cart changed.
func (p *Pipeline) reprice() {
	if p.draft.Summary == nil {
		return
	}
	s := Price(p.cart.Total(), p.draft.Promo, p.draft.Summary.DeliveryMethod, p.draft.Summary.SpecialInstructions)
	p.draft.Summary = &s
}
