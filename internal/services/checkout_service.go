package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"kitchen/internal/cart"
	"kitchen/internal/checkout"
	"kitchen/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrUnknownReceiptFormat is returned for receipt formats other than text
// and html.
var ErrUnknownReceiptFormat = errors.New("unknown receipt format")

// CheckoutState is a snapshot of a tab's checkout.
type CheckoutState struct {
	Stage        checkout.Stage          `json:"stage"`
	Cart         CartView                `json:"cart"`
	Promo        *models.AppliedPromo    `json:"appliedPromo,omitempty"`
	PromoExpired bool                    `json:"promoExpired,omitempty"`
	Summary      models.OrderSummary     `json:"summary"`
	Confirmed    bool                    `json:"summaryConfirmed"`
	Delivery     *models.DeliveryDetails `json:"deliveryDetails,omitempty"`
	Placed       *models.PlacedOrder     `json:"lastOrder,omitempty"`
}

// DeliveryResult is returned by the delivery stage.
type DeliveryResult struct {
	Delivery      models.DeliveryDetails `json:"deliveryDetails"`
	Summary       models.OrderSummary    `json:"summary"`
	EstimatedTime string                 `json:"estimatedTime"`
}

// CheckoutService runs the checkout pipeline against client storage.
type CheckoutService struct {
	storage  *Storage
	orders   *OrderService
	validate *validator.Validate
	settings checkout.Settings
	location *time.Location
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(storage *Storage, orders *OrderService, validate *validator.Validate, settings checkout.Settings) *CheckoutService {
	return &CheckoutService{
		storage:  storage,
		orders:   orders,
		validate: validate,
		settings: settings,
		location: time.Local,
	}
}

// session is one loaded pipeline plus the cart it drives.
type session struct {
	pipeline *checkout.Pipeline
	cart     *cart.Cart
}

func (s *CheckoutService) load(ctx context.Context, c Client, now time.Time) (*session, error) {
	crt, err := s.storage.loadCart(ctx, c)
	if err != nil {
		return nil, err
	}
	durable := s.storage.Durable(c)
	var d checkout.Draft
	var promo models.AppliedPromo
	var summary models.OrderSummary
	var delivery models.DeliveryDetails
	var placed models.PlacedOrder
	for _, rec := range []struct {
		key    string
		target any
		set    func()
	}{
		{KeyAppliedPromo, &promo, func() { d.Promo = &promo }},
		{KeyOrderSummary, &summary, func() { d.Summary = &summary }},
		{KeyDeliveryDetails, &delivery, func() { d.Delivery = &delivery }},
		{KeyLastOrder, &placed, func() { d.Placed = &placed }},
	} {
		ok, err := durable.Load(ctx, rec.key, rec.target)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", rec.key, err)
		}
		if ok {
			rec.set()
		}
	}
	p := checkout.New(d, crt, s.settings, now)
	if p.PromoExpired() {
		log.Debug().Str("client", c.ID).Msg("discarding expired promo code")
		if err := durable.Remove(ctx, KeyAppliedPromo); err != nil {
			return nil, err
		}
	}
	return &session{pipeline: p, cart: crt}, nil
}

func (s *CheckoutService) save(ctx context.Context, c Client, sess *session) error {
	d := sess.pipeline.Draft()
	durable := s.storage.Durable(c)
	if err := durable.SaveOrRemove(ctx, KeyAppliedPromo, d.Promo, d.Promo != nil); err != nil {
		return err
	}
	if err := durable.SaveOrRemove(ctx, KeyOrderSummary, d.Summary, d.Summary != nil); err != nil {
		return err
	}
	if err := durable.SaveOrRemove(ctx, KeyDeliveryDetails, d.Delivery, d.Delivery != nil); err != nil {
		return err
	}
	if err := durable.SaveOrRemove(ctx, KeyLastOrder, d.Placed, d.Placed != nil); err != nil {
		return err
	}
	return s.storage.saveCart(ctx, c, sess.cart)
}

// run loads the pipeline, applies fn and saves the draft when fn succeeds.
func (s *CheckoutService) run(ctx context.Context, c Client, fn func(sess *session, now time.Time) error) error {
	unlock := s.storage.Lock(c)
	defer unlock()

	now := s.storage.Now()
	sess, err := s.load(ctx, c, now)
	if err != nil {
		return err
	}
	if err := fn(sess, now); err != nil {
		return err
	}
	return s.save(ctx, c, sess)
}

// State returns the current checkout snapshot.
func (s *CheckoutService) State(ctx context.Context, c Client) (CheckoutState, error) {
	unlock := s.storage.Lock(c)
	defer unlock()

	now := s.storage.Now()
	sess, err := s.load(ctx, c, now)
	if err != nil {
		return CheckoutState{}, err
	}
	d := sess.pipeline.Draft()
	st := CheckoutState{
		Stage:        sess.pipeline.Stage(now),
		Cart:         viewOf(sess.cart),
		Promo:        d.Promo,
		PromoExpired: sess.pipeline.PromoExpired(),
		Summary:      sess.pipeline.Preview(),
		Delivery:     d.Delivery,
		Placed:       d.Placed,
	}
	if d.Summary != nil {
		st.Summary = *d.Summary
		st.Confirmed = true
	}
	return st, nil
}

// ApplyPromo validates a promo code against the current cart.
func (s *CheckoutService) ApplyPromo(ctx context.Context, c Client, code string) (models.AppliedPromo, models.OrderSummary, error) {
	var applied models.AppliedPromo
	var summary models.OrderSummary
	err := s.run(ctx, c, func(sess *session, now time.Time) error {
		var hasOrdered bool
		if _, err := s.storage.Durable(c).Load(ctx, KeyHasOrdered, &hasOrdered); err != nil {
			return err
		}
		var err error
		applied, err = sess.pipeline.ApplyPromo(code, hasOrdered, now)
		if err != nil {
			return err
		}
		summary = currentSummary(sess.pipeline)
		return nil
	})
	return applied, summary, err
}

// RemovePromo drops the applied promo code.
func (s *CheckoutService) RemovePromo(ctx context.Context, c Client) (models.OrderSummary, error) {
	var summary models.OrderSummary
	err := s.run(ctx, c, func(sess *session, _ time.Time) error {
		if err := sess.pipeline.RemovePromo(); err != nil {
			return err
		}
		summary = currentSummary(sess.pipeline)
		return nil
	})
	return summary, err
}

// ConfirmSummary records the order summary for the current cart.
func (s *CheckoutService) ConfirmSummary(ctx context.Context, c Client, req models.SummaryRequest) (models.OrderSummary, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return models.OrderSummary{}, err
	}
	var summary models.OrderSummary
	err := s.run(ctx, c, func(sess *session, _ time.Time) error {
		var err error
		summary, err = sess.pipeline.ConfirmSummary(req.DeliveryMethod, req.SpecialInstructions)
		return err
	})
	return summary, err
}

// Addresses returns the client's address book, seeding it on first use.
func (s *CheckoutService) Addresses(ctx context.Context, c Client) (checkout.AddressBook, error) {
	unlock := s.storage.Lock(c)
	defer unlock()
	return s.loadAddresses(ctx, c)
}

func (s *CheckoutService) loadAddresses(ctx context.Context, c Client) (checkout.AddressBook, error) {
	var book checkout.AddressBook
	ok, err := s.storage.Durable(c).Load(ctx, KeyAddresses, &book)
	if err != nil {
		return nil, err
	}
	if !ok || len(book) == 0 {
		return checkout.DefaultAddresses(), nil
	}
	return book, nil
}

func (s *CheckoutService) updateAddresses(ctx context.Context, c Client, fn func(checkout.AddressBook) (checkout.AddressBook, error)) (checkout.AddressBook, error) {
	unlock := s.storage.Lock(c)
	defer unlock()

	book, err := s.loadAddresses(ctx, c)
	if err != nil {
		return nil, err
	}
	book, err = fn(book)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Durable(c).Save(ctx, KeyAddresses, book); err != nil {
		return nil, err
	}
	return book, nil
}

// AddAddress saves a new address.
func (s *CheckoutService) AddAddress(ctx context.Context, c Client, addr models.Address) (checkout.AddressBook, error) {
	if err := validateStruct(s.validate, addr); err != nil {
		return nil, err
	}
	return s.updateAddresses(ctx, c, func(b checkout.AddressBook) (checkout.AddressBook, error) {
		return b.Add(addr, uuid.NewString()), nil
	})
}

// RemoveAddress deletes an address.
func (s *CheckoutService) RemoveAddress(ctx context.Context, c Client, id string) (checkout.AddressBook, error) {
	return s.updateAddresses(ctx, c, func(b checkout.AddressBook) (checkout.AddressBook, error) {
		return b.Remove(id)
	})
}

// SetDefaultAddress marks an address as the default.
func (s *CheckoutService) SetDefaultAddress(ctx context.Context, c Client, id string) (checkout.AddressBook, error) {
	return s.updateAddresses(ctx, c, func(b checkout.AddressBook) (checkout.AddressBook, error) {
		return b.SetDefault(id)
	})
}

// TimeSlots lists the schedulable slots for a date (YYYY-MM-DD).
func (s *CheckoutService) TimeSlots(date string) ([]string, error) {
	now := s.storage.Now().In(s.location)
	day, err := time.ParseInLocation("2006-01-02", date, s.location)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return checkout.TimeSlots(day, now), nil
}

// ConfirmDelivery records the delivery details.
func (s *CheckoutService) ConfirmDelivery(ctx context.Context, c Client, req models.DeliveryRequest) (DeliveryResult, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return DeliveryResult{}, err
	}
	var res DeliveryResult
	err := s.run(ctx, c, func(sess *session, now time.Time) error {
		book, err := s.loadAddresses(ctx, c)
		if err != nil {
			return err
		}
		d, err := checkout.ResolveDelivery(req, book, now.In(s.location))
		if err != nil {
			return err
		}
		if err := sess.pipeline.ConfirmDelivery(d, req.DeliveryMethod); err != nil {
			return err
		}
		res = DeliveryResult{
			Delivery:      d,
			Summary:       currentSummary(sess.pipeline),
			EstimatedTime: checkout.EstimatedTime(&d),
		}
		return nil
	})
	return res, err
}

// Pay takes the mocked payment, places the order and records it in the
// order history.
func (s *CheckoutService) Pay(ctx context.Context, c Client, req models.PaymentRequest) (checkout.PaymentResult, error) {
	var res checkout.PaymentResult
	err := s.run(ctx, c, func(sess *session, now time.Time) error {
		var err error
		res, err = sess.pipeline.Pay(s.validate, req, now)
		if err != nil {
			return err
		}
		if err := s.storage.Durable(c).Save(ctx, KeyLastPayment, res.LastPayment); err != nil {
			return err
		}
		order := orderFromCheckout(res, sess.pipeline.Draft().Delivery, sess.cart.Lines())
		return s.orders.record(ctx, c, &order)
	})
	if err == nil {
		log.Info().Str("order", res.Placed.OrderID).Int64("amount", res.Payment.Amount).Str("method", res.Payment.Method).Msg("payment completed")
	}
	return res, err
}

// Confirmation returns the receipt data. While processing it returns the
// data together with checkout.ErrProcessing.
func (s *CheckoutService) Confirmation(ctx context.Context, c Client) (checkout.Confirmation, error) {
	unlock := s.storage.Lock(c)
	defer unlock()

	now := s.storage.Now()
	sess, err := s.load(ctx, c, now)
	if err != nil {
		return checkout.Confirmation{}, err
	}
	return sess.pipeline.Confirmation(now)
}

// Receipt renders the receipt for a completed order as text or html.
func (s *CheckoutService) Receipt(ctx context.Context, c Client, format string, w io.Writer) error {
	conf, err := s.Confirmation(ctx, c)
	if err != nil {
		return err
	}
	r := checkout.BuildReceipt(conf, s.location)
	switch format {
	case "", "text":
		return checkout.RenderText(w, r)
	case "html":
		return checkout.RenderHTML(w, r)
	}
	return fmt.Errorf("%w: %s", ErrUnknownReceiptFormat, format)
}

// Track finishes a successful checkout: the cart and the draft are cleared.
func (s *CheckoutService) Track(ctx context.Context, c Client) error {
	return s.run(ctx, c, func(sess *session, now time.Time) error {
		return sess.pipeline.Track(now)
	})
}

func currentSummary(p *checkout.Pipeline) models.OrderSummary {
	if d := p.Draft(); d.Summary != nil {
		return *d.Summary
	}
	return p.Preview()
}

func orderFromCheckout(res checkout.PaymentResult, delivery *models.DeliveryDetails, lines []models.CartLine) models.Order {
	sum := res.Summary
	order := models.Order{
		ID:                  res.Placed.OrderID,
		PlacedAt:            res.Payment.Timestamp,
		Subtotal:            sum.Subtotal,
		DeliveryFee:         sum.DeliveryFee,
		ServiceFee:          sum.ServiceFee,
		Discount:            sum.Discount,
		Total:               sum.Total,
		Status:              models.OrderStatusPending,
		PaymentMethod:       res.Payment.Method,
		CardLast4:           res.LastPayment.Last4,
		TransactionID:       res.Payment.TransactionID,
		DeliveryMethod:      sum.DeliveryMethod,
		EstimatedTime:       checkout.EstimatedTime(delivery),
		SpecialInstructions: sum.SpecialInstructions,
	}
	switch {
	case sum.DeliveryMethod == models.DeliveryMethodPickup:
		order.DeliveryAddress = "Pickup at Restaurant"
	case delivery != nil:
		order.DeliveryAddress = delivery.Address.Address
	}
	for _, l := range lines {
		order.Items = append(order.Items, models.OrderItem{
			Name:     l.FoodItem.Name,
			Quantity: l.Quantity,
			Price:    l.UnitPrice(),
			Image:    l.FoodItem.Image,
			Options:  checkout.LineOptions(l),
		})
	}
	return order
}
