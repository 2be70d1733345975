package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"kitchen/internal/models"
	"kitchen/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Order event routing.
const (
	OrderExchange         = "orders"
	RoutingOrderPlaced    = "order.placed"
	RoutingStatusUpdated  = "order.status_updated"
	orderEventContentType = "application/json"
)

// knownProteins are the option names Reorder treats as a protein choice.
var knownProteins = []string{"Fried Chicken", "Grilled Fish", "Beef", "Smoked Chicken"}

// EventPublisher publishes order events. A nil publisher disables events.
type EventPublisher interface {
	Publish(exchange, routingKey, contentType string, body []byte) error
}

// OrderEvent is the message body published for order events.
type OrderEvent struct {
	ClientID string    `json:"clientId"`
	OrderID  string    `json:"orderId"`
	Status   string    `json:"status"`
	Total    int64     `json:"total"`
	Items    int       `json:"items"`
	At       time.Time `json:"at"`
}

// OrderService handles the order history.
type OrderService struct {
	orderRepo repositories.OrderRepository
	storage   *Storage
	menu      *MenuService
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, storage *Storage, menu *MenuService, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		storage:   storage,
		menu:      menu,
		publisher: publisher,
	}
}

// List returns the client's orders newest first, followed by the sample
// history every account starts with.
func (s *OrderService) List(ctx context.Context, c Client) ([]models.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx, c.durableNamespace())
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(orders, func(a, b models.Order) int {
		return b.PlacedAt.Compare(a.PlacedAt)
	})
	return append(orders, SampleOrders()...), nil
}

// Get returns a single order from the client's history or the samples.
func (s *OrderService) Get(ctx context.Context, c Client, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, c.durableNamespace(), id)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, repositories.ErrOrderNotFound) {
		return nil, err
	}
	for _, o := range SampleOrders() {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, err
}

// Reorder adds every item of a past order to the tab's cart.
func (s *OrderService) Reorder(ctx context.Context, c Client, id string) (CartView, error) {
	order, err := s.Get(ctx, c, id)
	if err != nil {
		return CartView{}, err
	}

	unlock := s.storage.Lock(c)
	defer unlock()

	crt, err := s.storage.loadCart(ctx, c)
	if err != nil {
		return CartView{}, err
	}
	for _, item := range order.Items {
		crt.AddLine(s.lineFromOrderItem(item))
	}
	if err := s.storage.saveCart(ctx, c, crt); err != nil {
		return CartView{}, err
	}
	return viewOf(crt), nil
}

// lineFromOrderItem rebuilds a cart line from a past order item. Options
// naming a known protein become the protein; the rest become sides. The
// historic unit price is kept.
func (s *OrderService) lineFromOrderItem(item models.OrderItem) models.CartLine {
	qty := max(item.Quantity, 1)
	line := models.CartLine{
		ID:            uuid.NewString(),
		Quantity:      qty,
		SelectedSides: []string{},
		TotalPrice:    item.Price * int64(qty),
	}

	food, found := s.menu.FindByName(item.Name)
	if !found {
		food = &models.FoodItem{
			ID:    slug(item.Name),
			Name:  item.Name,
			Price: item.Price,
			Image: item.Image,
		}
	}
	line.FoodItem = *food

	for _, opt := range item.Options {
		if slices.Contains(knownProteins, opt) {
			id := optionID(opt, food.ProteinOptions, func(p models.ProteinOption) (string, string) { return p.ID, p.Name })
			if !found {
				line.FoodItem.ProteinOptions = append(line.FoodItem.ProteinOptions, models.ProteinOption{ID: id, Name: opt})
			}
			line.SelectedProtein = id
			continue
		}
		id := optionID(opt, food.SideOptions, func(o models.SideOption) (string, string) { return o.ID, o.Name })
		if !found {
			line.FoodItem.SideOptions = append(line.FoodItem.SideOptions, models.SideOption{ID: id, Name: opt})
		}
		line.SelectedSides = append(line.SelectedSides, id)
	}
	return line
}

func optionID[T any](name string, opts []T, idName func(T) (string, string)) string {
	for _, o := range opts {
		if id, n := idName(o); strings.EqualFold(n, name) {
			return id
		}
	}
	return slug(name)
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// record appends an order to the history, marks the client as having
// ordered and publishes order.placed. Callers hold the tab lock.
func (s *OrderService) record(ctx context.Context, c Client, order *models.Order) error {
	if err := s.orderRepo.Create(ctx, c.durableNamespace(), order); err != nil {
		return fmt.Errorf("failed to record order: %w", err)
	}
	if err := s.storage.Durable(c).Save(ctx, KeyHasOrdered, true); err != nil {
		return err
	}
	s.publish(RoutingOrderPlaced, c, order)
	return nil
}

// Record appends an order to the client's history.
func (s *OrderService) Record(ctx context.Context, c Client, order *models.Order) error {
	unlock := s.storage.Lock(c)
	defer unlock()
	return s.record(ctx, c, order)
}

// UpdateStatus moves one of the client's orders to a new status.
func (s *OrderService) UpdateStatus(ctx context.Context, c Client, id, status string) (*models.Order, error) {
	order, err := s.orderRepo.UpdateStatus(ctx, c.durableNamespace(), id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	s.publish(RoutingStatusUpdated, c, order)
	return order, nil
}

func (s *OrderService) publish(routingKey string, c Client, order *models.Order) {
	if s.publisher == nil {
		log.Debug().Str("order", order.ID).Msg("event publisher not configured, skipping order event")
		return
	}
	body, err := json.Marshal(OrderEvent{
		ClientID: c.ID,
		OrderID:  order.ID,
		Status:   order.Status,
		Total:    order.Total,
		Items:    len(order.Items),
		At:       s.storage.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("order", order.ID).Msg("failed to marshal order event")
		return
	}
	if err := s.publisher.Publish(OrderExchange, routingKey, orderEventContentType, body); err != nil {
		log.Warn().Err(err).Str("order", order.ID).Str("routing_key", routingKey).Msg("failed to publish order event")
		return
	}
	log.Debug().Str("order", order.ID).Str("routing_key", routingKey).Msg("published order event")
}

// SampleOrders is the history shown to every client after their own orders.
func SampleOrders() []models.Order {
	return []models.Order{
		{
			ID:       "ORD-123456",
			PlacedAt: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
			Items: []models.OrderItem{
				{Name: "Jollof Rice & Fried Chicken", Quantity: 2, Price: 3500, Image: "/images/jollof-rice-chicken.jpg", Options: []string{"Fried Chicken", "Extra Pepper Sauce"}},
				{Name: "Egusi Soup & Pounded Yam", Quantity: 1, Price: 3500, Image: "/images/egusi-pounded-yam.jpg", Options: []string{"Beef", "Fried Plantain"}},
			},
			Subtotal: 10500, DeliveryFee: 500, ServiceFee: 200, Total: 11200,
			Status: models.OrderStatusDelivered, PaymentMethod: models.PaymentCard, CardLast4: "4242",
			DeliveryAddress: "123 Main Street, Victoria Island, Lagos", DeliveryMethod: models.DeliveryMethodDelivery,
			EstimatedTime: "30-45 mins", SpecialInstructions: "Please make the food extra spicy",
		},
		{
			ID:       "ORD-123455",
			PlacedAt: time.Date(2024, 1, 10, 19, 15, 0, 0, time.UTC),
			Items: []models.OrderItem{
				{Name: "Spicy Tilapia Pepper Soup", Quantity: 1, Price: 3500, Image: "/images/tilapia-pepper-soup.jpg", Options: []string{}},
			},
			Subtotal: 3500, DeliveryFee: 500, ServiceFee: 200, Total: 4200,
			Status: models.OrderStatusDelivered, PaymentMethod: models.PaymentTransfer,
			DeliveryAddress: "45 Adeola Odeku Street, Victoria Island, Lagos", DeliveryMethod: models.DeliveryMethodDelivery,
			EstimatedTime: "40-50 mins",
		},
		{
			ID:       "ORD-123454",
			PlacedAt: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
			Items: []models.OrderItem{
				{Name: "Jollof Rice & Smoked Chicken", Quantity: 1, Price: 3500, Image: "/images/jollof-rice-smoked.jpg", Options: []string{"Smoked Chicken"}},
				{Name: "Chin Chin", Quantity: 2, Price: 800, Image: "/images/chin-chin.jpg", Options: []string{}},
				{Name: "Puff Puff", Quantity: 1, Price: 600, Image: "/images/puff-puff.jpg", Options: []string{}},
			},
			Subtotal: 5700, ServiceFee: 200, Total: 5900,
			Status: models.OrderStatusDelivered, PaymentMethod: models.PaymentTransfer,
			DeliveryAddress: "Pickup at Restaurant", DeliveryMethod: models.DeliveryMethodPickup,
			EstimatedTime: "15-20 mins",
		},
	}
}
