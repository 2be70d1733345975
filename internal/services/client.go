package services

import (
	"context"
	"sync"
	"time"

	"kitchen/internal/cart"
	"kitchen/internal/models"
	"kitchen/internal/repositories"
	"kitchen/internal/validation"

	"github.com/go-playground/validator/v10"
)

// Storage keys. Everything except the cart and a non-remembered session
// lives in the client's durable scope.
const (
	KeySession             = "session"
	KeyUser                = "user"
	KeyPendingVerification = "pendingVerification"
	KeyAppliedPromo        = "appliedPromo"
	KeyOrderSummary        = "orderSummary"
	KeyDeliveryDetails     = "deliveryDetails"
	KeyAddresses           = "addresses"
	KeyLastPayment         = "lastPayment"
	KeyLastOrder           = "lastOrder"
	KeyHasOrdered          = "hasOrdered"
	KeyCart                = "cart"
)

// DefaultTabID is used when a request carries no tab id.
const DefaultTabID = "main"

// Client identifies one browser (durable scope) and one of its tabs (tab
// scope).
type Client struct {
	ID    string
	TabID string
}

func (c Client) durableNamespace() string {
	return "client:" + c.ID
}

func (c Client) tabNamespace() string {
	tab := c.TabID
	if tab == "" {
		tab = DefaultTabID
	}
	return "client:" + c.ID + ":tab:" + tab
}

// Storage gives services access to a client's two scopes and serialises
// each tab's read-modify-write sequences.
type Storage struct {
	durable repositories.StorageRepository
	tab     repositories.StorageRepository
	locks   *keyedMutex
	now     func() time.Time
}

// NewStorage creates a Storage over a durable and a tab-scoped repository.
func NewStorage(durable, tab repositories.StorageRepository) *Storage {
	return &Storage{
		durable: durable,
		tab:     tab,
		locks:   newKeyedMutex(),
		now:     time.Now,
	}
}

// SetClock replaces the time source.
func (s *Storage) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the current time from the configured clock.
func (s *Storage) Now() time.Time {
	return s.now()
}

// Durable returns the client's durable scope.
func (s *Storage) Durable(c Client) repositories.Scope {
	return repositories.NewScope(s.durable, c.durableNamespace())
}

// Tab returns the client's tab scope.
func (s *Storage) Tab(c Client) repositories.Scope {
	return repositories.NewScope(s.tab, c.tabNamespace())
}

// Lock serialises work on one tab. The returned func releases it.
func (s *Storage) Lock(c Client) func() {
	return s.locks.Lock(c.tabNamespace())
}

type cartRecord struct {
	Lines []models.CartLine `json:"lines"`
	Open  bool              `json:"open"`
}

func (s *Storage) loadCart(ctx context.Context, c Client) (*cart.Cart, error) {
	var rec cartRecord
	if _, err := s.Tab(c).Load(ctx, KeyCart, &rec); err != nil {
		return nil, err
	}
	crt := cart.FromLines(rec.Lines)
	crt.SetOpen(rec.Open)
	return crt, nil
}

func (s *Storage) saveCart(ctx context.Context, c Client, crt *cart.Cart) error {
	if crt.Len() == 0 && !crt.IsOpen() {
		return s.Tab(c).Remove(ctx, KeyCart)
	}
	return s.Tab(c).Save(ctx, KeyCart, cartRecord{Lines: crt.Lines(), Open: crt.IsOpen()})
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func validateStruct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return validation.Translate(err)
	}
	return nil
}
