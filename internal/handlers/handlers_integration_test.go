package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kitchen/internal/app"
	"kitchen/internal/checkout"
	"kitchen/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app *fiber.App
	now time.Time
}

// setupApp builds the app over an in-memory SQLite database with a fixed
// clock.
func setupApp(t *testing.T) *testServer {
	t.Helper()

	db, err := app.OpenDB("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, app.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	s := &testServer{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	s.app = app.Build(app.Deps{
		DB:        db,
		JWTSecret: "test_jwt_secret",
		Settings:  checkout.DefaultSettings(),
		Now:       func() time.Time { return s.now },
	})
	return s
}

type response struct {
	status int
	header http.Header
	raw    []byte
	body   map[string]any
}

func (s *testServer) do(t *testing.T, method, path string, body any) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderClientID, "client-1")
	req.Header.Set(middleware.HeaderTabID, "tab-1")

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	r := response{status: resp.StatusCode, header: resp.Header, raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &r.body))
	}
	return r
}

func (s *testServer) signIn(t *testing.T) {
	t.Helper()
	r := s.do(t, http.MethodPost, "/api/v1/auth/signin", map[string]any{
		"email":    "ada@example.com",
		"password": "whatever",
	})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.NotEmpty(t, r.body["token"])
}

func TestHealthCheck(t *testing.T) {
	s := setupApp(t)

	r := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "healthy", r.body["status"])
	assert.Equal(t, "client-1", r.header.Get(middleware.HeaderClientID))
}

func TestClientIDIsAssigned(t *testing.T) {
	s := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(middleware.HeaderClientID))
}

func TestMenuRoutes(t *testing.T) {
	s := setupApp(t)

	r := s.do(t, http.MethodGet, "/api/v1/menu/categories", nil)
	require.Equal(t, http.StatusOK, r.status)
	var cats []map[string]any
	require.NoError(t, json.Unmarshal(r.raw, &cats))
	require.NotEmpty(t, cats)
	assert.Equal(t, "Popular", cats[0]["name"])

	r = s.do(t, http.MethodGet, "/api/v1/menu/items?category=Popular", nil)
	require.Equal(t, http.StatusOK, r.status)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(r.raw, &items))
	assert.Len(t, items, 6)

	r = s.do(t, http.MethodGet, "/api/v1/menu/items/jollof-rice-fried-chicken", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, float64(3500), r.body["price"])

	r = s.do(t, http.MethodGet, "/api/v1/menu/items/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, r.status)
}

func TestCartRoutes(t *testing.T) {
	s := setupApp(t)

	r := s.do(t, http.MethodPost, "/api/v1/cart/lines", map[string]any{
		"foodItemId":    "jollof-rice-fried-chicken",
		"quantity":      1,
		"selectedSides": []string{"fried-plantain", "coleslaw"},
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	assert.Equal(t, float64(4300), r.body["total"])
	lines := r.body["lines"].([]any)
	require.Len(t, lines, 1)
	lineID := lines[0].(map[string]any)["id"].(string)

	r = s.do(t, http.MethodPatch, "/api/v1/cart/lines/"+lineID, map[string]any{"quantity": 2})
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, float64(8600), r.body["total"])
	assert.Equal(t, float64(2), r.body["count"])

	r = s.do(t, http.MethodPost, "/api/v1/cart/lines", map[string]any{
		"foodItemId":      "jollof-rice-fried-chicken",
		"selectedProtein": "lobster",
	})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Contains(t, r.body["errors"], "selectedProtein")

	r = s.do(t, http.MethodDelete, "/api/v1/cart/lines/"+lineID, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, float64(0), r.body["count"])
}

func TestSignUpValidation(t *testing.T) {
	s := setupApp(t)

	r := s.do(t, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"email":           "not-an-email",
		"phone":           "12345",
		"password":        "weak",
		"confirmPassword": "different",
	})
	require.Equal(t, http.StatusBadRequest, r.status)
	errs := r.body["errors"].(map[string]any)
	for _, field := range []string{"email", "phone", "password", "confirmPassword", "agreed"} {
		assert.Contains(t, errs, field)
	}

	r = s.do(t, http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"email":           "ada@example.com",
		"phone":           "0803 123 4567",
		"password":        "Secret123",
		"confirmPassword": "Secret123",
		"agreed":          true,
	})
	assert.Equal(t, http.StatusCreated, r.status, string(r.raw))

	// Sign-up does not sign the client in.
	r = s.do(t, http.MethodGet, "/api/v1/account", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
}

var protectedRoutes = []struct {
	method string
	path   string
}{
	{http.MethodGet, "/api/v1/account"},
	{http.MethodGet, "/api/v1/orders"},
	{http.MethodGet, "/api/v1/orders/ORD-123456"},
	{http.MethodGet, "/api/v1/checkout"},
	{http.MethodPost, "/api/v1/checkout/promo"},
	{http.MethodPost, "/api/v1/checkout/summary"},
	{http.MethodGet, "/api/v1/checkout/addresses"},
	{http.MethodPost, "/api/v1/checkout/delivery"},
	{http.MethodPost, "/api/v1/checkout/payment"},
	{http.MethodGet, "/api/v1/checkout/confirmation"},
	{http.MethodGet, "/api/v1/checkout/receipt"},
	{http.MethodPost, "/api/v1/checkout/track"},
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := setupApp(t)

	for _, route := range protectedRoutes {
		r := s.do(t, route.method, route.path, map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, r.status, route.path)
		assert.Equal(t, "/signin", r.body["redirect"], route.path)
	}
}

func TestExpiredSessionSignsOut(t *testing.T) {
	s := setupApp(t)
	s.signIn(t)

	r := s.do(t, http.MethodGet, "/api/v1/account", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "ada@example.com", r.body["email"])

	s.now = s.now.Add(25 * time.Hour)

	for _, route := range protectedRoutes {
		r := s.do(t, route.method, route.path, map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, r.status, route.path)
	}
}

func TestBearerTokenMustMatchSession(t *testing.T) {
	s := setupApp(t)
	s.signIn(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set(middleware.HeaderClientID, "client-1")
	req.Header.Set(middleware.HeaderTabID, "tab-1")
	req.Header.Set("Authorization", "Bearer forged")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCheckoutStageSkipConflicts(t *testing.T) {
	s := setupApp(t)
	s.signIn(t)

	r := s.do(t, http.MethodPost, "/api/v1/checkout/summary", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, r.status, "empty cart")

	r = s.do(t, http.MethodPost, "/api/v1/cart/lines", map[string]any{"foodItemId": "chin-chin"})
	require.Equal(t, http.StatusCreated, r.status)

	r = s.do(t, http.MethodPost, "/api/v1/checkout/delivery", map[string]any{
		"addressId":    "home",
		"deliveryTime": checkout.DeliveryASAP,
	})
	assert.Equal(t, http.StatusConflict, r.status)

	r = s.do(t, http.MethodPost, "/api/v1/checkout/payment", map[string]any{"method": "transfer"})
	assert.Equal(t, http.StatusConflict, r.status)

	r = s.do(t, http.MethodPost, "/api/v1/checkout/track", nil)
	assert.Equal(t, http.StatusConflict, r.status)
}

func TestCheckoutFlow(t *testing.T) {
	s := setupApp(t)
	s.signIn(t)

	r := s.do(t, http.MethodPost, "/api/v1/cart/lines", map[string]any{
		"foodItemId": "jollof-rice-fried-chicken",
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, r.status)

	r = s.do(t, http.MethodPost, "/api/v1/checkout/promo", map[string]any{"code": "BOGUS"})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Contains(t, r.body["errors"], "promoCode")

	r = s.do(t, http.MethodPost, "/api/v1/checkout/promo", map[string]any{"code": "welcome10"})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	summary := r.body["summary"].(map[string]any)
	assert.Equal(t, float64(700), summary["discount"])
	assert.Equal(t, float64(7000), summary["total"])

	r = s.do(t, http.MethodPost, "/api/v1/checkout/summary", map[string]any{"deliveryMethod": "delivery"})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))

	r = s.do(t, http.MethodGet, "/api/v1/checkout/addresses", nil)
	require.Equal(t, http.StatusOK, r.status)
	var book []map[string]any
	require.NoError(t, json.Unmarshal(r.raw, &book))
	assert.Len(t, book, 2)

	r = s.do(t, http.MethodPost, "/api/v1/checkout/delivery", map[string]any{
		"addressId":    "home",
		"deliveryTime": "whenever",
	})
	assert.Equal(t, http.StatusBadRequest, r.status)

	r = s.do(t, http.MethodPost, "/api/v1/checkout/delivery", map[string]any{
		"addressId":    "home",
		"deliveryTime": checkout.DeliveryASAP,
	})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))

	r = s.do(t, http.MethodPost, "/api/v1/checkout/payment", map[string]any{
		"method": "card",
		"card":   map[string]any{"number": "1234", "expiry": "13/99", "cvv": "1", "name": "A"},
	})
	require.Equal(t, http.StatusBadRequest, r.status)
	errs := r.body["errors"].(map[string]any)
	for _, field := range []string{"number", "expiry", "cvv", "name"} {
		assert.Contains(t, errs, field)
	}

	r = s.do(t, http.MethodPost, "/api/v1/checkout/payment", map[string]any{
		"method": "card",
		"card":   map[string]any{"number": "4242 4242 4242 4242", "expiry": "12/30", "cvv": "123", "name": "Ada Obi"},
	})
	require.Equal(t, http.StatusAccepted, r.status, string(r.raw))
	orderID := r.body["orderId"].(string)
	assert.NotEmpty(t, orderID)

	r = s.do(t, http.MethodGet, "/api/v1/checkout/confirmation", nil)
	assert.Equal(t, http.StatusAccepted, r.status)
	assert.Equal(t, "processing", r.body["stage"])

	s.now = s.now.Add(3 * time.Second)

	r = s.do(t, http.MethodGet, "/api/v1/checkout/confirmation", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "success", r.body["stage"])
	assert.Equal(t, orderID, r.body["orderId"])

	r = s.do(t, http.MethodGet, "/api/v1/checkout/receipt", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.header.Get("Content-Type"), "text/plain")
	assert.Contains(t, string(r.raw), "TOTAL:")

	r = s.do(t, http.MethodGet, "/api/v1/checkout/receipt?format=html", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.header.Get("Content-Type"), "text/html")

	r = s.do(t, http.MethodGet, "/api/v1/checkout/receipt?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, r.status)

	r = s.do(t, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, r.status)
	var orders []map[string]any
	require.NoError(t, json.Unmarshal(r.raw, &orders))
	require.Len(t, orders, 4)
	assert.Equal(t, orderID, orders[0]["id"])
	assert.Equal(t, "pending", orders[0]["status"])

	r = s.do(t, http.MethodPost, "/api/v1/checkout/track", nil)
	require.Equal(t, http.StatusOK, r.status)

	r = s.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, float64(0), r.body["count"])

	r = s.do(t, http.MethodGet, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "cart", r.body["stage"])
}

func TestReorder(t *testing.T) {
	s := setupApp(t)
	s.signIn(t)

	r := s.do(t, http.MethodPost, "/api/v1/orders/ORD-123456/reorder", nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	cart := r.body["cart"].(map[string]any)
	assert.NotZero(t, cart["count"])

	r = s.do(t, http.MethodPost, "/api/v1/orders/ORD-000000/reorder", nil)
	assert.Equal(t, http.StatusNotFound, r.status)
}
