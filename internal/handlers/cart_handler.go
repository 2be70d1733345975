package handlers

import (
	"kitchen/internal/middleware"
	"kitchen/internal/models"
	"kitchen/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the tab's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Put("/open", h.HandleSetOpen)
	cartRoutes.Post("/lines", h.HandleAddLine)
	cartRoutes.Patch("/lines/:id", h.HandleUpdateLine)
	cartRoutes.Delete("/lines/:id", h.HandleRemoveLine)
}

// HandleGetCart returns the cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	view, err := h.service.Get(c.UserContext(), middleware.ClientFrom(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve cart")
	}
	return c.JSON(view)
}

// HandleAddLine adds a menu selection to the cart.
func (h *CartHandler) HandleAddLine(c *fiber.Ctx) error {
	var req models.AddCartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	view, err := h.service.Add(c.UserContext(), middleware.ClientFrom(c), req)
	if err != nil {
		return respondError(c, err, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleUpdateLine changes a line's quantity.
func (h *CartHandler) HandleUpdateLine(c *fiber.Ctx) error {
	var req models.UpdateCartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	view, err := h.service.UpdateQuantity(c.UserContext(), middleware.ClientFrom(c), c.Params("id"), req.Quantity)
	if err != nil {
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(view)
}

// HandleRemoveLine removes a line.
func (h *CartHandler) HandleRemoveLine(c *fiber.Ctx) error {
	view, err := h.service.Remove(c.UserContext(), middleware.ClientFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(view)
}

// HandleSetOpen shows or hides the cart drawer.
func (h *CartHandler) HandleSetOpen(c *fiber.Ctx) error {
	var req struct {
		Open bool `json:"open"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	view, err := h.service.SetOpen(c.UserContext(), middleware.ClientFrom(c), req.Open)
	if err != nil {
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(view)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	view, err := h.service.Clear(c.UserContext(), middleware.ClientFrom(c))
	if err != nil {
		return respondError(c, err, "Could not clear cart")
	}
	return c.JSON(view)
}
