package handlers

import (
	"kitchen/internal/middleware"
	"kitchen/internal/models"
	"kitchen/internal/services"
	"kitchen/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for the order history.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, validate *validator.Validate) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the order routes on a protected router.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/reorder", h.HandleReorder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetOrders lists the client's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.List(c.UserContext(), middleware.ClientFrom(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns one order.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.Get(c.UserContext(), middleware.ClientFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Order not found")
	}
	return c.JSON(order)
}

// HandleReorder adds a past order's items to the cart.
func (h *OrderHandler) HandleReorder(c *fiber.Ctx) error {
	view, err := h.service.Reorder(c.UserContext(), middleware.ClientFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not reorder")
	}
	return c.JSON(fiber.Map{
		"message": "Items added to cart",
		"cart":    view,
	})
}

// HandleUpdateOrderStatus moves an order to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req models.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, validation.Translate(err), "Invalid status")
	}
	order, err := h.service.UpdateStatus(c.UserContext(), middleware.ClientFrom(c), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err, "Could not update order status")
	}
	return c.JSON(order)
}
