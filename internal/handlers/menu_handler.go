package handlers

import (
	"kitchen/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MenuHandler handles HTTP requests for the menu.
type MenuHandler struct {
	service *services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(service *services.MenuService) *MenuHandler {
	return &MenuHandler{
		service: service,
	}
}

// RegisterRoutes registers the menu routes.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	menuRoutes := router.Group("/menu")
	menuRoutes.Get("/categories", h.HandleGetCategories)
	menuRoutes.Get("/items", h.HandleGetItems)
	menuRoutes.Get("/items/:id", h.HandleGetItem)
}

// HandleGetCategories lists the categories, Popular first.
func (h *MenuHandler) HandleGetCategories(c *fiber.Ctx) error {
	cats, err := h.service.Categories()
	if err != nil {
		return respondError(c, err, "Could not retrieve categories")
	}
	return c.JSON(cats)
}

// HandleGetItems lists the menu, optionally filtered by ?category=.
func (h *MenuHandler) HandleGetItems(c *fiber.Ctx) error {
	items, err := h.service.Items(c.Query("category"))
	if err != nil {
		return respondError(c, err, "Could not retrieve menu items")
	}
	return c.JSON(items)
}

// HandleGetItem returns one food item.
func (h *MenuHandler) HandleGetItem(c *fiber.Ctx) error {
	item, err := h.service.Item(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Food item not found")
	}
	return c.JSON(item)
}
