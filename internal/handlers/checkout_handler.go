package handlers

import (
	"bytes"
	"errors"

	"kitchen/internal/checkout"
	"kitchen/internal/middleware"
	"kitchen/internal/models"
	"kitchen/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for the checkout pipeline.
type CheckoutHandler struct {
	service *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
	}
}

// RegisterRoutes registers the checkout routes on a protected router.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/checkout")
	r.Get("/", h.HandleGetState)
	r.Post("/promo", h.HandleApplyPromo)
	r.Delete("/promo", h.HandleRemovePromo)
	r.Post("/summary", h.HandleConfirmSummary)
	r.Get("/addresses", h.HandleGetAddresses)
	r.Post("/addresses", h.HandleAddAddress)
	r.Delete("/addresses/:id", h.HandleRemoveAddress)
	r.Put("/addresses/:id/default", h.HandleSetDefaultAddress)
	r.Get("/time-slots", h.HandleTimeSlots)
	r.Post("/delivery", h.HandleConfirmDelivery)
	r.Post("/payment", h.HandlePay)
	r.Get("/confirmation", h.HandleConfirmation)
	r.Get("/receipt", h.HandleReceipt)
	r.Post("/track", h.HandleTrack)
}

// HandleGetState returns the checkout snapshot.
func (h *CheckoutHandler) HandleGetState(c *fiber.Ctx) error {
	st, err := h.service.State(c.UserContext(), middleware.ClientFrom(c))
	if err != nil {
		return respondError(c, err, "Could not load checkout")
	}
	return c.JSON(st)
}

// HandleApplyPromo applies a promo code.
func (h *CheckoutHandler) HandleApplyPromo(c *fiber.Ctx) error {
	var req models.PromoRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	applied, summary, err := h.service.ApplyPromo(c.UserContext(), middleware.ClientFrom(c), req.Code)
	if err != nil {
		return respondError(c, err, "Promo code not applied")
	}
	return c.JSON(fiber.Map{
		"message":      "Promo code applied",
		"appliedPromo": applied,
		"summary":      summary,
	})
}

// HandleRemovePromo removes the applied promo code.
func (h *CheckoutHandler) HandleRemovePromo(c *fiber.Ctx) error {
	summary, err := h.service.RemovePromo(c.UserContext(), middleware.ClientFrom(c))
	if err != nil {
		return respondError(c, err, "Could not remove promo code")
	}
	return c.JSON(fiber.Map{"message": "Promo code removed", "summary": summary})
}

// HandleConfirmSummary records the order summary.
func (h *CheckoutHandler) HandleConfirmSummary(c *fiber.Ctx) error {
	var req models.SummaryRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	summary, err := h.service.ConfirmSummary(c.UserContext(), middleware.ClientFrom(c), req)
	if err != nil {
		return respondError(c, err, "Could not confirm order summary")
	}
	return c.JSON(fiber.Map{"summary": summary, "next": checkout.StageDelivery})
}

// HandleGetAddresses lists the address book.
func (h *CheckoutHandler) HandleGetAddresses(c *fiber.Ctx) error {
	book, err := h.service.Addresses(c.UserContext(), middleware.ClientFrom(c))
	if err != nil {
		return respondError(c, err, "Could not load addresses")
	}
	return c.JSON(book)
}

// HandleAddAddress adds an address.
func (h *CheckoutHandler) HandleAddAddress(c *fiber.Ctx) error {
	var addr models.Address
	if err := c.BodyParser(&addr); err != nil {
		return badBody(c, err)
	}
	book, err := h.service.AddAddress(c.UserContext(), middleware.ClientFrom(c), addr)
	if err != nil {
		return respondError(c, err, "Could not add address")
	}
	return c.Status(fiber.StatusCreated).JSON(book)
}

// HandleRemoveAddress deletes an address.
func (h *CheckoutHandler) HandleRemoveAddress(c *fiber.Ctx) error {
	book, err := h.service.RemoveAddress(c.UserContext(), middleware.ClientFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not remove address")
	}
	return c.JSON(book)
}

// HandleSetDefaultAddress marks an address as default.
func (h *CheckoutHandler) HandleSetDefaultAddress(c *fiber.Ctx) error {
	book, err := h.service.SetDefaultAddress(c.UserContext(), middleware.ClientFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not update address")
	}
	return c.JSON(book)
}

// HandleTimeSlots lists the schedulable slots for ?date=YYYY-MM-DD.
func (h *CheckoutHandler) HandleTimeSlots(c *fiber.Ctx) error {
	slots, err := h.service.TimeSlots(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid date",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"date": c.Query("date"), "slots": slots})
}

// HandleConfirmDelivery records the delivery details.
func (h *CheckoutHandler) HandleConfirmDelivery(c *fiber.Ctx) error {
	var req models.DeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	res, err := h.service.ConfirmDelivery(c.UserContext(), middleware.ClientFrom(c), req)
	if err != nil {
		return respondError(c, err, "Could not save delivery details")
	}
	return c.JSON(res)
}

// HandlePay takes the payment. The order is ready once the processing window
// has passed.
func (h *CheckoutHandler) HandlePay(c *fiber.Ctx) error {
	var req models.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	res, err := h.service.Pay(c.UserContext(), middleware.ClientFrom(c), req)
	if err != nil {
		return respondError(c, err, "Payment failed")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":   "Processing your payment",
		"stage":     checkout.StageProcessing,
		"orderId":   res.Placed.OrderID,
		"payment":   res.Payment,
		"summary":   res.Summary,
		"readyAt":   res.Placed.ReadyAt,
		"cardLast4": res.LastPayment.Last4,
	})
}

// HandleConfirmation returns the confirmation data, or 202 while the payment
// is processing.
func (h *CheckoutHandler) HandleConfirmation(c *fiber.Ctx) error {
	conf, err := h.service.Confirmation(c.UserContext(), middleware.ClientFrom(c))
	if errors.Is(err, checkout.ErrProcessing) {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "Processing your payment",
			"stage":   checkout.StageProcessing,
			"readyAt": conf.ReadyAt,
		})
	}
	if err != nil {
		return respondError(c, err, "No confirmed order")
	}
	return c.JSON(conf)
}

// HandleReceipt renders the receipt as ?format=text (default) or html.
func (h *CheckoutHandler) HandleReceipt(c *fiber.Ctx) error {
	format := c.Query("format", "text")
	var buf bytes.Buffer
	if err := h.service.Receipt(c.UserContext(), middleware.ClientFrom(c), format, &buf); err != nil {
		return respondError(c, err, "Could not render receipt")
	}
	if format == "html" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		c.Attachment("receipt.txt")
	}
	return c.Send(buf.Bytes())
}

// HandleTrack finishes the checkout and clears the cart.
func (h *CheckoutHandler) HandleTrack(c *fiber.Ctx) error {
	if err := h.service.Track(c.UserContext(), middleware.ClientFrom(c)); err != nil {
		return respondError(c, err, "Order is not ready to track")
	}
	return c.JSON(fiber.Map{"message": "Tracking your order", "redirect": "/orders"})
}
