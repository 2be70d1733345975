package handlers

import (
	"errors"

	"kitchen/internal/checkout"
	"kitchen/internal/repositories"
	"kitchen/internal/services"
	"kitchen/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// badBody answers 400 for an unparseable request body.
func badBody(c *fiber.Ctx, err error) error {
	log.Debug().Err(err).Str("path", c.Path()).Msg("error parsing request body")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// respondError maps service errors to HTTP responses.
func respondError(c *fiber.Ctx, err error, message string) error {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fields,
		})
	case errors.Is(err, checkout.ErrPromoEmpty),
		errors.Is(err, checkout.ErrPromoAlreadyApplied),
		errors.Is(err, checkout.ErrPromoInvalid),
		errors.Is(err, checkout.ErrPromoFirstOrderOnly):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"errors":  fiber.Map{"promoCode": err.Error()},
		})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, services.ErrUnknownReceiptFormat):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, checkout.ErrStageSkipped),
		errors.Is(err, checkout.ErrOrderPlaced),
		errors.Is(err, checkout.ErrLastAddress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, checkout.ErrProcessing):
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "Processing your payment",
			"stage":   checkout.StageProcessing,
		})
	case errors.Is(err, repositories.ErrFoodNotFound),
		errors.Is(err, repositories.ErrOrderNotFound),
		errors.Is(err, checkout.ErrAddressNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrNotAuthenticated),
		errors.Is(err, services.ErrSessionExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":  message,
			"error":    err.Error(),
			"redirect": "/signin",
		})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg(message)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
