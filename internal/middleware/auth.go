package middleware

import (
	"strings"

	"kitchen/internal/models"
	"kitchen/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AuthRequired rejects requests from clients without a live session. An
// expired session is signed out and the caller is pointed at the sign-in
// page. When an Authorization header is sent its bearer token must match
// the session's.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client := ClientFrom(c)
		sess, err := authService.CurrentSession(c.UserContext(), client)
		if err != nil {
			log.Debug().Err(err).Str("client", client.ID).Str("path", c.Path()).Msg("unauthenticated request")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message":  "Please sign in to continue",
				"error":    err.Error(),
				"redirect": "/signin",
			})
		}

		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] != sess.Token {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message":  "Invalid or expired token",
					"redirect": "/signin",
				})
			}
		}

		c.Locals(localSession, sess)
		return c.Next()
	}
}

// SessionFrom returns the session stored by AuthRequired.
func SessionFrom(c *fiber.Ctx) *models.Session {
	sess, _ := c.Locals(localSession).(*models.Session)
	return sess
}
