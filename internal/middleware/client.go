package middleware

import (
	"kitchen/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Request headers identifying the caller's storage scopes.
const (
	HeaderClientID = "X-Client-ID"
	HeaderTabID    = "X-Tab-ID"
)

const (
	localClient  = "client"
	localSession = "session"
)

// ClientContext resolves the client and tab for a request. A request without
// a client id is given a fresh one, echoed back in the response header.
func ClientContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := c.Get(HeaderClientID)
		if clientID == "" || len(clientID) > 64 {
			clientID = uuid.NewString()
		}
		tabID := c.Get(HeaderTabID)
		if tabID == "" || len(tabID) > 64 {
			tabID = services.DefaultTabID
		}
		c.Set(HeaderClientID, clientID)
		c.Locals(localClient, services.Client{ID: clientID, TabID: tabID})
		return c.Next()
	}
}

// ClientFrom returns the client resolved by ClientContext.
func ClientFrom(c *fiber.Ctx) services.Client {
	if client, ok := c.Locals(localClient).(services.Client); ok {
		return client
	}
	return services.Client{ID: c.Get(HeaderClientID), TabID: services.DefaultTabID}
}
