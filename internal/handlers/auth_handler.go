package handlers

import (
	"kitchen/internal/middleware"
	"kitchen/internal/models"
	"kitchen/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for sign-in, sign-up and the account.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignUp)
	authRoutes.Post("/signin", h.HandleSignIn)
	authRoutes.Post("/signout", h.HandleSignOut)
	authRoutes.Post("/password-strength", h.HandlePasswordStrength)
}

// RegisterAccountRoutes registers the account routes on a protected router.
func (h *AuthHandler) RegisterAccountRoutes(router fiber.Router) {
	accountRoutes := router.Group("/account")
	accountRoutes.Get("/", h.HandleGetAccount)
	accountRoutes.Put("/", h.HandleUpdateAccount)
	accountRoutes.Delete("/", h.HandleDeleteAccount)
}

// HandleSignUp validates the sign-up form and stores a pending verification.
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var req models.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	pending, err := h.authService.SignUp(c.UserContext(), middleware.ClientFrom(c), req)
	if err != nil {
		return respondError(c, err, "Registration failed")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Account created. Please verify your email",
		"email":    pending.Email,
		"redirect": "/verify-email",
	})
}

// HandleSignIn starts a session.
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req models.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	sess, err := h.authService.SignIn(c.UserContext(), middleware.ClientFrom(c), req)
	if err != nil {
		return respondError(c, err, "Authentication failed")
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"session": sess,
		"token":   sess.Token,
	})
}

// HandleSignOut ends the session.
func (h *AuthHandler) HandleSignOut(c *fiber.Ctx) error {
	if err := h.authService.SignOut(c.UserContext(), middleware.ClientFrom(c)); err != nil {
		return respondError(c, err, "Could not sign out")
	}
	return c.JSON(fiber.Map{"message": "Signed out", "redirect": "/signin"})
}

// HandlePasswordStrength scores a candidate password.
func (h *AuthHandler) HandlePasswordStrength(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	return c.JSON(h.authService.PasswordStrength(req.Password))
}

// HandleGetAccount returns the profile.
func (h *AuthHandler) HandleGetAccount(c *fiber.Ctx) error {
	user, err := h.authService.Profile(c.UserContext(), middleware.ClientFrom(c), middleware.SessionFrom(c))
	if err != nil {
		return respondError(c, err, "Could not load profile")
	}
	return c.JSON(user)
}

// HandleUpdateAccount saves the profile.
func (h *AuthHandler) HandleUpdateAccount(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return badBody(c, err)
	}
	saved, err := h.authService.UpdateProfile(c.UserContext(), middleware.ClientFrom(c), user)
	if err != nil {
		return respondError(c, err, "Failed to update profile")
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "user": saved})
}

// HandleDeleteAccount clears everything stored for the client.
func (h *AuthHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	if err := h.authService.DeleteAccount(c.UserContext(), middleware.ClientFrom(c)); err != nil {
		return respondError(c, err, "Failed to delete account")
	}
	return c.JSON(fiber.Map{"message": "Account deleted", "redirect": "/signup"})
}
