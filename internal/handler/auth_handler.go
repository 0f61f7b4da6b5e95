package handler

import (
	"time"

	"go-inventory-history/internal/config"
	"go-inventory-history/internal/middleware"
	"go-inventory-history/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	cookie      config.AuthConfig
}

func NewAuthHandler(authService service.AuthService, cookie config.AuthConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Login handles user authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    response.Token,
		Path:     "/",
		Expires:  response.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"success":   true,
		"user":      response.User,
		"token":     response.Token,
		"expiresAt": response.ExpiresAt,
	})
}

// Logout expires the session cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}

// Me returns the user behind the current session
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return service.ErrUnauthorized
	}
	return c.JSON(fiber.Map{"success": true, "user": user.ToResponse()})
}
