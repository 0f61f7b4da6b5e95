package middleware

import (
	"strings"

	"go-inventory-history/internal/model"
	"go-inventory-history/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUser     = "user"
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalUserName = "user_name"
	LocalUserRole = "user_role"
)

// TokenFromRequest reads the session token from the cookie, falling back to
// an "Authorization: Bearer <token>" header.
func TokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}

	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAuth validates the session token and sets user info in context
func RequireAuth(auth service.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.Authenticate(c.UserContext(), TokenFromRequest(c, cookieName))
		if err != nil {
			return err
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalUserID, user.ID.String())
		c.Locals(LocalUsername, user.Username)
		c.Locals(LocalUserName, user.DisplayName())
		c.Locals(LocalUserRole, user.Role)

		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(LocalUser).(*model.User)
	return user
}

// Actor attributes a mutation to the authenticated user.
func Actor(c *fiber.Ctx) service.Actor {
	id, _ := c.Locals(LocalUserID).(string)
	name, _ := c.Locals(LocalUserName).(string)
	if name == "" {
		name = "Unknown"
	}
	return service.Actor{ID: id, Name: name}
}

// RequireRole rejects authenticated users whose role is not listed.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalUserRole).(string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Forbidden: requires role "+strings.Join(roles, " or "))
	}
}
