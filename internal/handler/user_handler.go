package handler

import (
	"go-inventory-history/internal/middleware"
	"go-inventory-history/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func userID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, service.ErrUserNotFound
	}
	return id, nil
}

// CreateUser handles user creation
// POST /api/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.CreateUser(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, user.ToResponse())
}

// GetUsers returns all users
// GET /api/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, users)
}

// GetUser returns a single user
// GET /api/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user)
}

// SetUserStatus activates or deactivates an account
// PATCH /api/users/:id/status
func (h *UserHandler) SetUserStatus(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.IsActive == nil {
		return fiber.NewError(fiber.StatusBadRequest, "isActive is required")
	}

	user, err := h.userService.SetUserActive(c.UserContext(), id, *req.IsActive, middleware.Actor(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user)
}
