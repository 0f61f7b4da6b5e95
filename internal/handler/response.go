package handler

import (
	"errors"

	"go-inventory-history/internal/service"
	"go-inventory-history/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrorHandler renders every error returned by a handler as
// {success:false, message, errors?} with a status matching its kind.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "An unexpected error occurred"
	var details []*validator.ErrorResponse

	var verr *service.ValidationError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &verr):
		status, message, details = fiber.StatusBadRequest, verr.Message, verr.Errors
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrUserNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive):
		status, message = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrDuplicateSKU),
		errors.Is(err, service.ErrDuplicateUsername):
		status, message = fiber.StatusConflict, err.Error()
	case errors.As(err, &ferr):
		status, message = ferr.Code, ferr.Message
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Unhandled internal server error")
	}

	body := fiber.Map{"success": false, "message": message}
	if len(details) > 0 {
		body["errors"] = details
	}
	return c.Status(status).JSON(body)
}

func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
	}
	return nil
}

// productID treats malformed ids as unknown products.
func productID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, service.ErrProductNotFound
	}
	return id, nil
}
