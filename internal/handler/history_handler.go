package handler

import (
	"strconv"
	"strings"

	"go-inventory-history/internal/model"
	"go-inventory-history/internal/repository"
	"go-inventory-history/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type HistoryHandler struct {
	service service.InventoryService
}

func NewHistoryHandler(s service.InventoryService) *HistoryHandler {
	return &HistoryHandler{service: s}
}

// GetHistory returns audit records newest first
// Query params: productId, action (comma separated), limit
func (h *HistoryHandler) GetHistory(c *fiber.Ctx) error {
	var filter repository.HistoryFilter

	if raw := c.Query("productId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "productId must be a valid id")
		}
		filter.ProductID = &id
	}
	for _, action := range strings.Split(c.Query("action"), ",") {
		if action = strings.TrimSpace(action); action != "" {
			filter.Actions = append(filter.Actions, model.HistoryAction(action))
		}
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a number")
		}
		filter.Limit = limit
	}

	records, err := h.service.ListHistory(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, records)
}

// GetProductHistory works for deleted products too; records outlive them.
func (h *HistoryHandler) GetProductHistory(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	records, err := h.service.ListHistory(c.UserContext(), repository.HistoryFilter{ProductID: &id})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, records)
}
