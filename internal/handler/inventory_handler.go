package handler

import (
	"go-inventory-history/internal/middleware"
	"go-inventory-history/internal/repository"
	"go-inventory-history/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GetProducts lists products
// Query params: q (name/category/sku substring), category
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), repository.ProductFilter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, product)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, product)
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	var req service.UpdateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &req, middleware.Actor(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, product)
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.service.DeleteProduct(c.UserContext(), id, middleware.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Product deleted", "data": product})
}

// AdjustStock applies {quantity, type: add|subtract, notes}
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	var req service.StockRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.service.AdjustStock(c.UserContext(), id, &req, middleware.Actor(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, result)
}
