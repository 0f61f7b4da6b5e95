package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-inventory-history/internal/model"
	"go-inventory-history/internal/repository"
	"go-inventory-history/internal/ws"
	"go-inventory-history/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StockAdd      = "add"
	StockSubtract = "subtract"

	maxHistoryLimit = 1000
)

// Actor is the authenticated user a mutation is attributed to.
type Actor struct {
	ID   string
	Name string
}

// EventPublisher receives live-update events after a change is committed.
type EventPublisher interface {
	Publish(event ws.Event)
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,notblank,max=255"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required,notblank,max=100"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	MinStock    *int            `json:"minStock" validate:"omitempty,gte=0"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Location    string          `json:"location" validate:"max=255"`
	SKU         string          `json:"sku" validate:"required,notblank,max=64"`
	Unit        string          `json:"unit" validate:"max=20"`
}

// UpdateProductRequest only touches the fields that are present.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,notblank,max=255"`
	Description *string          `json:"description"`
	Category    *string          `json:"category" validate:"omitempty,notblank,max=100"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0"`
	MinStock    *int             `json:"minStock" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Location    *string          `json:"location" validate:"omitempty,max=255"`
	SKU         *string          `json:"sku" validate:"omitempty,notblank,max=64"`
	Unit        *string          `json:"unit" validate:"omitempty,notblank,max=20"`
}

type StockRequest struct {
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Type     string `json:"type" validate:"required,oneof=add subtract"`
	Notes    string `json:"notes" validate:"max=500"`
}

type StockResult struct {
	ProductID        uuid.UUID      `json:"productId"`
	PreviousQuantity int            `json:"previousQuantity"`
	NewQuantity      int            `json:"newQuantity"`
	Change           int            `json:"change"`
	Type             string         `json:"type"`
	Notes            string         `json:"notes,omitempty"`
	Product          *model.Product `json:"product"`
}

type InventoryService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) (*model.Product, error)
	AdjustStock(ctx context.Context, id uuid.UUID, req *StockRequest, actor Actor) (*StockResult, error)
	ListHistory(ctx context.Context, filter repository.HistoryFilter) ([]model.HistoryRecord, error)
}

type inventoryService struct {
	db       *gorm.DB
	products repository.ProductRepository
	history  repository.HistoryRepository
	events   EventPublisher
	policy   AuditPolicy
	now      func() time.Time
	logger   zerolog.Logger
}

func NewInventoryService(db *gorm.DB, products repository.ProductRepository, history repository.HistoryRepository, events EventPublisher, policy AuditPolicy) InventoryService {
	if policy != AuditBestEffort {
		policy = AuditTransactional
	}
	return &inventoryService{
		db:       db,
		products: products,
		history:  history,
		events:   events,
		policy:   policy,
		now:      time.Now,
		logger:   logger.Component("inventory"),
	}
}

func (s *inventoryService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	return s.products.FindAll(ctx, filter)
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Quantity:    req.Quantity,
		MinStock:    model.DefaultMinStock,
		Price:       req.Price,
		Location:    req.Location,
		SKU:         strings.TrimSpace(req.SKU),
		Unit:        strings.TrimSpace(req.Unit),
		CreatedBy:   actor.ID,
		UpdatedBy:   actor.ID,
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if product.Unit == "" {
		product.Unit = model.DefaultUnit
	}

	err := s.write(ctx, func(products repository.ProductRepository) (*model.HistoryRecord, error) {
		if err := ensureSKUFree(ctx, products, product.SKU); err != nil {
			return nil, err
		}
		if err := products.Create(ctx, product); err != nil {
			return nil, err
		}
		details := fmt.Sprintf("Created with %d %s", product.Quantity, product.Unit)
		return s.record(product, model.ActionCreated, actor, product.Quantity, 0, product.Quantity, details), nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("product_created", product, actor, fmt.Sprintf("%s created product '%s'", actor.Name, product.Name), nil)
	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var (
		updated  *model.Product
		previous int
	)
	err := s.write(ctx, func(products repository.ProductRepository) (*model.HistoryRecord, error) {
		existing, err := products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		previous = existing.Quantity

		if req.SKU != nil {
			sku := strings.TrimSpace(*req.SKU)
			if sku != existing.SKU {
				if err := ensureSKUFree(ctx, products, sku); err != nil {
					return nil, err
				}
			}
			existing.SKU = sku
		}
		applyUpdate(existing, req)
		existing.UpdatedBy = actor.ID

		if err := products.Update(ctx, existing); err != nil {
			return nil, err
		}
		updated = existing

		if existing.Quantity == previous {
			return nil, nil
		}
		details := fmt.Sprintf("Quantity changed: %d -> %d", previous, existing.Quantity)
		return s.record(existing, model.ActionUpdated, actor, existing.Quantity, previous, existing.Quantity, details), nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("product_updated", updated, actor, fmt.Sprintf("%s updated product '%s'", actor.Name, updated.Name), map[string]interface{}{
		"old_quantity": previous,
	})
	return updated, nil
}

func applyUpdate(p *model.Product, req *UpdateProductRequest) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.Unit != nil {
		p.Unit = strings.TrimSpace(*req.Unit)
	}
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) (*model.Product, error) {
	var deleted *model.Product
	err := s.write(ctx, func(products repository.ProductRepository) (*model.HistoryRecord, error) {
		existing, err := products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := products.Delete(ctx, id); err != nil {
			return nil, err
		}
		deleted = existing

		details := fmt.Sprintf("Deleted %s (SKU %s) with %d %s on hand", existing.Name, existing.SKU, existing.Quantity, existing.Unit)
		return s.record(existing, model.ActionDeleted, actor, existing.Quantity, existing.Quantity, 0, details), nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("product_deleted", deleted, actor, fmt.Sprintf("%s deleted product '%s'", actor.Name, deleted.Name), nil)
	return deleted, nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, id uuid.UUID, req *StockRequest, actor Actor) (*StockResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	delta, action, verb := req.Quantity, model.ActionStockAdded, "Added"
	if req.Type == StockSubtract {
		delta, action, verb = -req.Quantity, model.ActionStockSubtracted, "Subtracted"
	}
	notes := strings.TrimSpace(req.Notes)

	var result *StockResult
	err := s.write(ctx, func(products repository.ProductRepository) (*model.HistoryRecord, error) {
		product, err := products.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		newQuantity, err := products.AdjustQuantity(ctx, id, delta, actor.ID)
		if err != nil {
			return nil, err
		}
		previous := newQuantity - delta
		product.Quantity = newQuantity
		product.UpdatedBy = actor.ID

		result = &StockResult{
			ProductID:        id,
			PreviousQuantity: previous,
			NewQuantity:      newQuantity,
			Change:           delta,
			Type:             req.Type,
			Notes:            notes,
			Product:          product,
		}

		details := fmt.Sprintf("%s %d %s. Stock: %d -> %d", verb, req.Quantity, product.Unit, previous, newQuantity)
		if notes != "" {
			details += ". " + notes
		}
		return s.record(product, action, actor, req.Quantity, previous, newQuantity, details), nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(string(action), result.Product, actor,
		fmt.Sprintf("%s %s %d %s of '%s'", actor.Name, strings.ToLower(verb), req.Quantity, result.Product.Unit, result.Product.Name),
		map[string]interface{}{"old_quantity": result.PreviousQuantity, "change": delta})
	return result, nil
}

func (s *inventoryService) ListHistory(ctx context.Context, filter repository.HistoryFilter) ([]model.HistoryRecord, error) {
	for _, action := range filter.Actions {
		if !action.Valid() {
			return nil, invalidField("action", "oneof", fmt.Sprintf("unknown history action '%s'", action))
		}
	}
	if filter.Limit < 0 {
		return nil, invalidField("limit", "gte", "limit must not be negative")
	}
	if filter.Limit == 0 || filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	return s.history.FindAll(ctx, filter)
}

func (s *inventoryService) record(p *model.Product, action model.HistoryAction, actor Actor, quantity, previous, next int, details string) *model.HistoryRecord {
	return &model.HistoryRecord{
		ProductID:        p.ID,
		ProductName:      p.Name,
		Action:           action,
		Quantity:         quantity,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Timestamp:        s.now().UTC(),
		UserID:           actor.ID,
		UserName:         actor.Name,
		Details:          details,
	}
}

func (s *inventoryService) publish(action string, p *model.Product, actor Actor, message string, extra map[string]interface{}) {
	if s.events == nil || p == nil {
		return
	}
	product := map[string]interface{}{
		"id":       p.ID,
		"sku":      p.SKU,
		"name":     p.Name,
		"quantity": p.Quantity,
		"unit":     p.Unit,
		"price":    p.Price,
	}
	for k, v := range extra {
		product[k] = v
	}
	s.events.Publish(ws.Event{
		Type:    "stock_update",
		Action:  action,
		Product: product,
		User:    &ws.EventUser{ID: actor.ID, Name: actor.Name},
		Message: message,
	})
}

func ensureSKUFree(ctx context.Context, products repository.ProductRepository, sku string) error {
	_, err := products.FindBySKU(ctx, sku)
	switch {
	case err == nil:
		return ErrDuplicateSKU
	case errors.Is(err, repository.ErrProductNotFound):
		return nil
	default:
		return err
	}
}
