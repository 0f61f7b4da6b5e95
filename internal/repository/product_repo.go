package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-inventory-history/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows FindAll. Search matches name, category or SKU.
type ProductFilter struct {
	Search   string
	Category string
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int, updatedBy string) (int, error)
}

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// WithTx returns a repository bound to the given transaction
func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error, nil, ErrDuplicateSKU)
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	products := []model.Product{}
	q := r.db.WithContext(ctx).Model(&model.Product{})

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\' OR LOWER(sku) LIKE ? ESCAPE '\'`, like, like, like)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	err := q.Order("updated_at DESC").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrProductNotFound, nil)
	}
	return &product, nil
}

// FindByIDForUpdate locks the row on databases with row locks (SQLite ignores the clause
// and relies on its database-level write lock).
func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, ErrProductNotFound, nil)
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, translate(err, ErrProductNotFound, nil)
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Save(product).Error, nil, ErrDuplicateSKU)
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AdjustQuantity applies delta in a single conditional UPDATE so concurrent
// callers cannot lose updates or drive the quantity below zero. It returns
// the quantity after the change.
func (r *productRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int, updatedBy string) (int, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&model.Product{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_by": updatedBy,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("adjust quantity: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&model.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("probe product: %w", err)
		}
		if count == 0 {
			return 0, ErrProductNotFound
		}
		return 0, ErrInsufficientStock
	}

	var quantities []int
	if err := db.Model(&model.Product{}).Where("id = ?", id).Pluck("quantity", &quantities).Error; err != nil {
		return 0, fmt.Errorf("read quantity: %w", err)
	}
	if len(quantities) == 0 {
		return 0, ErrProductNotFound
	}
	return quantities[0], nil
}
