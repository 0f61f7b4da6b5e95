package repository

import (
	"context"

	"go-inventory-history/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategorySummary aggregates products sharing a category.
type CategorySummary struct {
	Category        string          `json:"category"`
	ProductCount    int64           `json:"productCount"`
	Quantity        int64           `json:"quantity"`
	Value           decimal.Decimal `json:"value"`
	LowStockCount   int64           `json:"lowStockCount"`
	OutOfStockCount int64           `json:"outOfStockCount"`
}

type DashboardRepository interface {
	CategorySummaries(ctx context.Context) ([]CategorySummary, error)
	LowStockProducts(ctx context.Context, limit int) ([]model.Product, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

// CategorySummaries totals products per category. Values are summed with
// decimal arithmetic; SQLite would compute SUM(quantity * price) as REAL.
func (r *dashboardRepo) CategorySummaries(ctx context.Context) ([]CategorySummary, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Select("category", "quantity", "min_stock", "price").
		Order("category ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	results := []CategorySummary{}
	for i := range products {
		p := &products[i]
		if n := len(results); n == 0 || results[n-1].Category != p.Category {
			results = append(results, CategorySummary{Category: p.Category, Value: decimal.Zero})
		}
		sum := &results[len(results)-1]
		sum.ProductCount++
		sum.Quantity += int64(p.Quantity)
		sum.Value = sum.Value.Add(p.Value())
		if p.IsLowStock() {
			sum.LowStockCount++
		}
		if p.Quantity == 0 {
			sum.OutOfStockCount++
		}
	}
	return results, nil
}

func (r *dashboardRepo) LowStockProducts(ctx context.Context, limit int) ([]model.Product, error) {
	products := []model.Product{}
	q := r.db.WithContext(ctx).Where("quantity <= min_stock").Order("quantity ASC").Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&products).Error
	return products, err
}
