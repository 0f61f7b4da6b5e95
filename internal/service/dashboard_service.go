package service

import (
	"context"
	"fmt"
	"time"

	"go-inventory-history/internal/model"
	"go-inventory-history/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	DefaultMovementDays = 7
	MaxMovementDays     = 365

	lowStockItemsLimit = 10
	recentActivitySize = 10
	dateLayout         = "2006-01-02"
)

type DashboardStats struct {
	TotalProducts   int64                        `json:"totalProducts"`
	TotalQuantity   int64                        `json:"totalQuantity"`
	TotalValue      decimal.Decimal              `json:"totalValue"`
	LowStockCount   int64                        `json:"lowStockCount"`
	OutOfStockCount int64                        `json:"outOfStockCount"`
	Categories      []repository.CategorySummary `json:"categories"`
	LowStockItems   []model.Product              `json:"lowStockItems"`
	RecentActivity  []model.HistoryRecord        `json:"recentActivity"`
}

// StockMovement is the stock moved in and out on one UTC day.
type StockMovement struct {
	Date     string `json:"date"`
	Inbound  int    `json:"in"`
	Outbound int    `json:"out"`
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetStockMovement(ctx context.Context, days int) ([]StockMovement, error)
}

type dashboardService struct {
	dashRepo    repository.DashboardRepository
	historyRepo repository.HistoryRepository
	now         func() time.Time
}

func NewDashboardService(dashRepo repository.DashboardRepository, historyRepo repository.HistoryRepository) DashboardService {
	return &dashboardService{dashRepo: dashRepo, historyRepo: historyRepo, now: time.Now}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	categories, err := s.dashRepo.CategorySummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("category summaries: %w", err)
	}

	stats := &DashboardStats{TotalValue: decimal.Zero, Categories: categories}
	for _, c := range categories {
		stats.TotalProducts += c.ProductCount
		stats.TotalQuantity += c.Quantity
		stats.TotalValue = stats.TotalValue.Add(c.Value)
		stats.LowStockCount += c.LowStockCount
		stats.OutOfStockCount += c.OutOfStockCount
	}

	if stats.LowStockItems, err = s.dashRepo.LowStockProducts(ctx, lowStockItemsLimit); err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	if stats.RecentActivity, err = s.historyRepo.FindAll(ctx, repository.HistoryFilter{Limit: recentActivitySize}); err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return stats, nil
}

// GetStockMovement returns one entry per day for the last days days, oldest
// first, including days without movement.
func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]StockMovement, error) {
	if days == 0 {
		days = DefaultMovementDays
	}
	if days < 0 || days > MaxMovementDays {
		return nil, invalidField("days", "max", fmt.Sprintf("days must be between 1 and %d", MaxMovementDays))
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(days - 1))

	records, err := s.historyRepo.FindAll(ctx, repository.HistoryFilter{
		Actions: []model.HistoryAction{model.ActionStockAdded, model.ActionStockSubtracted},
		Since:   start,
	})
	if err != nil {
		return nil, fmt.Errorf("stock history: %w", err)
	}

	movement := make([]StockMovement, days)
	index := make(map[string]int, days)
	for i := range movement {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		movement[i].Date = date
		index[date] = i
	}

	for _, r := range records {
		i, ok := index[r.Timestamp.UTC().Format(dateLayout)]
		if !ok || !r.IsStockMovement() {
			continue
		}
		if r.Action == model.ActionStockAdded {
			movement[i].Inbound += r.Quantity
		} else {
			movement[i].Outbound += r.Quantity
		}
	}
	return movement, nil
}
