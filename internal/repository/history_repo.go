package repository

import (
	"context"
	"time"

	"go-inventory-history/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryFilter narrows FindAll. Zero values mean "no constraint".
type HistoryFilter struct {
	ProductID *uuid.UUID
	Actions   []model.HistoryAction
	Since     time.Time
	Until     time.Time
	Limit     int
}

// HistoryRepository is append-only: records are never updated or deleted.
type HistoryRepository interface {
	WithTx(tx *gorm.DB) HistoryRepository
	Append(ctx context.Context, record *model.HistoryRecord) error
	FindAll(ctx context.Context, filter HistoryFilter) ([]model.HistoryRecord, error)
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

func (r *historyRepo) WithTx(tx *gorm.DB) HistoryRepository {
	return &historyRepo{tx}
}

func (r *historyRepo) Append(ctx context.Context, record *model.HistoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *historyRepo) FindAll(ctx context.Context, filter HistoryFilter) ([]model.HistoryRecord, error) {
	records := []model.HistoryRecord{}
	q := r.db.WithContext(ctx).Model(&model.HistoryRecord{})

	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if len(filter.Actions) > 0 {
		q = q.Where("action IN ?", filter.Actions)
	}
	if !filter.Since.IsZero() {
		q = q.Where("timestamp >= ?", filter.Since.UTC())
	}
	if !filter.Until.IsZero() {
		q = q.Where("timestamp <= ?", filter.Until.UTC())
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	err := q.Order("timestamp DESC").Find(&records).Error
	return records, err
}
