package service

import (
	"context"
	"fmt"

	"go-inventory-history/internal/config"
	"go-inventory-history/internal/model"
	"go-inventory-history/internal/repository"

	"gorm.io/gorm"
)

// AuditPolicy decides how a history row is written relative to the product
// change it describes.
type AuditPolicy string

const (
	// AuditTransactional writes the product change and its history row in one
	// transaction; a failed append rolls the change back.
	AuditTransactional AuditPolicy = config.AuditTransactional
	// AuditBestEffort commits the product change first and appends history
	// afterwards. A failed append is logged with the full record and dropped.
	AuditBestEffort AuditPolicy = config.AuditBestEffort
)

// mutation performs product writes through the given repository and returns
// the history row to append, or nil when nothing needs recording.
type mutation func(products repository.ProductRepository) (*model.HistoryRecord, error)

func (s *inventoryService) write(ctx context.Context, fn mutation) error {
	if s.policy == AuditBestEffort {
		var record *model.HistoryRecord
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			record, err = fn(s.products.WithTx(tx))
			return err
		})
		if err != nil {
			return err
		}
		if record != nil {
			if err := s.history.Append(ctx, record); err != nil {
				s.logger.Error().Err(err).
					Str("product_id", record.ProductID.String()).
					Str("action", string(record.Action)).
					Interface("record", record).
					Msg("History append failed, product change kept")
			}
		}
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := fn(s.products.WithTx(tx))
		if err != nil {
			return err
		}
		if record == nil {
			return nil
		}
		if err := s.history.WithTx(tx).Append(ctx, record); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return nil
	})
}
