package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryAction string

const (
	ActionCreated         HistoryAction = "created"
	ActionUpdated         HistoryAction = "updated"
	ActionDeleted         HistoryAction = "deleted"
	ActionStockAdded      HistoryAction = "stock_added"
	ActionStockSubtracted HistoryAction = "stock_subtracted"
)

// HistoryRecord is an append-only audit entry. ProductID is a logical
// reference only: no foreign key is declared so rows outlive their product.
type HistoryRecord struct {
	ID               uuid.UUID     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProductID        uuid.UUID     `gorm:"type:varchar(36);not null;index" json:"productId"`
	ProductName      string        `gorm:"type:varchar(255);not null" json:"productName"`
	Action           HistoryAction `gorm:"type:varchar(32);not null;index" json:"action"`
	Quantity         int           `gorm:"not null" json:"quantity"`
	PreviousQuantity int           `gorm:"not null;default:0" json:"previousQuantity"`
	NewQuantity      int           `gorm:"not null;default:0" json:"newQuantity"`
	Timestamp        time.Time     `gorm:"not null;index" json:"timestamp"`
	UserID           string        `gorm:"type:varchar(36);not null" json:"userId"`
	UserName         string        `gorm:"type:varchar(255);not null" json:"userName"`
	Details          string        `gorm:"type:text" json:"details"`
}

func (HistoryRecord) TableName() string {
	return "history_items"
}

func (h *HistoryRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return
}

// IsStockMovement reports whether the record came from an add/subtract operation.
func (h *HistoryRecord) IsStockMovement() bool {
	return h.Action == ActionStockAdded || h.Action == ActionStockSubtracted
}

// Valid reports whether a is one of the known action kinds.
func (a HistoryAction) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionStockAdded, ActionStockSubtracted:
		return true
	}
	return false
}
