package model

import "github.com/shopspring/decimal"

const (
	DefaultMinStock = 5
	DefaultUnit     = "pcs"
)

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	MinStock    int             `gorm:"not null" json:"minStock"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Location    string          `gorm:"type:varchar(255)" json:"location"`
	SKU         string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Unit        string          `gorm:"type:varchar(20);not null" json:"unit"`

	// User tracking
	CreatedBy string `gorm:"type:varchar(36)" json:"createdBy,omitempty"`
	UpdatedBy string `gorm:"type:varchar(36)" json:"updatedBy,omitempty"`
}

// IsLowStock reports whether the on-hand quantity reached the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

// Value is quantity * price.
func (p *Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
