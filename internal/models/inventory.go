// internal/models/inventory.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Inventory struct {
	ID                uint       `json:"id" gorm:"primarykey"`
	ProductID         uuid.UUID  `json:"product_id" gorm:"type:uuid;uniqueIndex;not null"`
	CurrentStock      int        `json:"current_stock" gorm:"default:0"`
	ReservedStock     int        `json:"reserved_stock" gorm:"default:0"`
	MinimumStockLevel int        `json:"minimum_stock_level" gorm:"default:10"`
	MaximumStockLevel int        `json:"maximum_stock_level" gorm:"default:1000"`
	ReorderPoint      int        `json:"reorder_point" gorm:"default:20"`
	LastRestocked     *time.Time `json:"last_restocked"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// AvailableStock is current minus reserved. It is deliberately not clamped:
// a negative value means reservations exceed stock on hand.
func (i *Inventory) AvailableStock() int {
	return i.CurrentStock - i.ReservedStock
}

func (i *Inventory) NeedsReorder() bool {
	return i.AvailableStock() <= i.ReorderPoint
}

func (i *Inventory) StockStatus() StockStatus {
	switch {
	case i.AvailableStock() <= 0:
		return StockStatusOutOfStock
	case i.NeedsReorder():
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}
