// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	SupplierID           uuid.UUID       `json:"supplier_id" gorm:"type:uuid;not null;index"`
	CategoryID           uint            `json:"category_id" gorm:"not null;index"`
	Name                 string          `json:"name" gorm:"size:255;not null"`
	SKU                  string          `json:"sku" gorm:"uniqueIndex;size:100;not null"`
	Description          string          `json:"description" gorm:"type:text"`
	Specifications       JSONB           `json:"specifications" gorm:"type:jsonb"`
	UnitPrice            decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	MinimumOrderQuantity int             `json:"minimum_order_quantity" gorm:"default:1"`
	StockQuantity        int             `json:"stock_quantity" gorm:"default:0"`
	Status               ProductStatus   `json:"status" gorm:"type:varchar(20);default:'active';index"`
	BlockchainHash       string          `json:"blockchain_hash,omitempty" gorm:"size:255"`

	// Relationships
	Supplier  Supplier   `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Category  Category   `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Inventory *Inventory `json:"inventory,omitempty" gorm:"foreignKey:ProductID"`
}

// IsInStock reports on the legacy denormalized counter; the live picture
// lives on the product's Inventory row.
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}
