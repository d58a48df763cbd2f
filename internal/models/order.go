// internal/models/order.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	BaseModel
	OrderNumber               string          `json:"order_number" gorm:"uniqueIndex;size:100;not null"`
	CustomerID                uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null;index"`
	SupplierID                uuid.UUID       `json:"supplier_id" gorm:"type:uuid;not null;index"`
	Status                    OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus             PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`
	TotalAmount               decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);default:0"`
	ShippingAddress           string          `json:"shipping_address" gorm:"type:text;not null"`
	Notes                     string          `json:"notes" gorm:"type:text"`
	BlockchainTransactionHash string          `json:"blockchain_transaction_hash,omitempty" gorm:"size:255"`
	ExpectedDeliveryDate      *time.Time      `json:"expected_delivery_date"`

	// Relationships
	Customer       User            `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Supplier       Supplier        `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Items          []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	TrackingEvents []TrackingEvent `json:"tracking_events,omitempty" gorm:"foreignKey:OrderID"`
}

// NewOrderNumber builds an order reference like ORD-20260114-3F2A9C1B: the
// placement date plus the first eight hex characters of a random id,
// uppercased.
func NewOrderNumber(t time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%s", t.Format("20060102"), suffix)
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if err := o.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber(time.Now())
	}
	return nil
}

type OrderItem struct {
	ID         uint            `json:"id" gorm:"primarykey"`
	OrderID    uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time       `json:"created_at"`

	// Relationships
	Order   Order   `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// BeforeSave recomputes total_price from quantity × unit_price on every
// write; unit_price stays the snapshot taken at order time.
func (i *OrderItem) BeforeSave(tx *gorm.DB) error {
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	return nil
}

type TrackingEvent struct {
	BaseModel
	OrderID        uuid.UUID         `json:"order_id" gorm:"type:uuid;not null;index"`
	EventType      TrackingEventType `json:"event_type" gorm:"type:varchar(20);not null"`
	Title          string            `json:"title" gorm:"size:255;not null"`
	Description    string            `json:"description" gorm:"type:text"`
	Location       string            `json:"location" gorm:"size:255"`
	Timestamp      time.Time         `json:"timestamp" gorm:"autoCreateTime;index"`
	BlockchainHash string            `json:"blockchain_hash,omitempty" gorm:"size:255"`
	CreatedByID    uuid.UUID         `json:"created_by_id" gorm:"type:uuid;not null"`

	// Relationships
	Order     Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	CreatedBy User  `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
}
