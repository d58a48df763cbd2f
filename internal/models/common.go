// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel gives every table a UUID primary key, timestamps and soft deletes.
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB is stored as jsonb on Postgres. The sqlite driver used in tests
// round-trips it through the same Value/Scan pair.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	switch data := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		return json.Unmarshal(data, j)
	case string:
		return json.Unmarshal([]byte(data), j)
	default:
		return nil
	}
}

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeSupplier UserType = "supplier"
	UserTypeAdmin    UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type SupplierStatus string

const (
	SupplierStatusPending   SupplierStatus = "pending"
	SupplierStatusApproved  SupplierStatus = "approved"
	SupplierStatusSuspended SupplierStatus = "suspended"
	SupplierStatusRejected  SupplierStatus = "rejected"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

// OrderStatuses lists every accepted order status. Transitions are
// unrestricted: any status may follow any other.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type TrackingEventType string

const (
	TrackingEventOrderPlaced    TrackingEventType = "order_placed"
	TrackingEventOrderConfirmed TrackingEventType = "order_confirmed"
	TrackingEventInProduction   TrackingEventType = "in_production"
	TrackingEventQualityCheck   TrackingEventType = "quality_check"
	TrackingEventPackaged       TrackingEventType = "packaged"
	TrackingEventShipped        TrackingEventType = "shipped"
	TrackingEventInTransit      TrackingEventType = "in_transit"
	TrackingEventOutForDelivery TrackingEventType = "out_for_delivery"
	TrackingEventDelivered      TrackingEventType = "delivered"
	TrackingEventException      TrackingEventType = "exception"
)

var TrackingEventTypes = []TrackingEventType{
	TrackingEventOrderPlaced,
	TrackingEventOrderConfirmed,
	TrackingEventInProduction,
	TrackingEventQualityCheck,
	TrackingEventPackaged,
	TrackingEventShipped,
	TrackingEventInTransit,
	TrackingEventOutForDelivery,
	TrackingEventDelivered,
	TrackingEventException,
}

func (t TrackingEventType) Valid() bool {
	for _, known := range TrackingEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

type NotificationType string

const (
	NotificationOrderPlaced   NotificationType = "order_placed"
	NotificationOrderStatus   NotificationType = "order_status_updated"
	NotificationLowStock      NotificationType = "low_stock"
	NotificationSupplierState NotificationType = "supplier_status_changed"
)
