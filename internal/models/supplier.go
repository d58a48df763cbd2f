// internal/models/supplier.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	BaseModel
	UserID             uuid.UUID      `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	CompanyName        string         `json:"company_name" gorm:"size:255;not null"`
	RegistrationNumber string         `json:"registration_number" gorm:"uniqueIndex;size:100;not null"`
	ContactPerson      string         `json:"contact_person" gorm:"size:255;not null"`
	Email              string         `json:"email" gorm:"size:255;not null"`
	Phone              string         `json:"phone" gorm:"size:20"`
	Address            string         `json:"address" gorm:"type:text"`
	Country            string         `json:"country" gorm:"size:100"`
	City               string         `json:"city" gorm:"size:100;index"`
	PostalCode         string         `json:"postal_code" gorm:"size:20"`
	Status             SupplierStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	BlockchainAddress  string         `json:"blockchain_address,omitempty" gorm:"size:255"`
	Rating             float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`

	// Relationships
	User        User                 `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Products    []Product            `json:"products,omitempty" gorm:"foreignKey:SupplierID"`
	Performance *SupplierPerformance `json:"performance,omitempty" gorm:"foreignKey:SupplierID"`
}

func (s *Supplier) IsApproved() bool {
	return s.Status == SupplierStatusApproved
}

type SupplierPerformance struct {
	ID                  uint      `json:"id" gorm:"primarykey"`
	SupplierID          uuid.UUID `json:"supplier_id" gorm:"type:uuid;uniqueIndex;not null"`
	TotalOrders         int       `json:"total_orders" gorm:"default:0"`
	CompletedOrders     int       `json:"completed_orders" gorm:"default:0"`
	CancelledOrders     int       `json:"cancelled_orders" gorm:"default:0"`
	AverageDeliveryTime float64   `json:"average_delivery_time" gorm:"type:decimal(5,2);default:0"` // days
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate" gorm:"type:decimal(5,2);default:0"` // percentage
	QualityRating       float64   `json:"quality_rating" gorm:"type:decimal(3,2);default:0"`
	LastUpdated         time.Time `json:"last_updated" gorm:"autoUpdateTime"`

	// Relationships
	Supplier Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

// CompletionRate reports completed orders as a percentage of total orders,
// 0 when no orders exist.
func (p *SupplierPerformance) CompletionRate() float64 {
	if p.TotalOrders == 0 {
		return 0
	}
	return float64(p.CompletedOrders) / float64(p.TotalOrders) * 100
}
