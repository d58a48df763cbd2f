// internal/services/supplier_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickelectronics/supplychain-backend/internal/models"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type SupplierService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type RegisterSupplierRequest struct {
	Username           string `json:"username" validate:"required,username"`
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"required,strong_password"`
	CompanyName        string `json:"company_name" validate:"required,min=2,max=255"`
	RegistrationNumber string `json:"registration_number" validate:"required,min=3,max=100"`
	ContactPerson      string `json:"contact_person" validate:"required,min=2,max=255"`
	Phone              string `json:"phone" validate:"omitempty,max=20"`
	Address            string `json:"address" validate:"required"`
	Country            string `json:"country" validate:"required,max=100"`
	City               string `json:"city" validate:"required,max=100"`
	PostalCode         string `json:"postal_code" validate:"omitempty,max=20"`
}

type SupplierSearchParams struct {
	utils.PaginationParams
	StatusFilter *models.SupplierStatus `json:"status_filter,omitempty"`
}

func NewSupplierService(db *gorm.DB, notificationService *NotificationService) *SupplierService {
	return &SupplierService{
		db:                  db,
		notificationService: notificationService,
	}
}

// RegisterSupplier creates the user account and the supplier profile in one
// transaction. The profile starts pending and stays invisible to the public
// listing until an admin approves it.
func (s *SupplierService) RegisterSupplier(req *RegisterSupplierRequest) (*models.Supplier, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Check if user already exists
	var existingUser models.User
	if err := s.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser).Error; err == nil {
		if existingUser.Email == req.Email {
			return nil, errors.New("user with this email already exists")
		}
		return nil, errors.New("username already taken")
	}

	// Check registration number uniqueness
	var existingSupplier models.Supplier
	if err := s.db.Where("registration_number = ?", req.RegistrationNumber).First(&existingSupplier).Error; err == nil {
		return nil, errors.New("supplier with this registration number already exists")
	}

	var supplier *models.Supplier
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user := &models.User{
			Username: req.Username,
			Email:    req.Email,
			UserType: models.UserTypeSupplier,
			Status:   models.UserStatusActive,
		}
		if err := user.SetPassword(req.Password); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		supplier = &models.Supplier{
			UserID:             user.ID,
			CompanyName:        req.CompanyName,
			RegistrationNumber: req.RegistrationNumber,
			ContactPerson:      req.ContactPerson,
			Email:              req.Email,
			Phone:              req.Phone,
			Address:            req.Address,
			Country:            req.Country,
			City:               req.City,
			PostalCode:         req.PostalCode,
			Status:             models.SupplierStatusPending,
		}
		if err := tx.Create(supplier).Error; err != nil {
			return fmt.Errorf("failed to create supplier: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Load relationships
	s.db.Preload("User").First(supplier, supplier.ID)

	return supplier, nil
}

// SearchSuppliers serves the public directory: approved suppliers only,
// searchable by company name, contact person, or city.
func (s *SupplierService) SearchSuppliers(params SupplierSearchParams) ([]models.Supplier, int64, error) {
	query := s.db.Model(&models.Supplier{}).Preload("Performance")

	if params.StatusFilter != nil {
		query = query.Where("status = ?", *params.StatusFilter)
	} else {
		query = query.Where("status = ?", models.SupplierStatusApproved)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(company_name) LIKE ? OR LOWER(contact_person) LIKE ? OR LOWER(city) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "company_name", "city", "rating"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	// Execute query
	var suppliers []models.Supplier
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch suppliers: %w", err)
	}

	return suppliers, total, nil
}

// GetSupplier returns a supplier profile. Profiles that are not approved are
// visible only to their owner and admins.
func (s *SupplierService) GetSupplier(id uuid.UUID, callerID *uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.Preload("User").Preload("Performance").First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("supplier not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if supplier.Status != models.SupplierStatusApproved {
		if callerID == nil {
			return nil, errors.New("supplier not found")
		}
		if *callerID != supplier.UserID {
			var caller models.User
			if err := s.db.First(&caller, *callerID).Error; err != nil || !caller.IsAdmin() {
				return nil, errors.New("supplier not found")
			}
		}
	}

	return &supplier, nil
}

// GetSupplierByUserID resolves the supplier profile attached to a user account.
func (s *SupplierService) GetSupplierByUserID(userID uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.Where("user_id = ?", userID).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("supplier not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &supplier, nil
}

func (s *SupplierService) GetSupplierPerformance(supplierID uuid.UUID) (*models.SupplierPerformance, error) {
	var performance models.SupplierPerformance
	if err := s.db.Where("supplier_id = ?", supplierID).First(&performance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("performance record not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &performance, nil
}

// RefreshSupplierPerformance recomputes the order counters for a supplier:
// total orders, completed (delivered) and cancelled. The delivery-time,
// on-time and quality metrics come from external review processes and are
// preserved across refreshes.
func (s *SupplierService) RefreshSupplierPerformance(supplierID uuid.UUID) (*models.SupplierPerformance, error) {
	var supplier models.Supplier
	if err := s.db.First(&supplier, supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("supplier not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var totalOrders, completedOrders, cancelledOrders int64
	if err := s.db.Model(&models.Order{}).
		Where("supplier_id = ?", supplierID).
		Count(&totalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Where("supplier_id = ? AND status = ?", supplierID, models.OrderStatusDelivered).
		Count(&completedOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Where("supplier_id = ? AND status = ?", supplierID, models.OrderStatusCancelled).
		Count(&cancelledOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count cancelled orders: %w", err)
	}

	var performance models.SupplierPerformance
	err := s.db.Where("supplier_id = ?", supplierID).First(&performance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		performance = models.SupplierPerformance{SupplierID: supplierID}
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	performance.TotalOrders = int(totalOrders)
	performance.CompletedOrders = int(completedOrders)
	performance.CancelledOrders = int(cancelledOrders)

	if err := s.db.Save(&performance).Error; err != nil {
		return nil, fmt.Errorf("failed to save performance record: %w", err)
	}

	return &performance, nil
}
