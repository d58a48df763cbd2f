// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/quickelectronics/supplychain-backend/internal/models"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	CategoryID           uint                   `json:"category_id" validate:"required"`
	Name                 string                 `json:"name" validate:"required,min=2,max=255"`
	SKU                  string                 `json:"sku" validate:"required,sku"`
	Description          string                 `json:"description" validate:"omitempty"`
	Specifications       map[string]interface{} `json:"specifications,omitempty"`
	UnitPrice            decimal.Decimal        `json:"unit_price" validate:"required"`
	MinimumOrderQuantity int                    `json:"minimum_order_quantity" validate:"omitempty,min=1"`
	StockQuantity        int                    `json:"stock_quantity" validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	CategoryID           uint                   `json:"category_id,omitempty"`
	Name                 string                 `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	SKU                  string                 `json:"sku,omitempty" validate:"omitempty,sku"`
	Description          string                 `json:"description,omitempty"`
	Specifications       map[string]interface{} `json:"specifications,omitempty"`
	UnitPrice            *decimal.Decimal       `json:"unit_price,omitempty"`
	MinimumOrderQuantity int                    `json:"minimum_order_quantity,omitempty" validate:"omitempty,min=1"`
	StockQuantity        *int                   `json:"stock_quantity,omitempty"`
	Status               models.ProductStatus   `json:"status,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// withRelations preloads the associations every product payload carries.
func (s *ProductService) withRelations() *gorm.DB {
	return s.db.Preload("Supplier").Preload("Category").Preload("Inventory")
}

// skuTaken reports whether a product other than exclude already uses the SKU.
func (s *ProductService) skuTaken(sku string, exclude uuid.UUID) (bool, error) {
	query := s.db.Model(&models.Product{}).Where("sku = ?", sku)
	if exclude != uuid.Nil {
		query = query.Where("id != ?", exclude)
	}
	var clashes int64
	if err := query.Count(&clashes).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return clashes > 0, nil
}

// CreateProduct is restricted to approved suppliers. The product and its
// inventory record are created together; the inventory starts with
// current_stock mirroring the catalog stock_quantity.
func (s *ProductService) CreateProduct(userID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("unit price must be greater than zero")
	}

	var supplier models.Supplier
	switch err := s.db.Where("user_id = ?", userID).First(&supplier).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errors.New("unauthorized access")
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !supplier.IsApproved() {
		return nil, errors.New("unauthorized access")
	}

	var category models.Category
	switch err := s.db.First(&category, req.CategoryID).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errors.New("category not found")
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	}

	taken, err := s.skuTaken(req.SKU, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.New("product with this sku already exists")
	}

	product := &models.Product{
		SupplierID:           supplier.ID,
		CategoryID:           req.CategoryID,
		Name:                 req.Name,
		SKU:                  req.SKU,
		Description:          req.Description,
		Specifications:       models.JSONB(req.Specifications),
		UnitPrice:            req.UnitPrice,
		MinimumOrderQuantity: max(req.MinimumOrderQuantity, 1),
		StockQuantity:        req.StockQuantity,
		Status:               models.ProductStatusActive,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		inventory := &models.Inventory{
			ProductID:    product.ID,
			CurrentStock: req.StockQuantity,
		}
		if err := tx.Create(inventory).Error; err != nil {
			return fmt.Errorf("failed to create inventory record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.withRelations().First(product, product.ID)
	return product, nil
}

// canViewInactive reports whether the caller may see a non-active product.
// Only the owning supplier and admins qualify.
func (s *ProductService) canViewInactive(product *models.Product, callerID *uuid.UUID) bool {
	if callerID == nil {
		return false
	}
	if *callerID == product.Supplier.UserID {
		return true
	}
	var caller models.User
	if err := s.db.First(&caller, *callerID).Error; err != nil {
		return false
	}
	return caller.IsAdmin()
}

// GetProduct returns a product with supplier, category and inventory loaded.
// Non-active products are visible only to the owning supplier and admins.
func (s *ProductService) GetProduct(id uuid.UUID, callerID *uuid.UUID) (*models.Product, error) {
	var product models.Product
	switch err := s.withRelations().First(&product, id).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errors.New("product not found")
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.Status != models.ProductStatusActive && !s.canViewInactive(&product, callerID) {
		return nil, errors.New("product not found")
	}
	return &product, nil
}

// UpdateProduct applies partial updates; only the owning supplier may edit.
func (s *ProductService) UpdateProduct(id uuid.UUID, userID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	switch err := s.db.Preload("Supplier").First(&product, id).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errors.New("product not found")
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	}
	if product.Supplier.UserID != userID {
		return nil, errors.New("unauthorized access")
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.SKU != "" && req.SKU != product.SKU {
		taken, err := s.skuTaken(req.SKU, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errors.New("product with this sku already exists")
		}
		updates["sku"] = req.SKU
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.CategoryID != 0 {
		var category models.Category
		if err := s.db.First(&category, req.CategoryID).Error; err != nil {
			return nil, errors.New("category not found")
		}
		updates["category_id"] = req.CategoryID
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New("unit price must be greater than zero")
		}
		updates["unit_price"] = *req.UnitPrice
	}
	if req.MinimumOrderQuantity > 0 {
		updates["minimum_order_quantity"] = req.MinimumOrderQuantity
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, errors.New("stock quantity cannot be negative")
		}
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.Status != "" {
		switch req.Status {
		case models.ProductStatusActive, models.ProductStatusInactive, models.ProductStatusDiscontinued:
			updates["status"] = req.Status
		default:
			return nil, errors.New("invalid product status")
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.withRelations().First(&product, id)
	return &product, nil
}

// listProducts runs the shared count, sort and pagination tail of a catalog query.
func listProducts(query *gorm.DB, params utils.PaginationParams, sortable []string) ([]models.Product, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = utils.ApplySort(query, params, sortable)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

// SearchProducts serves the public catalog: active products only, filterable
// by category, supplier and a free-text search across name/description/sku.
func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.withRelations().Model(&models.Product{}).
		Where("status = ?", models.ProductStatusActive)

	if params.Category != "" {
		query = query.Where("category_id = ?", params.Category)
	}
	if params.Supplier != "" {
		query = query.Where("supplier_id = ?", params.Supplier)
	}
	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(sku) LIKE ?",
			term, term, term,
		)
	}

	return listProducts(query, params.PaginationParams, []string{"created_at", "updated_at", "name", "unit_price"})
}

// GetSupplierProducts lists a supplier's own catalog, every status included.
func (s *ProductService) GetSupplierProducts(supplierID uuid.UUID, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).
		Where("supplier_id = ?", supplierID).
		Preload("Category").Preload("Inventory")

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", term, term)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	return listProducts(query, params, []string{"created_at", "updated_at", "name", "unit_price", "status"})
}

func (s *ProductService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *ProductService) CreateCategory(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var clashes int64
	if err := s.db.Model(&models.Category{}).Where("name = ?", req.Name).Count(&clashes).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if clashes > 0 {
		return nil, errors.New("category with this name already exists")
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}
