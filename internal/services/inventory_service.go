// internal/services/inventory_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickelectronics/supplychain-backend/internal/models"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type InventoryService struct {
	db *gorm.DB
}

// UpdateInventoryRequest carries pointer fields so omitted values leave the
// stored levels untouched.
type UpdateInventoryRequest struct {
	CurrentStock      *int `json:"current_stock,omitempty" validate:"omitempty,min=0"`
	ReservedStock     *int `json:"reserved_stock,omitempty" validate:"omitempty,min=0"`
	MinimumStockLevel *int `json:"minimum_stock_level,omitempty" validate:"omitempty,min=0"`
	MaximumStockLevel *int `json:"maximum_stock_level,omitempty" validate:"omitempty,min=1"`
	ReorderPoint      *int `json:"reorder_point,omitempty" validate:"omitempty,min=0"`
}

// InventoryView decorates an inventory row with its derived values.
type InventoryView struct {
	models.Inventory
	AvailableStock int                `json:"available_stock"`
	NeedsReorder   bool               `json:"needs_reorder"`
	StockStatus    models.StockStatus `json:"stock_status"`
}

// InventoryStatusEntry is the wire shape of the inventory status endpoint.
type InventoryStatusEntry struct {
	ProductID      uuid.UUID          `json:"product_id"`
	ProductName    string             `json:"product_name"`
	SKU            string             `json:"sku"`
	CurrentStock   int                `json:"current_stock"`
	AvailableStock int                `json:"available_stock"`
	ReservedStock  int                `json:"reserved_stock"`
	StockStatus    models.StockStatus `json:"stock_status"`
	NeedsReorder   bool               `json:"needs_reorder"`
	ReorderPoint   int                `json:"reorder_point"`
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// ListInventory returns inventory rows for the supplier's active products.
// stockFilter narrows to "low" (needs reorder, still available) or "out"
// (nothing available).
func (s *InventoryService) ListInventory(supplierID uuid.UUID, stockFilter string, params utils.PaginationParams) ([]InventoryView, int64, error) {
	query := s.db.Model(&models.Inventory{}).
		Joins("JOIN products ON products.id = inventories.product_id").
		Where("products.supplier_id = ? AND products.status = ?", supplierID, models.ProductStatusActive).
		Preload("Product")

	switch stockFilter {
	case "":
		// No filter
	case "low":
		query = query.Where(
			"inventories.current_stock - inventories.reserved_stock <= inventories.reorder_point AND inventories.current_stock - inventories.reserved_stock > 0",
		)
	case "out":
		query = query.Where("inventories.current_stock - inventories.reserved_stock <= 0")
	default:
		return nil, 0, errors.New("invalid stock filter")
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory records: %w", err)
	}

	query = query.Order("products.name ASC")
	query = utils.ApplyPagination(query, params)

	// Execute query
	var records []models.Inventory
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch inventory records: %w", err)
	}

	views := make([]InventoryView, 0, len(records))
	for _, record := range records {
		views = append(views, InventoryView{
			Inventory:      record,
			AvailableStock: record.AvailableStock(),
			NeedsReorder:   record.NeedsReorder(),
			StockStatus:    record.StockStatus(),
		})
	}

	return views, total, nil
}

// UpdateInventory edits the stock levels of one product. A product that has
// no inventory record yet gets one, seeded with current_stock from the
// catalog stock_quantity. last_restocked is stamped whenever current_stock
// goes up.
func (s *InventoryService) UpdateInventory(supplierID uuid.UUID, productID uuid.UUID, req *UpdateInventoryRequest) (*InventoryView, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.SupplierID != supplierID {
		return nil, errors.New("unauthorized access")
	}

	var inventory models.Inventory
	err := s.db.Where("product_id = ?", productID).First(&inventory).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		inventory = models.Inventory{
			ProductID:         productID,
			CurrentStock:      product.StockQuantity,
			MinimumStockLevel: 10,
			MaximumStockLevel: 1000,
			ReorderPoint:      20,
		}
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	previousStock := inventory.CurrentStock

	if req.CurrentStock != nil {
		inventory.CurrentStock = *req.CurrentStock
	}
	if req.ReservedStock != nil {
		inventory.ReservedStock = *req.ReservedStock
	}
	if req.MinimumStockLevel != nil {
		inventory.MinimumStockLevel = *req.MinimumStockLevel
	}
	if req.MaximumStockLevel != nil {
		inventory.MaximumStockLevel = *req.MaximumStockLevel
	}
	if req.ReorderPoint != nil {
		inventory.ReorderPoint = *req.ReorderPoint
	}

	// Cross-field rules
	if inventory.ReservedStock > inventory.CurrentStock {
		return nil, errors.New("reserved stock cannot exceed current stock")
	}
	if inventory.MinimumStockLevel >= inventory.MaximumStockLevel {
		return nil, errors.New("minimum stock level must be less than maximum stock level")
	}
	if inventory.ReorderPoint > inventory.MaximumStockLevel {
		return nil, errors.New("reorder point cannot exceed maximum stock level")
	}

	if inventory.CurrentStock > previousStock {
		now := time.Now()
		inventory.LastRestocked = &now
	}

	if err := s.db.Save(&inventory).Error; err != nil {
		return nil, fmt.Errorf("failed to save inventory record: %w", err)
	}

	inventory.Product = product

	return &InventoryView{
		Inventory:      inventory,
		AvailableStock: inventory.AvailableStock(),
		NeedsReorder:   inventory.NeedsReorder(),
		StockStatus:    inventory.StockStatus(),
	}, nil
}

// GetInventoryStatus builds the snapshot served by the inventory status
// endpoint: one entry per active product of the supplier that has an
// inventory record.
func (s *InventoryService) GetInventoryStatus(supplierID uuid.UUID) ([]InventoryStatusEntry, error) {
	var records []models.Inventory
	if err := s.db.Model(&models.Inventory{}).
		Joins("JOIN products ON products.id = inventories.product_id").
		Where("products.supplier_id = ? AND products.status = ?", supplierID, models.ProductStatusActive).
		Order("products.name ASC").
		Preload("Product").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch inventory records: %w", err)
	}

	entries := make([]InventoryStatusEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, InventoryStatusEntry{
			ProductID:      record.ProductID,
			ProductName:    record.Product.Name,
			SKU:            record.Product.SKU,
			CurrentStock:   record.CurrentStock,
			AvailableStock: record.AvailableStock(),
			ReservedStock:  record.ReservedStock,
			StockStatus:    record.StockStatus(),
			NeedsReorder:   record.NeedsReorder(),
			ReorderPoint:   record.ReorderPoint,
		})
	}

	return entries, nil
}
