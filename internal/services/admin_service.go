// internal/services/admin_service.go
package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickelectronics/supplychain-backend/internal/models"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

// PlatformStats backs the public landing page counters.
type PlatformStats struct {
	TotalSuppliers int64 `json:"total_suppliers"`
	TotalProducts  int64 `json:"total_products"`
	OrdersToday    int64 `json:"orders_today"`
	PendingOrders  int64 `json:"pending_orders"`
}

type AdminSupplierFilter struct {
	utils.PaginationParams
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

type AdminOrderFilter struct {
	utils.PaginationParams
	PaymentStatus string     `json:"payment_status,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
	}
}

// createdBetween applies the created_at bounds shared by the admin filters.
func createdBetween(query *gorm.DB, after, before *time.Time) *gorm.DB {
	if after != nil {
		query = query.Where("created_at >= ?", *after)
	}
	if before != nil {
		query = query.Where("created_at <= ?", *before)
	}
	return query
}

// GetPlatformStats counts approved suppliers, active products, today's
// orders and the pending backlog.
func (s *AdminService) GetPlatformStats() (*PlatformStats, error) {
	stats := &PlatformStats{}
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	s.db.Model(&models.Supplier{}).
		Where("status = ?", models.SupplierStatusApproved).Count(&stats.TotalSuppliers)
	s.db.Model(&models.Product{}).
		Where("status = ?", models.ProductStatusActive).Count(&stats.TotalProducts)
	s.db.Model(&models.Order{}).
		Where("created_at >= ?", todayStart).Count(&stats.OrdersToday)
	s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).Count(&stats.PendingOrders)

	return stats, nil
}

// GetDashboard assembles the role-specific dashboard: suppliers get catalog
// and order counters plus low-stock alerts, customers get their order
// summary, admins get platform totals.
func (s *AdminService) GetDashboard(userID uuid.UUID) (map[string]interface{}, error) {
	var user models.User
	if err := s.db.Preload("Supplier").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	dashboard := make(map[string]interface{})

	switch {
	case user.IsAdmin():
		stats, err := s.GetPlatformStats()
		if err != nil {
			return nil, err
		}
		var pendingSuppliers, totalUsers int64
		s.db.Model(&models.Supplier{}).
			Where("status = ?", models.SupplierStatusPending).Count(&pendingSuppliers)
		s.db.Model(&models.User{}).Count(&totalUsers)

		dashboard["platform"] = stats
		dashboard["pending_suppliers"] = pendingSuppliers
		dashboard["total_users"] = totalUsers

	case user.Supplier != nil:
		supplierID := user.Supplier.ID

		var totalProducts, activeProducts, totalOrders, pendingOrders int64
		s.db.Model(&models.Product{}).Where("supplier_id = ?", supplierID).Count(&totalProducts)
		s.db.Model(&models.Product{}).
			Where("supplier_id = ? AND status = ?", supplierID, models.ProductStatusActive).
			Count(&activeProducts)
		s.db.Model(&models.Order{}).Where("supplier_id = ?", supplierID).Count(&totalOrders)
		s.db.Model(&models.Order{}).
			Where("supplier_id = ? AND status = ?", supplierID, models.OrderStatusPending).
			Count(&pendingOrders)

		var recentOrders []models.Order
		s.db.Where("supplier_id = ?", supplierID).
			Order("created_at DESC").Limit(5).
			Preload("Customer").Preload("Items").Preload("Items.Product").
			Find(&recentOrders)

		var lowStockRecords []models.Inventory
		s.db.Joins("JOIN products ON products.id = inventories.product_id").
			Where("products.supplier_id = ? AND products.status = ?", supplierID, models.ProductStatusActive).
			Where("inventories.current_stock - inventories.reserved_stock <= inventories.reorder_point").
			Order("inventories.current_stock - inventories.reserved_stock ASC").
			Limit(5).
			Preload("Product").
			Find(&lowStockRecords)

		lowStock := make([]InventoryView, 0, len(lowStockRecords))
		for _, record := range lowStockRecords {
			lowStock = append(lowStock, InventoryView{
				Inventory:      record,
				AvailableStock: record.AvailableStock(),
				NeedsReorder:   record.NeedsReorder(),
				StockStatus:    record.StockStatus(),
			})
		}

		dashboard["total_products"] = totalProducts
		dashboard["active_products"] = activeProducts
		dashboard["total_orders"] = totalOrders
		dashboard["pending_orders"] = pendingOrders
		dashboard["recent_orders"] = recentOrders
		dashboard["low_stock_products"] = lowStock

	default:
		var totalOrders, activeOrders int64
		s.db.Model(&models.Order{}).Where("customer_id = ?", userID).Count(&totalOrders)
		s.db.Model(&models.Order{}).
			Where("customer_id = ? AND status IN ?", userID, []models.OrderStatus{
				models.OrderStatusPending,
				models.OrderStatusConfirmed,
				models.OrderStatusProcessing,
				models.OrderStatusShipped,
			}).
			Count(&activeOrders)

		var recentOrders []models.Order
		s.db.Where("customer_id = ?", userID).
			Order("created_at DESC").Limit(5).
			Preload("Supplier").Preload("Items").Preload("Items.Product").
			Find(&recentOrders)

		dashboard["total_orders"] = totalOrders
		dashboard["active_orders"] = activeOrders
		dashboard["recent_orders"] = recentOrders
	}

	return dashboard, nil
}

// GetSuppliers is the admin directory: every status, filterable and searchable.
func (s *AdminService) GetSuppliers(filter AdminSupplierFilter) ([]models.Supplier, int64, error) {
	query := s.db.Model(&models.Supplier{}).Preload("User").Preload("Performance")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(company_name) LIKE ? OR LOWER(registration_number) LIKE ? OR LOWER(contact_person) LIKE ?",
			term, term, term,
		)
	}
	query = createdBetween(query, filter.CreatedAfter, filter.CreatedBefore)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	sortable := []string{"created_at", "updated_at", "company_name", "status", "rating"}
	query = utils.ApplySort(query, filter.PaginationParams, sortable)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var suppliers []models.Supplier
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch suppliers: %w", err)
	}
	return suppliers, total, nil
}

// UpdateSupplierStatus approves, suspends or rejects a supplier.
func (s *AdminService) UpdateSupplierStatus(supplierID uuid.UUID, status models.SupplierStatus, adminID uuid.UUID, reason string) (*models.Supplier, error) {
	switch status {
	case models.SupplierStatusPending, models.SupplierStatusApproved,
		models.SupplierStatusSuspended, models.SupplierStatusRejected:
	default:
		return nil, errors.New("invalid supplier status")
	}

	var supplier models.Supplier
	if err := s.db.Preload("User").First(&supplier, supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("supplier not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	previous := supplier.Status
	supplier.Status = status

	if err := s.db.Save(&supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to update supplier status: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_SUPPLIER_STATUS", "supplier", supplierID.String(),
		map[string]interface{}{"from": previous, "to": status, "reason": reason})

	go s.sendSupplierStatusNotification(&supplier, previous)

	return &supplier, nil
}

// BulkUpdateSupplierStatus applies one status to a set of suppliers and
// reports how many rows changed.
func (s *AdminService) BulkUpdateSupplierStatus(supplierIDs []uuid.UUID, status models.SupplierStatus, adminID uuid.UUID) (int64, error) {
	switch status {
	case models.SupplierStatusPending, models.SupplierStatusApproved,
		models.SupplierStatusSuspended, models.SupplierStatusRejected:
	default:
		return 0, errors.New("invalid supplier status")
	}
	if len(supplierIDs) == 0 {
		return 0, errors.New("no suppliers selected")
	}

	res := s.db.Model(&models.Supplier{}).
		Where("id IN ?", supplierIDs).
		Update("status", status)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update suppliers: %w", res.Error)
	}

	go s.createAuditLog(adminID, "BULK_UPDATE_SUPPLIER_STATUS", "supplier", "",
		map[string]interface{}{"supplier_ids": supplierIDs, "to": status, "updated": res.RowsAffected})

	go func() {
		var suppliers []models.Supplier
		if err := s.db.Preload("User").Where("id IN ?", supplierIDs).Find(&suppliers).Error; err != nil {
			return
		}
		for i := range suppliers {
			s.sendSupplierStatusNotification(&suppliers[i], "")
		}
	}()

	return res.RowsAffected, nil
}

// GetOrders is the admin order console with status and payment filters.
func (s *AdminService) GetOrders(filter AdminOrderFilter) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).
		Preload("Customer").Preload("Supplier").Preload("Items").Preload("Items.Product")

	if filter.Status != "" {
		if !models.OrderStatus(filter.Status).Valid() {
			return nil, 0, errors.New("invalid order status")
		}
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		if !models.PaymentStatus(filter.PaymentStatus).Valid() {
			return nil, 0, errors.New("invalid payment status")
		}
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(order_number) LIKE ?", term)
	}
	query = createdBetween(query, filter.CreatedAfter, filter.CreatedBefore)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	sortable := []string{"created_at", "updated_at", "status", "payment_status", "total_amount"}
	query = utils.ApplySort(query, filter.PaginationParams, sortable)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, total, nil
}

// UpdateOrderPaymentStatus is the only mutation path for payment_status.
func (s *AdminService) UpdateOrderPaymentStatus(orderID uuid.UUID, paymentStatus models.PaymentStatus, adminID uuid.UUID) (*models.Order, error) {
	if !paymentStatus.Valid() {
		return nil, errors.New("invalid payment status")
	}

	var order models.Order
	if err := s.db.Preload("Customer").Preload("Supplier").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	previous := order.PaymentStatus
	order.PaymentStatus = paymentStatus

	if err := s.db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_ORDER_PAYMENT_STATUS", "order", orderID.String(),
		map[string]interface{}{"from": previous, "to": paymentStatus})

	return &order, nil
}

// ExportOrdersCSV streams the filtered orders as CSV rows.
func (s *AdminService) ExportOrdersCSV(w io.Writer, filter AdminOrderFilter) error {
	query := s.db.Model(&models.Order{}).Preload("Customer").Preload("Supplier")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	query = createdBetween(query, filter.CreatedAfter, filter.CreatedBefore)

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"order_number", "customer", "supplier", "status", "payment_status", "total_amount", "created_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, order := range orders {
		row := []string{
			order.OrderNumber,
			order.Customer.Username,
			order.Supplier.CompanyName,
			string(order.Status),
			string(order.PaymentStatus),
			order.TotalAmount.StringFixed(2),
			order.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *AdminService) createAuditLog(userID uuid.UUID, action, resourceType, resourceID string, details map[string]interface{}) {
	s.db.Create(&models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      models.JSONB(details),
	})
}

func (s *AdminService) sendSupplierStatusNotification(supplier *models.Supplier, previous models.SupplierStatus) {
	if s.notificationService == nil {
		return
	}
	s.notificationService.SendSupplierStatusNotification(supplier, previous)
}
