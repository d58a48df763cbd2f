// internal/handlers/admin.go
package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quickelectronics/supplychain-backend/internal/i18n"
	"github.com/quickelectronics/supplychain-backend/internal/models"
	"github.com/quickelectronics/supplychain-backend/internal/services"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type AdminHandler struct {
	adminService    *services.AdminService
	supplierService *services.SupplierService
}

func NewAdminHandler(adminService *services.AdminService, supplierService *services.SupplierService) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		supplierService: supplierService,
	}
}

// dateWindow parses the optional created_after / created_before query
// bounds (YYYY-MM-DD). Unparseable values are ignored.
func dateWindow(c *gin.Context) (after, before *time.Time) {
	if raw := c.Query("created_after"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			after = &t
		}
	}
	if raw := c.Query("created_before"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			before = &t
		}
	}
	return after, before
}

func orderFilter(c *gin.Context) services.AdminOrderFilter {
	filter := services.AdminOrderFilter{
		PaginationParams: utils.GetPaginationParams(c),
		PaymentStatus:    c.Query("payment_status"),
	}
	filter.CreatedAfter, filter.CreatedBefore = dateWindow(c)
	return filter
}

// GET /stats
//
// Public landing-page counters, no authentication.
func (h *AdminHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.adminService.GetPlatformStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// GET /dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	dashboard, err := h.adminService.GetDashboard(userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "user")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"dashboard": dashboard})
}

// GET /admin/suppliers
func (h *AdminHandler) GetSuppliers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.AdminSupplierFilter{PaginationParams: params}
	filter.CreatedAfter, filter.CreatedBefore = dateWindow(c)

	suppliers, total, err := h.adminService.GetSuppliers(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(suppliers, total, params))
}

// PUT /admin/suppliers/:id/status
func (h *AdminHandler) UpdateSupplierStatus(c *gin.Context) {
	supplierID, ok := pathUUID(c, "id", "supplier")
	if !ok {
		return
	}
	adminID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var req struct {
		Status models.SupplierStatus `json:"status" validate:"required"`
		Reason string                `json:"reason,omitempty"`
	}
	if !bindAndValidate(c, &req) {
		return
	}

	supplier, err := h.adminService.UpdateSupplierStatus(supplierID, req.Status, adminID, req.Reason)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "supplier")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	lang := utils.GetLangFromContext(c)
	var message string
	switch req.Status {
	case models.SupplierStatusApproved:
		message = i18n.T(lang, i18n.KeySupplierApproved)
	case models.SupplierStatusSuspended:
		message = i18n.T(lang, i18n.KeySupplierSuspended)
	case models.SupplierStatusRejected:
		message = i18n.T(lang, i18n.KeySupplierRejected)
	default:
		message = i18n.T(lang, i18n.KeyAdminActionSuccess)
	}

	utils.SuccessResponse(c, gin.H{
		"message":  message,
		"supplier": supplier,
	})
}

// POST /admin/suppliers/bulk-status
func (h *AdminHandler) BulkUpdateSupplierStatus(c *gin.Context) {
	adminID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var req struct {
		SupplierIDs []uuid.UUID           `json:"supplier_ids" validate:"required,min=1"`
		Status      models.SupplierStatus `json:"status" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}

	updated, err := h.adminService.BulkUpdateSupplierStatus(req.SupplierIDs, req.Status, adminID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
		"updated": updated,
	})
}

// POST /admin/suppliers/:id/performance/refresh
func (h *AdminHandler) RefreshSupplierPerformance(c *gin.Context) {
	supplierID, ok := pathUUID(c, "id", "supplier")
	if !ok {
		return
	}

	performance, err := h.supplierService.RefreshSupplierPerformance(supplierID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "supplier")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyAdminActionSuccess),
		"performance": performance,
	})
}

// GET /admin/orders
func (h *AdminHandler) GetOrders(c *gin.Context) {
	filter := orderFilter(c)

	orders, total, err := h.adminService.GetOrders(filter)
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, filter.PaginationParams))
}

// PUT /admin/orders/:id/payment-status
func (h *AdminHandler) UpdateOrderPaymentStatus(c *gin.Context) {
	orderID, ok := pathUUID(c, "id", "order")
	if !ok {
		return
	}
	adminID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var req struct {
		PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}

	order, err := h.adminService.UpdateOrderPaymentStatus(orderID, req.PaymentStatus, adminID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "order")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
		"order":   order,
	})
}

// GET /admin/orders/export
func (h *AdminHandler) ExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.adminService.ExportOrdersCSV(&buf, orderFilter(c)); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
