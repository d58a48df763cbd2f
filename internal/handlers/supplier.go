// internal/handlers/supplier.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quickelectronics/supplychain-backend/internal/i18n"
	"github.com/quickelectronics/supplychain-backend/internal/services"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type SupplierHandler struct {
	supplierService *services.SupplierService
}

func NewSupplierHandler(supplierService *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// POST /suppliers/register
func (h *SupplierHandler) RegisterSupplier(c *gin.Context) {
	var req services.RegisterSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}

	lang := utils.GetLangFromContext(c)
	supplier, err := h.supplierService.RegisterSupplier(&req)
	if err != nil {
		if strings.Contains(err.Error(), "already") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeySupplierRegistered),
		"supplier": supplier,
	})
}

// GET /suppliers
func (h *SupplierHandler) GetSuppliers(c *gin.Context) {
	params := utils.GetPaginationParamsWithDefault(c, 12)

	suppliers, total, err := h.supplierService.SearchSuppliers(services.SupplierSearchParams{
		PaginationParams: params,
	})
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(suppliers, total, params))
}

// GET /suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id, ok := pathUUID(c, "id", "supplier")
	if !ok {
		return
	}

	// Anonymous lookups get the public profile; owners and admins see more.
	var caller *uuid.UUID
	if raw, exists := utils.GetUserIDFromContext(c); exists {
		if uid, err := uuid.Parse(raw); err == nil {
			caller = &uid
		}
	}

	supplier, err := h.supplierService.GetSupplier(id, caller)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "supplier")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"supplier": supplier})
}

// GET /suppliers/:id/performance
func (h *SupplierHandler) GetSupplierPerformance(c *gin.Context) {
	id, ok := pathUUID(c, "id", "supplier")
	if !ok {
		return
	}

	performance, err := h.supplierService.GetSupplierPerformance(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "supplier")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"performance":     performance,
		"completion_rate": performance.CompletionRate(),
	})
}
