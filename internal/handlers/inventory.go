// internal/handlers/inventory.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quickelectronics/supplychain-backend/internal/i18n"
	"github.com/quickelectronics/supplychain-backend/internal/services"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// GET /inventory?filter=low|out
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	supplier, ok := supplierFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	stockFilter := c.Query("filter")

	inventory, total, err := h.inventoryService.ListInventory(supplier.ID, stockFilter, params)
	if err != nil {
		if strings.Contains(err.Error(), "invalid stock filter") {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(inventory, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /inventory/:product_id
func (h *InventoryHandler) UpdateInventory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	supplier, ok := supplierFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, ok := pathUUID(c, "product_id", "product")
	if !ok {
		return
	}

	var req services.UpdateInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	inventory, err := h.inventoryService.UpdateInventory(supplier.ID, productID, &req)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "not found"):
			utils.NotFoundResponse(c, "product")
		case strings.Contains(msg, "unauthorized"):
			utils.ForbiddenResponse(c, "")
		default:
			utils.BadRequestResponse(c, msg, nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyInventoryUpdated),
		"inventory": inventory,
	})
}

// GET /inventory/status
func (h *InventoryHandler) GetInventoryStatus(c *gin.Context) {
	supplier, ok := supplierFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	entries, err := h.inventoryService.GetInventoryStatus(supplier.ID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"inventory": entries,
	})
}
