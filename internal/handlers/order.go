// internal/handlers/order.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quickelectronics/supplychain-backend/internal/i18n"
	"github.com/quickelectronics/supplychain-backend/internal/services"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var req services.PlaceOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}

	order, err := h.orderService.PlaceOrder(userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderPlaced, order.OrderNumber),
		"order":   order,
	})
}

// GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParamsWithDefault(c, 10)
	orders, total, err := h.orderService.ListOrders(userID, services.OrderSearchParams{
		PaginationParams: params,
	})
	if err != nil {
		if strings.Contains(err.Error(), "invalid order status") {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathUUID(c, "id", "order")
	if !ok {
		return
	}
	userID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(id, userID)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "not found"):
			utils.NotFoundResponse(c, "order")
		case strings.Contains(msg, "unauthorized"):
			utils.ForbiddenResponse(c, "")
		default:
			utils.InternalErrorResponse(c, msg)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// PUT /orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id", "order")
	if !ok {
		return
	}
	userID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrderStatus(id, userID, &req)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "not found"):
			utils.NotFoundResponse(c, "order")
		case strings.Contains(msg, "unauthorized"):
			utils.ForbiddenResponse(c, "")
		default:
			utils.BadRequestResponse(c, msg, nil)
		}
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}

// GET /orders/:id/tracking
//
// Public: no authentication, the order ID acts as the tracking reference.
func (h *OrderHandler) GetOrderTracking(c *gin.Context) {
	id, ok := pathUUID(c, "id", "order")
	if !ok {
		return
	}

	tracking, err := h.orderService.GetOrderTracking(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "order")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, tracking)
}
