// internal/handlers/product.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quickelectronics/supplychain-backend/internal/i18n"
	"github.com/quickelectronics/supplychain-backend/internal/services"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParamsWithDefault(c, 12)

	products, total, err := h.productService.SearchProducts(services.ProductSearchParams{
		PaginationParams: params,
	})
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}

	lang := utils.GetLangFromContext(c)
	product, err := h.productService.CreateProduct(userID, &req)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "unauthorized"):
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeySupplierNotApproved))
		case strings.Contains(msg, "sku already exists"):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyProductSKUExists))
		case strings.Contains(msg, "category not found"):
			utils.NotFoundResponse(c, "category")
		default:
			utils.BadRequestResponse(c, msg, nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id", "product")
	if !ok {
		return
	}

	// The viewer is optional here; suppliers also see their own inactive
	// listings through this endpoint.
	var viewer *uuid.UUID
	if raw, exists := utils.GetUserIDFromContext(c); exists {
		if uid, err := uuid.Parse(raw); err == nil {
			viewer = &uid
		}
	}

	product, err := h.productService.GetProduct(id, viewer)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id", "product")
	if !ok {
		return
	}
	userID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}

	lang := utils.GetLangFromContext(c)
	product, err := h.productService.UpdateProduct(id, userID, &req)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "unauthorized"):
			utils.ForbiddenResponse(c, msg)
		case strings.Contains(msg, "product not found"):
			utils.NotFoundResponse(c, "product")
		case strings.Contains(msg, "sku already exists"):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyProductSKUExists))
		default:
			utils.BadRequestResponse(c, msg, nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// GET /suppliers/me/products
func (h *ProductHandler) GetMyProducts(c *gin.Context) {
	supplier, ok := supplierFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	products, total, err := h.productService.GetSupplierProducts(supplier.ID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// GET /categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"categories": categories})
}

// POST /admin/categories
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	lang := utils.GetLangFromContext(c)
	category, err := h.productService.CreateCategory(&req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryCreated),
		"category": category,
	})
}
