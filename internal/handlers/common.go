// internal/handlers/common.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quickelectronics/supplychain-backend/internal/i18n"
	"github.com/quickelectronics/supplychain-backend/internal/models"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

// Request plumbing shared by the handler set.

// bindAndValidate decodes the JSON body into req and runs struct validation,
// writing the error response itself. Returns false when the request bounced.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

// pathUUID parses a uuid path parameter, answering 400 on garbage.
func pathUUID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+resource+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// currentUserUUID reads the identity stored by AuthRequired, answering
// 401 itself when the request carries none.
func currentUserUUID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// supplierFromContext returns the profile stored by SupplierRequired.
func supplierFromContext(c *gin.Context) (*models.Supplier, bool) {
	value, exists := c.Get("supplier")
	if !exists {
		return nil, false
	}
	supplier, ok := value.(*models.Supplier)
	return supplier, ok
}
