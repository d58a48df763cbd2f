// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quickelectronics/supplychain-backend/internal/i18n"
	"github.com/quickelectronics/supplychain-backend/internal/services"
	"github.com/quickelectronics/supplychain-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// tokenGrant shapes the token-pair payload shared by register, login and
// refresh. The message is omitted when empty.
func tokenGrant(auth *services.AuthResponse, message string) gin.H {
	grant := gin.H{
		"user":          auth.User,
		"token":         auth.AccessToken,
		"refresh_token": auth.RefreshToken,
		"token_type":    auth.TokenType,
		"expires_in":    auth.ExpiresIn,
	}
	if message != "" {
		grant["message"] = message
	}
	return grant
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	grant, err := h.authService.Register(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.CreatedResponse(c, tokenGrant(grant, i18n.T(lang, i18n.KeyAuthRegisterSuccess)))
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	grant, err := h.authService.Login(&req)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, tokenGrant(grant, i18n.T(lang, i18n.KeyAuthLoginSuccess)))
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	// Stateless JWTs: the client discards its tokens.
	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLogoutSuccess),
	})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}

	grant, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, tokenGrant(grant, ""))
}

// GET /auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserUUID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		utils.NotFoundResponse(c, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}
