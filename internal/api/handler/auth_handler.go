package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/budyakovan/shift-tracker-bot/internal/dto"
	"github.com/budyakovan/shift-tracker-bot/internal/service"
	"github.com/budyakovan/shift-tracker-bot/pkg/jwt"
	"github.com/budyakovan/shift-tracker-bot/pkg/response"
)

// AuthHandler serves the admin authentication endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login issues an access token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	token, user, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, 10002, "invalid username or password")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, dto.LoginResponse{Token: token, User: user})
}

// Logout revokes the presented token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return
	}
	claims, ok := v.(*jwt.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Me returns the authenticated user.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 10404, "user not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, user)
}

// SetPassword sets a user's admin password.
// PUT /api/v1/users/:id/password
func (h *AuthHandler) SetPassword(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request body")
		return
	}

	if err := h.authSvc.SetPassword(c.Request.Context(), id, req.Password, req.Role); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 10404, "user not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
