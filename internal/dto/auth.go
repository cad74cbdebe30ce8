package dto

import "github.com/budyakovan/shift-tracker-bot/internal/model"

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// SetPasswordRequest sets or rotates an admin password.
type SetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin viewer"`
}
