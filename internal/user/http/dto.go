package http

import (
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/padel-booking-backend/internal/user"
)

// ListUsersRequest defines query parameters for listing users.
type ListUsersRequest struct {
	request.ListParams
	Email   string `form:"email"`
	Name    string `form:"name"`
	DNI     string `form:"dni"`
	IsAdmin *bool  `form:"is_admin"`
	SortBy  string `form:"sort_by" binding:"omitempty,oneof=name email created_at last_login_at"`
}

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	DNI         string     `json:"dni"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// NewUserResponse converts domain user.User to UserResponse used by the API.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		DNI:         u.DNI,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// RegisterRequest defines the payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	DNI      string `json:"dni" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest defines the payload for PUT /me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UpdateUserRequest defines fields allowed to be updated via PATCH /users/:id.
// Use pointers to distinguish between "field not sent" and "field sent as false/empty".
type UpdateUserRequest struct {
	Name    *string `json:"name"`
	DNI     *string `json:"dni"`
	IsAdmin *bool   `json:"is_admin"`
}

// LoginResponse returns the token and user info.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// MeResponse returns the current user info.
type MeResponse struct {
	User UserResponse `json:"user"`
}
