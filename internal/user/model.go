package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/padel-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrDNIAlreadyUsed     = apperror.New(http.StatusConflict, "dni already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrNameRequired       = apperror.New(http.StatusBadRequest, "name is required")
	ErrDNIRequired        = apperror.New(http.StatusBadRequest, "dni is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
	ErrWrongPassword      = apperror.New(http.StatusBadRequest, "current password is incorrect")
	ErrDeleteSelf         = apperror.New(http.StatusBadRequest, "administrators cannot delete their own account")
)

// MinPasswordLength is enforced on registration and password change.
const MinPasswordLength = 8

// User represents a player or administrator.
type User struct {
	ID           int64
	Email        string
	Name         string
	DNI          string // National identity document number
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Filter defines filter options for listing users.
type Filter struct {
	Email   string
	Name    string
	DNI     string
	IsAdmin *bool // Use pointer to distinguish between false and nil (not set)

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
