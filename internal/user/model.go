package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, apperror.ReasonNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, apperror.ReasonConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, apperror.ReasonUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, apperror.ReasonInvalidInput, "email is required")
	ErrNameRequired       = apperror.New(http.StatusBadRequest, apperror.ReasonInvalidInput, "full name is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, apperror.ReasonInvalidInput, "password is too short")
)

// User represents a resident who can request reservations.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Nickname     *string
	Phone        *string // WhatsApp number shown to other residents on a reservation
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
	IsAdmin      bool
}

// Filter narrows the admin user listing. Empty fields do not filter.
type Filter struct {
	Email    string // substring, case-insensitive
	Name     string // substring of full name or nickname
	Phone    string // exact WhatsApp number
	IsActive *bool

	Page     int
	PageSize int
}

// UpdateRequest carries the fields an administrator may change.
// A nil field is left untouched.
type UpdateRequest struct {
	FullName *string
	Nickname *string
	Phone    *string
	IsActive *bool
	IsAdmin  *bool
}
