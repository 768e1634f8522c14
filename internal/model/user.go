package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Permission levels, ordered. A higher level implies every lower privilege.
const (
	PermissionNone   = 0
	PermissionBasic  = 1
	PermissionEditor = 2
	PermissionAdmin  = 3
)

// User represents a registered account
type User struct {
	ID           int       `json:"id"`
	UUID         uuid.UUID `json:"uuid"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Permissions  int       `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserResponse is the public profile shape returned by auth endpoints
type UserResponse struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"registration_date"`
}

// ToResponse strips internal fields from a user record
func (u *User) ToResponse() UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

// SignupRequest is used for registering a new user
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// Validate applies content rules beyond gin's shape binding
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
	)
}

// ChangeNameRequest updates the display name of the addressed user
type ChangeNameRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name" binding:"required"`
}

// ChangePasswordRequest updates the password of the addressed user
type ChangePasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate enforces the same password rules as signup
func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
	)
}

// GrantPermissionsRequest sets the permission level of the addressed user
type GrantPermissionsRequest struct {
	Email       string `json:"email" binding:"required"`
	Permissions *int   `json:"permissions" binding:"required"`
}

// Validate keeps the level inside the known range
func (r GrantPermissionsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Permissions, validation.NotNil, validation.Min(PermissionNone), validation.Max(PermissionAdmin)),
	)
}
