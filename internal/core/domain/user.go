package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")

// ErrAccountDisabled is returned on login against a deactivated account.
// The account keeps its entitlements and credential; access resumes if an
// admin re-enables it.
var ErrAccountDisabled = errors.New("account disabled")

// User models an account in the system. Active gates access resolution and
// login; entitlement creation is deliberately not gated on it.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
