package models

import (
	"time"

	"github.com/google/uuid"
)

// Role controls access to admin-only operations.
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique, stored lower-cased).
	Email string

	// PasswordHash is the bcrypt digest of the user's password.
	PasswordHash string

	// Phone and Company are optional contact details.
	Phone   string
	Company string

	// Role is client for self-registered accounts. Promotion to admin is
	// performed out of band.
	Role Role

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}

// NewUser creates a client user with a fresh ID and creation time.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleClient,
		CreatedAt:    time.Now().Unix(),
	}
}

// IsAdmin reports whether the user may call admin-only operations.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
