package auth

import (
	"context"

	"github.com/apexdigital/apex/internal/models"
)

// Registration carries the fields collected at sign-up.
type Registration struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Company  string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new client account.
	// Returns apperr.ErrDuplicateEmail if the email is taken.
	Register(ctx context.Context, reg Registration) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Unknown email and wrong password both return apperr.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
