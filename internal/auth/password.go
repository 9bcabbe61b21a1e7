package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/apexdigital/apex/internal/apperr"
	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/internal/storage"
)

const (
	minPasswordLength = 8
	// bcrypt only accepts passwords up to 72 bytes.
	maxPasswordBytes = 72
)

// UserStorage defines the interface for user persistence operations.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// HashPassword returns a salted bcrypt digest of plaintext.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches digest. A malformed
// digest is reported as a mismatch.
func VerifyPassword(digest, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int

	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewPasswordAuthenticator creates a new password-based authenticator.
// A zero cost selects bcrypt.DefaultCost.
func NewPasswordAuthenticator(storage UserStorage, cost int) *PasswordAuthenticator {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("apex-dummy-password"), cost)
	return &PasswordAuthenticator{
		storage:   storage,
		cost:      cost,
		dummyHash: string(dummy),
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < minPasswordLength {
		return apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	if len(credential) > maxPasswordBytes {
		return apperr.Validation("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

// Register creates a new client account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, reg Registration) (*models.User, error) {
	name := strings.TrimSpace(reg.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	email, err := normalizeEmail(reg.Email)
	if err != nil {
		return nil, err
	}
	if err := a.ValidateCredential(reg.Password); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(reg.Password, a.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.Validation("password must be at most %d bytes", maxPasswordBytes)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, err, "failed to hash password")
	}

	user := models.NewUser(name, email, hashed)
	user.Phone = strings.TrimSpace(reg.Phone)
	user.Company = strings.TrimSpace(reg.Company)

	// The UNIQUE constraint is authoritative; no pre-check is needed.
	if err := a.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, apperr.New(apperr.KindDuplicateEmail, "email already registered")
		}
		return nil, apperr.Wrap(apperr.KindPersistence, err, "failed to create user")
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	invalid := apperr.New(apperr.KindInvalidCredentials, "invalid email or password")

	user, err := a.storage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindPersistence, err, "failed to look up user")
		}
		VerifyPassword(a.dummyHash, credential)
		return nil, invalid
	}

	if !VerifyPassword(user.PasswordHash, credential) {
		return nil, invalid
	}

	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperr.Validation("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.Validation("email %q is not a valid address", raw)
	}
	return email, nil
}
