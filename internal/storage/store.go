// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/apexdigital/apex/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user's email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateCode is returned when a project code collides with an existing one.
	ErrDuplicateCode = errors.New("project code already exists")
	// ErrDuplicateTransaction is returned when a payment's transaction id was already recorded.
	ErrDuplicateTransaction = errors.New("transaction already recorded")
	// ErrInvalidTransition is returned when a status change is not allowed from the current state.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Store defines the interface for agency data storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Returns ErrDuplicateEmail if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns all users ordered by creation time.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateProjectWithAgents persists a project and one agent per role in a
	// single transaction. The project's ID and CreatedAt are populated by the
	// store. Returns ErrDuplicateCode if project.Code is taken, in which case
	// nothing is written.
	CreateProjectWithAgents(ctx context.Context, project *models.Project, roles []string) ([]*models.AIAgent, error)

	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, projectID string) (*models.Project, error)

	// ListProjectsByUser returns the user's projects, oldest first.
	ListProjectsByUser(ctx context.Context, userID string) ([]*models.Project, error)

	// ListAgentsByProject returns the project's agents in creation order.
	ListAgentsByProject(ctx context.Context, projectID string) ([]*models.AIAgent, error)

	// StartProject moves a pending project to in_progress and activates its
	// agents. Returns ErrInvalidTransition if the project is not pending.
	StartProject(ctx context.Context, projectID string) (*models.Project, error)

	// CreatePayment persists a completed payment with its distribution
	// fields in one write. Returns ErrDuplicateTransaction if the
	// transaction id was already recorded.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPaymentsByUser returns the user's payments, newest first.
	ListPaymentsByUser(ctx context.Context, userID string) ([]*models.Payment, error)

	// DashboardStats aggregates revenue for completed payments and project counts.
	// monthStart is the Unix timestamp from which monthly revenue is counted.
	DashboardStats(ctx context.Context, monthStart int64) (*models.DashboardStats, error)

	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
