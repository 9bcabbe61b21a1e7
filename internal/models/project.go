package models

// ProjectStatus is the workflow state of a project.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectTesting    ProjectStatus = "testing"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectDelivered  ProjectStatus = "delivered"
)

// Active reports whether work is currently happening on the project.
func (s ProjectStatus) Active() bool {
	return s == ProjectInProgress || s == ProjectTesting
}

// AgentStatus is the state of a role assignment within a project.
type AgentStatus string

const (
	AgentAssigned  AgentStatus = "assigned"
	AgentActive    AgentStatus = "active"
	AgentCompleted AgentStatus = "completed"
)

// Project represents a unit of work requested by a user.
type Project struct {
	// ID is the unique identifier for the project (UUID format).
	ID string

	// Code is the human-readable identifier, e.g. APX-240115-K3Z9QD.
	// It is unique and never changes once assigned.
	Code string

	// UserID is the owning user.
	UserID string

	// Service is the display name of the requested service offering.
	Service string

	// Package is the tier: starter, professional or enterprise.
	Package string

	Description string

	Status ProjectStatus

	// CreatedAt is the Unix timestamp when the project was created.
	CreatedAt int64

	// CompletedAt is zero until the project is completed.
	CompletedAt int64
}

// AIAgent is a named role slot attached to a project.
type AIAgent struct {
	ID        string
	ProjectID string
	Role      string
	Status    AgentStatus
	CreatedAt int64
}
