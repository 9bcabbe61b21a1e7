package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/internal/storage"
)

const projectColumns = `id, code, user_id, service, package, description, status, created_at, completed_at`

// CreateProjectWithAgents persists a project and its agent roster atomically.
func (s *SQLiteStore) CreateProjectWithAgents(ctx context.Context, project *models.Project, roles []string) ([]*models.AIAgent, error) {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt == 0 {
		project.CreatedAt = s.now().Unix()
	}
	if project.Status == "" {
		project.Status = models.ProjectPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO projects (id, code, user_id, service, package, description, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Code, project.UserID, project.Service, project.Package,
		project.Description, string(project.Status), project.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "projects.code") {
			return nil, storage.ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}

	agents := make([]*models.AIAgent, 0, len(roles))
	for i, role := range roles {
		agent := &models.AIAgent{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			Role:      role,
			Status:    models.AgentAssigned,
			CreatedAt: project.CreatedAt,
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ai_agents (id, project_id, role, status, position, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			agent.ID, agent.ProjectID, agent.Role, string(agent.Status), i, agent.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert agent: %w", err)
		}
		agents = append(agents, agent)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return agents, nil
}

// GetProject retrieves a project by ID.
func (s *SQLiteStore) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	return getProject(ctx, s.db, projectID)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getProject(ctx context.Context, q queryer, projectID string) (*models.Project, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, projectID)

	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ListProjectsByUser retrieves all projects owned by a user, oldest first.
func (s *SQLiteStore) ListProjectsByUser(ctx context.Context, userID string) ([]*models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY created_at, code`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects by user: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// ListAgentsByProject retrieves a project's agents in the order they were composed.
func (s *SQLiteStore) ListAgentsByProject(ctx context.Context, projectID string) ([]*models.AIAgent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, role, status, created_at
		 FROM ai_agents WHERE project_id = ? ORDER BY position`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []*models.AIAgent
	for rows.Next() {
		agent := &models.AIAgent{}
		var status string
		if err := rows.Scan(&agent.ID, &agent.ProjectID, &agent.Role, &status, &agent.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agent.Status = models.AgentStatus(status)
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate agents: %w", err)
	}

	return agents, nil
}

// StartProject moves a pending project to in_progress and activates its agents.
func (s *SQLiteStore) StartProject(ctx context.Context, projectID string) (*models.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE projects SET status = ? WHERE id = ? AND status = ?`,
		string(models.ProjectInProgress), projectID, string(models.ProjectPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	if n == 0 {
		// Distinguish a missing project from one in the wrong state.
		if _, err := getProject(ctx, tx, projectID); err != nil {
			return nil, err
		}
		return nil, storage.ErrInvalidTransition
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE ai_agents SET status = ? WHERE project_id = ? AND status = ?`,
		string(models.AgentActive), projectID, string(models.AgentAssigned),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to activate agents: %w", err)
	}

	project, err := getProject(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return project, nil
}

func scanProject(row rowScanner) (*models.Project, error) {
	project := &models.Project{}
	var status string
	var completedAt sql.NullInt64

	if err := row.Scan(
		&project.ID,
		&project.Code,
		&project.UserID,
		&project.Service,
		&project.Package,
		&project.Description,
		&status,
		&project.CreatedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}

	project.Status = models.ProjectStatus(status)
	project.CompletedAt = completedAt.Int64
	return project, nil
}
