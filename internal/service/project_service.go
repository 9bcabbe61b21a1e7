package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/apexdigital/apex/internal/apperr"
	"github.com/apexdigital/apex/internal/executor"
	"github.com/apexdigital/apex/internal/metrics"
	"github.com/apexdigital/apex/internal/middleware"
	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/internal/storage"
	"github.com/apexdigital/apex/internal/team"
	"github.com/apexdigital/apex/pkg/api"
	"github.com/apexdigital/apex/pkg/api/apiconnect"
)

// maxCodeAttempts bounds project code regeneration after collisions.
const maxCodeAttempts = 5

// CodeGenerator produces candidate project codes.
type CodeGenerator interface {
	Generate() string
}

// ProjectService implements the ProjectService RPC interface.
type ProjectService struct {
	store    storage.Store
	composer *team.Composer
	codes    CodeGenerator
	executor executor.TaskExecutor
	logger   *slog.Logger
}

// NewProjectService creates a project service.
func NewProjectService(store storage.Store, composer *team.Composer, codes CodeGenerator, exec executor.TaskExecutor, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		store:    store,
		composer: composer,
		codes:    codes,
		executor: exec,
		logger:   logger,
	}
}

// CreateProject composes a team for the requested service and package, then
// persists the project and its agents under a fresh code.
func (s *ProjectService) CreateProject(ctx context.Context, req *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.CreateProjectResponse], error) {
	userID := middleware.GetUserID(ctx)
	s.logger.Info("CreateProject request", "user_id", userID, "service", req.Msg.Service, "package", req.Msg.Package)

	project, agents, err := s.createProject(ctx, userID, req.Msg)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.ProjectServiceCreateProjectProcedure, err)
	}

	metrics.RecordProjectCreated(project.Service, project.Package)
	s.logger.Info("Project created", "project_id", project.ID, "code", project.Code, "agents", len(agents))

	return connect.NewResponse(&api.CreateProjectResponse{
		ProjectID:   project.ID,
		ProjectCode: project.Code,
		Project:     toAPIProject(project, agents),
	}), nil
}

func (s *ProjectService) createProject(ctx context.Context, userID string, msg *api.CreateProjectRequest) (*models.Project, []*models.AIAgent, error) {
	if userID == "" {
		return nil, nil, apperr.New(apperr.KindInvalidCredentials, "authentication required")
	}
	description := strings.TrimSpace(msg.Description)
	if description == "" {
		return nil, nil, apperr.Validation("description is required")
	}

	// The team is composed before anything is written, so an unknown
	// service leaves no trace.
	svc, err := team.ParseService(msg.Service)
	if err != nil {
		return nil, nil, err
	}
	pkg, err := team.ParsePackage(msg.Package)
	if err != nil {
		return nil, nil, err
	}
	roles, err := s.composer.Compose(svc, pkg)
	if err != nil {
		return nil, nil, err
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		project := &models.Project{
			Code:        s.codes.Generate(),
			UserID:      userID,
			Service:     svc.String(),
			Package:     string(pkg),
			Description: description,
			Status:      models.ProjectPending,
		}

		agents, err := s.store.CreateProjectWithAgents(ctx, project, roles)
		if err == nil {
			return project, agents, nil
		}
		if !errors.Is(err, storage.ErrDuplicateCode) {
			return nil, nil, apperr.Wrap(apperr.KindPersistence, err, "failed to create project")
		}

		metrics.RecordCodeCollision()
		s.logger.Warn("Project code collision", "code", project.Code, "attempt", attempt)
	}

	return nil, nil, apperr.New(apperr.KindPersistence, "could not allocate a unique project code after %d attempts", maxCodeAttempts)
}

// ListProjects returns the caller's projects with their agents, oldest first.
func (s *ProjectService) ListProjects(ctx context.Context, req *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error) {
	userID := middleware.GetUserID(ctx)

	projects, err := s.store.ListProjectsByUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.ProjectServiceListProjectsProcedure,
			apperr.Wrap(apperr.KindPersistence, err, "failed to list projects"))
	}

	out := make([]api.Project, 0, len(projects))
	for _, p := range projects {
		agents, err := s.store.ListAgentsByProject(ctx, p.ID)
		if err != nil {
			return nil, toConnectError(s.logger, apiconnect.ProjectServiceListProjectsProcedure,
				apperr.Wrap(apperr.KindPersistence, err, "failed to list agents"))
		}
		out = append(out, *toAPIProject(p, agents))
	}

	s.logger.Debug("Listed projects", "user_id", userID, "count", len(out))
	return connect.NewResponse(&api.ListProjectsResponse{Projects: out}), nil
}

// GetProject returns one project with its agents. Only the owner or an
// admin may read it; anyone else gets not found.
func (s *ProjectService) GetProject(ctx context.Context, req *connect.Request[api.GetProjectRequest]) (*connect.Response[api.GetProjectResponse], error) {
	project, agents, err := s.getProject(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.ProjectServiceGetProjectProcedure, err)
	}
	return connect.NewResponse(&api.GetProjectResponse{Project: toAPIProject(project, agents)}), nil
}

func (s *ProjectService) getProject(ctx context.Context, projectID string) (*models.Project, []*models.AIAgent, error) {
	if projectID == "" {
		return nil, nil, apperr.Validation("project_id is required")
	}
	user, err := currentUser(ctx, s.store)
	if err != nil {
		return nil, nil, err
	}

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, apperr.New(apperr.KindNotFound, "project not found")
		}
		return nil, nil, apperr.Wrap(apperr.KindPersistence, err, "failed to get project")
	}
	if project.UserID != user.ID && !user.IsAdmin() {
		return nil, nil, apperr.New(apperr.KindNotFound, "project not found")
	}

	agents, err := s.store.ListAgentsByProject(ctx, project.ID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindPersistence, err, "failed to list agents")
	}
	return project, agents, nil
}

// StartProject moves a pending project to in_progress, activates its agents
// and hands it to the task executor. Admin only.
func (s *ProjectService) StartProject(ctx context.Context, req *connect.Request[api.StartProjectRequest]) (*connect.Response[api.StartProjectResponse], error) {
	project, agents, err := s.startProject(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.ProjectServiceStartProjectProcedure, err)
	}
	return connect.NewResponse(&api.StartProjectResponse{Project: toAPIProject(project, agents)}), nil
}

func (s *ProjectService) startProject(ctx context.Context, projectID string) (*models.Project, []*models.AIAgent, error) {
	if _, err := requireAdmin(ctx, s.store); err != nil {
		return nil, nil, err
	}
	if projectID == "" {
		return nil, nil, apperr.Validation("project_id is required")
	}

	project, err := s.store.StartProject(ctx, projectID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, nil, apperr.New(apperr.KindNotFound, "project not found")
		case errors.Is(err, storage.ErrInvalidTransition):
			return nil, nil, apperr.Validation("only pending projects can be started")
		default:
			return nil, nil, apperr.Wrap(apperr.KindPersistence, err, "failed to start project")
		}
	}

	agents, err := s.store.ListAgentsByProject(ctx, project.ID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindPersistence, err, "failed to list agents")
	}

	// The status change is already committed; an executor failure is
	// reported in the logs only.
	if err := s.executor.Execute(ctx, project, agents); err != nil {
		s.logger.Error("Task executor failed", "project_id", project.ID, "error", err)
	}

	s.logger.Info("Project started", "project_id", project.ID, "code", project.Code)
	return project, agents, nil
}
