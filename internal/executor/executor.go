// Package executor hands started projects to whatever runs the agent work.
package executor

import (
	"context"
	"log/slog"

	"github.com/apexdigital/apex/internal/models"
)

// TaskExecutor runs the work for a project's agents.
type TaskExecutor interface {
	Execute(ctx context.Context, project *models.Project, agents []*models.AIAgent) error
}

// LogExecutor records the hand-off and does nothing else. It stands in until
// a real agent runtime is integrated.
type LogExecutor struct {
	logger *slog.Logger
}

// NewLogExecutor creates a LogExecutor.
func NewLogExecutor(logger *slog.Logger) *LogExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogExecutor{logger: logger}
}

func (e *LogExecutor) Execute(ctx context.Context, project *models.Project, agents []*models.AIAgent) error {
	roles := make([]string, len(agents))
	for i, a := range agents {
		roles[i] = a.Role
	}
	e.logger.InfoContext(ctx, "Starting project tasks",
		"project_id", project.ID,
		"project_code", project.Code,
		"agents", roles,
	)
	return nil
}
