package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/apexdigital/apex/internal/apperr"
	"github.com/apexdigital/apex/internal/storage"
	"github.com/apexdigital/apex/pkg/api"
	"github.com/apexdigital/apex/pkg/api/apiconnect"
)

// AdminService implements the AdminService RPC interface. Every call
// requires the caller's stored role to be admin.
type AdminService struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewAdminService creates an admin service.
func NewAdminService(store storage.Store, logger *slog.Logger) *AdminService {
	return &AdminService{store: store, logger: logger, now: time.Now}
}

// DashboardStats reports revenue and project counts. Monthly revenue counts
// completed payments since the start of the current calendar month (UTC).
func (s *AdminService) DashboardStats(ctx context.Context, req *connect.Request[api.DashboardStatsRequest]) (*connect.Response[api.DashboardStatsResponse], error) {
	if _, err := requireAdmin(ctx, s.store); err != nil {
		return nil, toConnectError(s.logger, apiconnect.AdminServiceDashboardStatsProcedure, err)
	}

	stats, err := s.store.DashboardStats(ctx, monthStart(s.now()).Unix())
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.AdminServiceDashboardStatsProcedure,
			apperr.Wrap(apperr.KindPersistence, err, "failed to compute dashboard stats"))
	}

	return connect.NewResponse(&api.DashboardStatsResponse{
		TotalRevenue:   api.NewAmount(stats.TotalRevenue),
		MonthlyRevenue: api.NewAmount(stats.MonthlyRevenue),
		TotalProjects:  stats.TotalProjects,
		ActiveProjects: stats.ActiveProjects,
	}), nil
}

// ListUsers returns every account, oldest first.
func (s *AdminService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	if _, err := requireAdmin(ctx, s.store); err != nil {
		return nil, toConnectError(s.logger, apiconnect.AdminServiceListUsersProcedure, err)
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.AdminServiceListUsersProcedure,
			apperr.Wrap(apperr.KindPersistence, err, "failed to list users"))
	}

	out := make([]api.User, 0, len(users))
	for _, u := range users {
		out = append(out, *toAPIUser(u))
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
