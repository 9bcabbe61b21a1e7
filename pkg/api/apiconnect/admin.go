package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/apexdigital/apex/pkg/api"
)

// AdminServiceClient is a client for the apex.v1.AdminService service.
type AdminServiceClient interface {
	DashboardStats(context.Context, *connect.Request[api.DashboardStatsRequest]) (*connect.Response[api.DashboardStatsResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewAdminServiceClient constructs a client for the apex.v1.AdminService
// service.
func NewAdminServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AdminServiceClient {
	opts = clientOptions(opts)
	return &adminServiceClient{
		dashboardStats: connect.NewClient[api.DashboardStatsRequest, api.DashboardStatsResponse](
			httpClient, baseURL+AdminServiceDashboardStatsProcedure, opts...,
		),
		listUsers: connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](
			httpClient, baseURL+AdminServiceListUsersProcedure, opts...,
		),
	}
}

type adminServiceClient struct {
	dashboardStats *connect.Client[api.DashboardStatsRequest, api.DashboardStatsResponse]
	listUsers      *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
}

func (c *adminServiceClient) DashboardStats(ctx context.Context, req *connect.Request[api.DashboardStatsRequest]) (*connect.Response[api.DashboardStatsResponse], error) {
	return c.dashboardStats.CallUnary(ctx, req)
}

func (c *adminServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

// AdminServiceHandler is implemented by the server for apex.v1.AdminService.
type AdminServiceHandler interface {
	DashboardStats(context.Context, *connect.Request[api.DashboardStatsRequest]) (*connect.Response[api.DashboardStatsResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewAdminServiceHandler builds an HTTP handler from the service
// implementation.
func NewAdminServiceHandler(svc AdminServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	dashboardStats := connect.NewUnaryHandler(AdminServiceDashboardStatsProcedure, svc.DashboardStats, opts...)
	listUsers := connect.NewUnaryHandler(AdminServiceListUsersProcedure, svc.ListUsers, opts...)
	return "/" + AdminServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AdminServiceDashboardStatsProcedure:
			dashboardStats.ServeHTTP(w, r)
		case AdminServiceListUsersProcedure:
			listUsers.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
