package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/apexdigital/apex/pkg/api"
)

// ProjectServiceClient is a client for the apex.v1.ProjectService service.
type ProjectServiceClient interface {
	CreateProject(context.Context, *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.CreateProjectResponse], error)
	ListProjects(context.Context, *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error)
	GetProject(context.Context, *connect.Request[api.GetProjectRequest]) (*connect.Response[api.GetProjectResponse], error)
	StartProject(context.Context, *connect.Request[api.StartProjectRequest]) (*connect.Response[api.StartProjectResponse], error)
}

// NewProjectServiceClient constructs a client for the
// apex.v1.ProjectService service.
func NewProjectServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProjectServiceClient {
	opts = clientOptions(opts)
	return &projectServiceClient{
		createProject: connect.NewClient[api.CreateProjectRequest, api.CreateProjectResponse](
			httpClient, baseURL+ProjectServiceCreateProjectProcedure, opts...,
		),
		listProjects: connect.NewClient[api.ListProjectsRequest, api.ListProjectsResponse](
			httpClient, baseURL+ProjectServiceListProjectsProcedure, opts...,
		),
		getProject: connect.NewClient[api.GetProjectRequest, api.GetProjectResponse](
			httpClient, baseURL+ProjectServiceGetProjectProcedure, opts...,
		),
		startProject: connect.NewClient[api.StartProjectRequest, api.StartProjectResponse](
			httpClient, baseURL+ProjectServiceStartProjectProcedure, opts...,
		),
	}
}

type projectServiceClient struct {
	createProject *connect.Client[api.CreateProjectRequest, api.CreateProjectResponse]
	listProjects  *connect.Client[api.ListProjectsRequest, api.ListProjectsResponse]
	getProject    *connect.Client[api.GetProjectRequest, api.GetProjectResponse]
	startProject  *connect.Client[api.StartProjectRequest, api.StartProjectResponse]
}

func (c *projectServiceClient) CreateProject(ctx context.Context, req *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.CreateProjectResponse], error) {
	return c.createProject.CallUnary(ctx, req)
}

func (c *projectServiceClient) ListProjects(ctx context.Context, req *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error) {
	return c.listProjects.CallUnary(ctx, req)
}

func (c *projectServiceClient) GetProject(ctx context.Context, req *connect.Request[api.GetProjectRequest]) (*connect.Response[api.GetProjectResponse], error) {
	return c.getProject.CallUnary(ctx, req)
}

func (c *projectServiceClient) StartProject(ctx context.Context, req *connect.Request[api.StartProjectRequest]) (*connect.Response[api.StartProjectResponse], error) {
	return c.startProject.CallUnary(ctx, req)
}

// ProjectServiceHandler is implemented by the server for
// apex.v1.ProjectService.
type ProjectServiceHandler interface {
	CreateProject(context.Context, *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.CreateProjectResponse], error)
	ListProjects(context.Context, *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error)
	GetProject(context.Context, *connect.Request[api.GetProjectRequest]) (*connect.Response[api.GetProjectResponse], error)
	StartProject(context.Context, *connect.Request[api.StartProjectRequest]) (*connect.Response[api.StartProjectResponse], error)
}

// NewProjectServiceHandler builds an HTTP handler from the service
// implementation.
func NewProjectServiceHandler(svc ProjectServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createProject := connect.NewUnaryHandler(ProjectServiceCreateProjectProcedure, svc.CreateProject, opts...)
	listProjects := connect.NewUnaryHandler(ProjectServiceListProjectsProcedure, svc.ListProjects, opts...)
	getProject := connect.NewUnaryHandler(ProjectServiceGetProjectProcedure, svc.GetProject, opts...)
	startProject := connect.NewUnaryHandler(ProjectServiceStartProjectProcedure, svc.StartProject, opts...)
	return "/" + ProjectServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ProjectServiceCreateProjectProcedure:
			createProject.ServeHTTP(w, r)
		case ProjectServiceListProjectsProcedure:
			listProjects.ServeHTTP(w, r)
		case ProjectServiceGetProjectProcedure:
			getProject.ServeHTTP(w, r)
		case ProjectServiceStartProjectProcedure:
			startProject.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
