package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/apexdigital/apex/internal/auth"
	"github.com/apexdigital/apex/internal/middleware"
	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/internal/payment"
	"github.com/apexdigital/apex/internal/projectcode"
	"github.com/apexdigital/apex/internal/storage/sqlite"
	"github.com/apexdigital/apex/internal/team"
	"github.com/apexdigital/apex/pkg/api"
	"github.com/apexdigital/apex/pkg/api/apiconnect"
)

// recordingExecutor remembers which projects were handed off.
type recordingExecutor struct {
	mu       sync.Mutex
	projects []string
}

func (e *recordingExecutor) Execute(ctx context.Context, project *models.Project, agents []*models.AIAgent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.projects = append(e.projects, project.ID)
	return nil
}

func (e *recordingExecutor) started() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.projects...)
}

// sequenceCodes returns the given codes in order, repeating the last one.
type sequenceCodes struct {
	mu    sync.Mutex
	codes []string
}

func (g *sequenceCodes) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.codes[0]
	if len(g.codes) > 1 {
		g.codes = g.codes[1:]
	}
	return code
}

type declineGateway struct{}

func (declineGateway) Name() string { return "decline" }

func (declineGateway) Charge(ctx context.Context, charge payment.Charge) (payment.Outcome, error) {
	return payment.Outcome{Success: false, Message: "card declined"}, nil
}

type testOptions struct {
	gateway payment.Gateway
	codes   CodeGenerator
}

type testEnv struct {
	store    *sqlite.SQLiteStore
	executor *recordingExecutor

	auth     apiconnect.AuthServiceClient
	projects apiconnect.ProjectServiceClient
	payments apiconnect.PaymentServiceClient
	admin    apiconnect.AdminServiceClient
}

// setupTestServer creates a test server with every service behind the
// production interceptor chain.
func setupTestServer(t *testing.T, opts testOptions) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if opts.gateway == nil {
		opts.gateway = payment.NewSimulatedGateway()
	}
	if opts.codes == nil {
		opts.codes = projectcode.New()
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, bcrypt.MinCost)
	exec := &recordingExecutor{}

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		middleware.RequireAuth(jwtManager, apiconnect.PublicProcedures...),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewProjectServiceHandler(
		NewProjectService(store, team.NewComposer(nil), opts.codes, exec, logger), interceptors))
	mux.Handle(apiconnect.NewPaymentServiceHandler(
		NewPaymentService(store, payment.NewProcessor(opts.gateway, "ZAR", logger), logger), interceptors))
	mux.Handle(apiconnect.NewAdminServiceHandler(
		NewAdminService(store, logger), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		store:    store,
		executor: exec,
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		projects: apiconnect.NewProjectServiceClient(http.DefaultClient, server.URL),
		payments: apiconnect.NewPaymentServiceClient(http.DefaultClient, server.URL),
		admin:    apiconnect.NewAdminServiceClient(http.DefaultClient, server.URL),
	}
}

// register signs up a user and returns its id and session token.
func (e *testEnv) register(t *testing.T, name, email string) (string, string) {
	t.Helper()

	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "correct-horse",
	}))
	require.NoError(t, err)
	return resp.Msg.UserID, resp.Msg.Token
}

// registerAdmin signs up a user and promotes it to admin.
func (e *testEnv) registerAdmin(t *testing.T, email string) (string, string) {
	t.Helper()

	id, token := e.register(t, "Admin", email)
	require.NoError(t, e.store.SetUserRole(context.Background(), email, models.RoleAdmin))
	return id, token
}

// authed wraps msg in a request carrying the bearer token.
func authed[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}
