package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/apexdigital/apex/internal/apperr"
	"github.com/apexdigital/apex/internal/auth"
	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/pkg/api"
	"github.com/apexdigital/apex/pkg/api/apiconnect"
)

// echoAuthService reports the identity the interceptors placed in the context.
type echoAuthService struct{}

func (echoAuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return connect.NewResponse(&api.RegisterResponse{UserID: GetUserID(ctx)}), nil
}

func (echoAuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return connect.NewResponse(&api.LoginResponse{}), nil
}

func (echoAuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return connect.NewResponse(&api.GetCurrentUserResponse{User: &api.User{
		ID: GetUserID(ctx),
	}}), nil
}

func setupInterceptorServer(t *testing.T, interceptors ...connect.Interceptor) apiconnect.AuthServiceClient {
	t.Helper()

	path, handler := apiconnect.NewAuthServiceHandler(echoAuthService{}, connect.WithInterceptors(interceptors...))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
}

func errorKind(t *testing.T, err error) string {
	t.Helper()
	var connectErr *connect.Error
	require.ErrorAs(t, err, &connectErr)
	return connectErr.Meta().Get(api.ErrorKindHeader)
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	client := setupInterceptorServer(t,
		LoggingInterceptor(nil),
		RequireAuth(jwtManager, apiconnect.PublicProcedures...),
	)
	ctx := context.Background()

	t.Run("public procedure needs no token", func(t *testing.T) {
		resp, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{}))
		require.NoError(t, err)
		require.Empty(t, resp.Msg.UserID)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		require.Equal(t, string(apperr.KindInvalidCredentials), errorKind(t, err))
	})

	t.Run("malformed header", func(t *testing.T) {
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Token abc")
		_, err := client.GetCurrentUser(ctx, req)
		require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("token from another secret", func(t *testing.T) {
		other := auth.NewJWTManager("other-secret", time.Hour)
		token, err := other.Generate(&models.User{ID: "u1", Email: "a@example.com", Role: models.RoleClient})
		require.NoError(t, err)

		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Bearer "+token)
		_, err = client.GetCurrentUser(ctx, req)
		require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		require.Equal(t, string(apperr.KindInvalidCredentials), errorKind(t, err))
	})

	t.Run("valid token populates context", func(t *testing.T) {
		token, err := jwtManager.Generate(&models.User{ID: "u1", Email: "a@example.com", Role: models.RoleAdmin})
		require.NoError(t, err)

		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Bearer "+token)
		resp, err := client.GetCurrentUser(ctx, req)
		require.NoError(t, err)
		require.Equal(t, "u1", resp.Msg.User.ID)
	})
}

func TestRateLimiterAllow(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2)
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.Allow("10.0.0.1:5000"))
	require.True(t, limiter.Allow("10.0.0.1:5001"))
	require.False(t, limiter.Allow("10.0.0.1:5002"), "same host, different port shares a bucket")
	require.True(t, limiter.Allow("10.0.0.2:5000"))

	now = now.Add(30 * time.Second)
	require.True(t, limiter.Allow("10.0.0.1:5000"))
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(0)
	for range 100 {
		require.True(t, limiter.Allow("10.0.0.1:5000"))
	}
}

func TestRateLimiterInterceptor(t *testing.T) {
	limiter := NewRateLimiter(1, apiconnect.AuthServiceLoginProcedure)
	client := setupInterceptorServer(t, limiter.Interceptor())
	ctx := context.Background()

	_, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{}))
	require.NoError(t, err)

	_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{}))
	require.Equal(t, connect.CodeResourceExhausted, connect.CodeOf(err))
	require.Equal(t, string(apperr.KindRateLimited), errorKind(t, err))

	// Procedures outside the list are never throttled.
	_, err = client.Register(ctx, connect.NewRequest(&api.RegisterRequest{}))
	require.NoError(t, err)
}
