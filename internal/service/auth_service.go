package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/apexdigital/apex/internal/apperr"
	"github.com/apexdigital/apex/internal/auth"
	"github.com/apexdigital/apex/internal/middleware"
	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/internal/storage"
	"github.com/apexdigital/apex/pkg/api"
	"github.com/apexdigital/apex/pkg/api/apiconnect"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         auth.UserStorage
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users auth.UserStorage, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new client account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Name:     req.Msg.Name,
		Email:    req.Msg.Email,
		Password: req.Msg.Password,
		Phone:    req.Msg.Phone,
		Company:  req.Msg.Company,
	})
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(s.logger, apiconnect.AuthServiceRegisterProcedure, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.AuthServiceRegisterProcedure,
			apperr.Wrap(apperr.KindPersistence, err, "failed to generate token"))
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{
		UserID: user.ID,
		User:   toAPIUser(user),
		Token:  token,
	}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if strings.TrimSpace(req.Msg.Email) == "" || req.Msg.Password == "" {
		return nil, toConnectError(s.logger, apiconnect.AuthServiceLoginProcedure,
			apperr.Validation("email and password are required"))
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(s.logger, apiconnect.AuthServiceLoginProcedure, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.AuthServiceLoginProcedure,
			apperr.Wrap(apperr.KindPersistence, err, "failed to generate token"))
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		User:      toAPIUser(user),
	}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	user, err := currentUser(ctx, s.users)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.AuthServiceGetCurrentUserProcedure, err)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

type userLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// currentUser loads the caller's account. A token whose user no longer
// exists is treated like a bad credential.
func currentUser(ctx context.Context, users userLookup) (*models.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, apperr.New(apperr.KindInvalidCredentials, "authentication required")
	}

	user, err := users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.New(apperr.KindInvalidCredentials, "account no longer exists")
		}
		return nil, apperr.Wrap(apperr.KindPersistence, err, "failed to load user")
	}
	return user, nil
}

// requireAdmin loads the caller and checks the stored role, so a demotion
// takes effect before the token expires.
func requireAdmin(ctx context.Context, users userLookup) (*models.User, error) {
	user, err := currentUser(ctx, users)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, apperr.New(apperr.KindUnauthorized, "admin access required")
	}
	return user, nil
}
