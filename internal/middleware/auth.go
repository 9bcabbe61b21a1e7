package middleware

import (
	"context"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/apexdigital/apex/internal/apperr"
	"github.com/apexdigital/apex/internal/auth"
	"github.com/apexdigital/apex/pkg/api"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserIDKey is the context key for storing the authenticated user ID.
const UserIDKey contextKey = "user_id"

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	if caller, ok := ctx.Value(callerKey).(*callerInfo); ok {
		caller.userID = claims.UserID
	}
	return context.WithValue(ctx, UserIDKey, claims.UserID)
}

// RequireAuth returns an interceptor that validates JWT tokens and requires
// authentication for every procedure except those listed in public.
// It extracts the token from the Authorization header, validates it, and adds
// the user ID to the request context. Services re-read email and role from
// storage.
func RequireAuth(jwtManager *auth.JWTManager, public ...string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if slices.Contains(public, req.Spec().Procedure) {
				return next(ctx, req)
			}

			claims, err := claimsFromHeader(jwtManager, req.Header().Get("Authorization"))
			if err != nil {
				return nil, kindError(connect.CodeUnauthenticated, apperr.KindInvalidCredentials, err)
			}

			return next(withClaims(ctx, claims), req)
		}
	}
}

func claimsFromHeader(jwtManager *auth.JWTManager, authHeader string) (*auth.Claims, error) {
	if authHeader == "" {
		return nil, auth.ErrMissingToken
	}

	// Parse Bearer token
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, auth.ErrInvalidToken
	}

	return jwtManager.Validate(parts[1])
}

// kindError builds a connect error tagged with kind in the Error-Kind
// header, the same way the service layer reports its errors.
func kindError(code connect.Code, kind apperr.Kind, err error) *connect.Error {
	connectErr := connect.NewError(code, err)
	connectErr.Meta().Set(api.ErrorKindHeader, string(kind))
	return connectErr
}
