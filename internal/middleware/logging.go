package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/apexdigital/apex/internal/metrics"
)

// callerInfo lets interceptors nested inside LoggingInterceptor report the
// authenticated user back to it.
type callerInfo struct {
	userID string
}

const callerKey contextKey = "caller"

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and records it in the RPC metrics.
// It logs the procedure name, user ID, duration, and any error codes/messages.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			caller := &callerInfo{userID: GetUserID(ctx)}

			resp, err := next(context.WithValue(ctx, callerKey, caller), req)

			userID := caller.userID // empty if the call never authenticated
			elapsed := time.Since(start)
			duration := elapsed.Milliseconds()
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					metrics.RecordRPC(procedure, connectErr.Code().String(), elapsed)
					logger.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"user_id", userID,
						"duration_ms", duration,
					)
				} else {
					metrics.RecordRPC(procedure, connect.CodeUnknown.String(), elapsed)
					logger.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"user_id", userID,
						"duration_ms", duration,
					)
				}
			} else {
				metrics.RecordRPC(procedure, "ok", elapsed)
				logger.Info("RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}
