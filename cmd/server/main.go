package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/apexdigital/apex/internal/auth"
	"github.com/apexdigital/apex/internal/config"
	"github.com/apexdigital/apex/internal/executor"
	"github.com/apexdigital/apex/internal/metrics"
	"github.com/apexdigital/apex/internal/middleware"
	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/internal/payment"
	"github.com/apexdigital/apex/internal/projectcode"
	"github.com/apexdigital/apex/internal/service"
	"github.com/apexdigital/apex/internal/storage"
	"github.com/apexdigital/apex/internal/storage/sqlite"
	"github.com/apexdigital/apex/internal/team"
	"github.com/apexdigital/apex/pkg/api/apiconnect"
	"github.com/apexdigital/apex/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.SetupWithLevel(cfg.Level())

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AdminEmail != "" {
		promoteAdmin(ctx, store, cfg.AdminEmail, logger)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newHandler(cfg, store, newGateway(cfg), logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}()

	logger.Info("Connect server starting",
		"address", srv.Addr,
		"url", fmt.Sprintf("http://localhost%s", srv.Addr),
		"payment_gateway", cfg.PaymentGateway,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func newGateway(cfg *config.Config) payment.Gateway {
	if cfg.PaymentGateway == config.GatewayStripe {
		return payment.NewStripeGateway(cfg.StripeSecretKey)
	}
	return payment.NewSimulatedGateway()
}

// roleSetter is satisfied by stores that support out-of-band role changes.
type roleSetter interface {
	SetUserRole(ctx context.Context, email string, role models.Role) error
}

// promoteAdmin grants the admin role to an already registered account.
func promoteAdmin(ctx context.Context, store roleSetter, email string, logger *slog.Logger) {
	email = strings.ToLower(strings.TrimSpace(email))
	err := store.SetUserRole(ctx, email, models.RoleAdmin)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logger.Warn("ADMIN_EMAIL is not registered yet", "email", email)
	case err != nil:
		logger.Error("Failed to promote admin", "email", email, "error", err)
	default:
		logger.Info("Admin role granted", "email", email)
	}
}

// newHandler assembles the RPC services, health and metrics endpoints
// behind CORS and h2c.
func newHandler(cfg *config.Config, store storage.Store, gateway payment.Gateway, logger *slog.Logger) http.Handler {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store, cfg.BcryptCost)
	limiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, apiconnect.PublicProcedures...)

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		limiter.Interceptor(),
		middleware.RequireAuth(jwtManager, apiconnect.PublicProcedures...),
	)

	authSvc := service.NewAuthService(authenticator, jwtManager, store, logger)
	projectSvc := service.NewProjectService(store, team.NewComposer(nil), projectcode.New(), executor.NewLogExecutor(logger), logger)
	paymentSvc := service.NewPaymentService(store, payment.NewProcessor(gateway, cfg.DefaultCurrency, logger), logger)
	adminSvc := service.NewAdminService(store, logger)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, interceptors))
	mux.Handle(apiconnect.NewProjectServiceHandler(projectSvc, interceptors))
	mux.Handle(apiconnect.NewPaymentServiceHandler(paymentSvc, interceptors))
	mux.Handle(apiconnect.NewAdminServiceHandler(adminSvc, interceptors))

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /{$}", healthHandler(store, logger))

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms", "Error-Kind"},
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	return h2c.NewHandler(loggingMiddleware(logger, c.Handler(mux)), &http2.Server{})
}

// healthHandler reports 503 while the database cannot be reached.
func healthHandler(store storage.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		if err := store.Ping(ctx); err != nil {
			logger.Error("Health check failed", "error", err)
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  status,
			"service": "apex",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
