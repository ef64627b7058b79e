// Package api implements app.Runner for the waitlist API server process.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/waitlist-api/pkg/app/http"
	"github.com/chainsafe/waitlist-api/pkg/auth"
	"github.com/chainsafe/waitlist-api/pkg/config"
	"github.com/chainsafe/waitlist-api/pkg/entrystore"
	"github.com/chainsafe/waitlist-api/pkg/mailer"
	"github.com/chainsafe/waitlist-api/pkg/pgutil"
	waitlistservice "github.com/chainsafe/waitlist-api/pkg/waitlist/service"
)

const defaultRequestTimeout = 60

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting waitlist API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return err
	}
	// Closed after ServeAndWait returns so in-flight store operations
	// finish before the connection pool is released.
	defer func() { _ = db.Close() }()

	store := entrystore.NewStore(db)

	mail, err := mailer.New(&cfg.Email)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	verifier := auth.NewAdminVerifier(cfg.Admin.WalletAddress)
	logger.Info("Admin identity configured", zap.String("admin_address", auth.NormalizeAddress(cfg.Admin.WalletAddress)))

	svc := waitlistservice.NewService(store, mail, logger)
	router := s.setupRouter(waitlistservice.NewLog(svc, logger), verifier, logger)

	stopMetrics := s.startMetricsServer(logger)
	defer stopMetrics()

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) setupRouter(
	svc waitlistservice.Service,
	verifier auth.AdminVerifier,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Second * defaultRequestTimeout))
	if s.cfg.RateLimit.MaxInflight > 0 {
		r.Use(middleware.Throttle(s.cfg.RateLimit.MaxInflight))
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Waitlist endpoints
	waitlistservice.RegisterRoutes(r, svc, verifier, logger)

	return r
}

// startMetricsServer exposes /metrics on the monitoring port when enabled.
// The returned stopper shuts the listener down.
func (s *Server) startMetricsServer(logger *zap.Logger) func() {
	if !s.cfg.Monitoring.Enabled {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Monitoring.MetricsPort),
		Handler: mux,
	}

	go func() {
		logger.Info("Metrics server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
