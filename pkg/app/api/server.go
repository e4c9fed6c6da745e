// Package api implements app.Runner for the registry API server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/rentgrid/registry-middleware/pkg/app/http"
	"github.com/rentgrid/registry-middleware/pkg/assetstore"
	"github.com/rentgrid/registry-middleware/pkg/config"
	"github.com/rentgrid/registry-middleware/pkg/contracttx"
	"github.com/rentgrid/registry-middleware/pkg/eventstore"
	"github.com/rentgrid/registry-middleware/pkg/filestore"
	"github.com/rentgrid/registry-middleware/pkg/pgutil"
	"github.com/rentgrid/registry-middleware/pkg/processstore"
	"github.com/rentgrid/registry-middleware/pkg/projector"
	"github.com/rentgrid/registry-middleware/pkg/registry"
	"github.com/rentgrid/registry-middleware/pkg/webhook"
)

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run starts the registry API server. It blocks until an OS shutdown signal
// is received or a fatal server error occurs.
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

	logger.Info("Starting registry API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("contract", cfg.Registry.ContractAddress),
	)

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() { _ = db.Close() }()

	logger.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	events := eventstore.NewStore(db)
	assets := assetstore.NewStore(db)
	processes := processstore.NewStore(db)

	uploads, err := filestore.NewLocal(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("setup upload storage: %w", err)
	}

	proj := projector.New(assets, processes, processes, logger)
	registryService := registry.NewService(events, assets, processes, proj, logger)
	webhookHandler := webhook.NewHandler(events, proj, cfg, logger)

	if cfg.Webhook.SigningKey == "" {
		logger.Warn("Webhook signing key is not configured; deliveries will be rejected")
	}

	router := s.setupRouter(registryService, webhookHandler, uploads, logger)

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) setupRouter(
	registryService registry.Service,
	webhookHandler *webhook.Handler,
	uploads filestore.Store,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		registry.RegisterRoutes(r, registryService, logger)
		contracttx.RegisterRoutes(r, s.cfg, logger)
		filestore.RegisterRoutes(r, uploads, s.cfg.Uploads.MaxSizeBytes, logger)
		r.Post("/webhooks/registry", apphttp.HandleError(webhookHandler.HandleDelivery))
	})

	return r
}
