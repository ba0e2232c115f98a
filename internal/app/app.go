// Package app wires together every Aether control-plane process: the HTTP
// API and the Herald action-delivery worker share this package's
// config/logger/database/telemetry bootstrap. The Kubernetes operator has
// its own entrypoint (cmd/aether-operator) since controller-runtime owns
// that process's lifecycle instead of this package's Run loop.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/go-chi/chi/v5"

	"github.com/aetherhq/control-plane/internal/auth"
	"github.com/aetherhq/control-plane/internal/config"
	"github.com/aetherhq/control-plane/internal/httpserver"
	"github.com/aetherhq/control-plane/internal/platform"
	"github.com/aetherhq/control-plane/internal/telemetry"
	"github.com/aetherhq/control-plane/pkg/action"
	"github.com/aetherhq/control-plane/pkg/dataplane"
	"github.com/aetherhq/control-plane/pkg/deployment"
	"github.com/aetherhq/control-plane/pkg/herald"
	"github.com/aetherhq/control-plane/pkg/organisation"
	"github.com/aetherhq/control-plane/pkg/role"
	"github.com/aetherhq/control-plane/pkg/user"
)

// Run starts the process selected by cfg.Mode and blocks until ctx is
// cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := telemetry.NewLogger(cfg.LogFormat, cfg.LogLevel)

	pool, err := platform.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer pool.Close()

	if err := platform.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	switch cfg.Mode {
	case "api":
		return runAPI(ctx, cfg, logger, pool)
	case "herald":
		return runHerald(ctx, cfg, logger)
	default:
		return fmt.Errorf("unknown AETHER_MODE %q (operator mode runs via cmd/aether-operator)", cfg.Mode)
	}
}

// runAPI serves the HTTP control-plane API until ctx is cancelled.
func runAPI(ctx context.Context, cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) error {
	rdb, err := platform.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer rdb.Close()

	metricsReg := telemetry.NewMetricsRegistry(telemetry.All()...)

	validator, err := auth.NewOIDCValidator(ctx, cfg.OIDCIssuerURL, cfg.OIDCAudience)
	if err != nil {
		return fmt.Errorf("creating OIDC validator: %w", err)
	}

	srv := httpserver.NewServer(cfg, logger, pool, rdb, metricsReg, validator)
	mountRoutes(srv, logger, pool)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", "addr", cfg.ListenAddr())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down api server")
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	}
}

// mountRoutes wires every domain handler onto srv.APIRouter.
func mountRoutes(srv *httpserver.Server, logger *slog.Logger, pool *pgxpool.Pool) {
	organisationStore := organisation.NewStore(pool)
	organisationService := organisation.NewService(pool, organisationStore)
	organisationHandler := organisation.NewHandler(logger, organisationService)

	roleStore := role.NewStore(pool)
	roleService := role.NewService(roleStore)
	roleHandler := role.NewHandler(logger, roleService)

	dataplaneStore := dataplane.NewStore(pool)
	dataplaneService := dataplane.NewService(dataplaneStore)
	dataplaneHandler := dataplane.NewHandler(logger, dataplaneService)

	actionStore := action.NewStore(pool)
	actionService := action.NewService(actionStore)
	actionHandler := action.NewHandler(logger, actionService)

	deploymentStore := deployment.NewStore(pool)
	deploymentService := deployment.NewService(deploymentStore, dataplaneService, roleService, actionService)
	deploymentHandler := deployment.NewHandler(logger, deploymentService)

	userStore := user.NewStore(pool)
	userService := user.NewService(userStore)
	userHandler := user.NewHandler(logger, userService)

	r := srv.APIRouter
	r.Mount("/organisations", organisationHandler.Routes())
	r.Mount("/organisations/{organisationID}/roles", roleHandler.Routes())
	r.Mount("/organisations/{organisationID}/deployments", deploymentHandler.Routes())
	r.Mount("/dataplanes", dataplaneHandler.Routes())
	r.Mount("/dataplanes/{dataPlaneID}/deployments", deploymentHandler.DataPlaneRoutes())
	r.Mount("/users", userHandler.Routes())

	r.Route("/deployments/{deploymentID}/actions", func(r chi.Router) {
		r.Use(auth.RequireService)
		r.Mount("/", actionHandler.Routes())
	})
}

// runHerald runs the Herald tick loop for the data plane named by
// cfg.HeraldDataPlaneID until ctx is cancelled.
func runHerald(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dataPlaneID, err := uuid.Parse(cfg.HeraldDataPlaneID)
	if err != nil {
		return fmt.Errorf("parsing HERALD_DATAPLANE_ID: %w", err)
	}

	controlPlane := herald.NewControlPlaneClient(herald.ClientConfig{
		BaseURL:      cfg.HeraldControlPlaneURL,
		ClientID:     cfg.HeraldClientID,
		ClientSecret: cfg.HeraldClientSecret,
		TokenURL:     cfg.HeraldControlPlaneURL + "/oauth/token",
	})

	publisher, err := herald.NewPublisher(herald.PublisherConfig{
		URL:          cfg.AMQPURL,
		Exchange:     cfg.AMQPExchange,
		ExchangeType: cfg.AMQPExchangeType,
	})
	if err != nil {
		return fmt.Errorf("connecting to message bus: %w", err)
	}
	defer publisher.Close()

	worker := herald.NewWorker(controlPlane, publisher, dataPlaneID, cfg.HeraldClaimBatchSize, int(cfg.HeraldLeaseDuration.Seconds()), logger)

	herald.RunTickLoop(ctx, worker, cfg.HeraldTickInterval, logger)
	return nil
}
