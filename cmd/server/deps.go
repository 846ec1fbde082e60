package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/reflectionapp/reflection/api/internal/config"
	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/handler"
	"github.com/reflectionapp/reflection/api/internal/middleware"
	"github.com/reflectionapp/reflection/api/internal/repository"
	"github.com/reflectionapp/reflection/api/internal/seed"
	"github.com/reflectionapp/reflection/api/internal/service"
	"github.com/reflectionapp/reflection/api/internal/telemetry"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// Store
	Store *repository.GuardedStore

	// Services
	Telemetry   telemetry.Client
	Values      *service.ValuesServices
	AuthService *service.AuthService

	// Handlers
	HealthHandler     *handler.HealthHandler
	DocsHandler       *handler.DocsHandler
	TablesHandler     *handler.TablesHandler
	ConfidenceHandler *handler.ValuesHandler[domain.ConfidenceValue]
	EnergyHandler     *handler.ValuesHandler[domain.EnergyValue]
	FocusHandler      *handler.ValuesHandler[domain.FocusValue]

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware
}

// initDependencies initializes all dependencies
func initDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	store, err := repository.OpenGuarded(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	logger.Info("table store ready", zap.String("backend", store.Backend()))

	if cfg.Store.SeedFile != "" {
		if err := seedStore(ctx, store, cfg.Store.SeedFile, logger); err != nil {
			store.Close()
			return nil, err
		}
	}

	return newDependencies(cfg, logger, store), nil
}

// seedStore applies a seed file through the guarded store
func seedStore(ctx context.Context, store *repository.GuardedStore, path string, logger *zap.Logger) error {
	f, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	if _, err := seed.Apply(ctx, store, f, logger.With(zap.String("seed_file", path))); err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}
	return nil
}

// newDependencies wires services and handlers on an open store
func newDependencies(cfg *config.Config, logger *zap.Logger, store *repository.GuardedStore) *Dependencies {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		Store:  store,
	}

	deps.Telemetry = telemetry.NewRecorder(logger, cfg.Sentry.Enabled())
	deps.Values = service.NewValuesServices(store, deps.Telemetry, logger)
	deps.AuthService = service.NewAuthService(cfg)

	deps.HealthHandler = handler.NewHealthHandler(store, cfg.Server.Version)
	deps.DocsHandler = handler.NewDocsHandler()
	deps.TablesHandler = handler.NewTablesHandler()
	deps.ConfidenceHandler = handler.NewValuesHandler(deps.Values.Confidence, logger)
	deps.EnergyHandler = handler.NewValuesHandler(deps.Values.Energy, logger)
	deps.FocusHandler = handler.NewValuesHandler(deps.Values.Focus, logger)

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.AuthService)

	return deps
}

// Close releases the store connection
func (d *Dependencies) Close() {
	if d.Store == nil {
		return
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.Error("failed to close store", zap.Error(err))
	}
}
