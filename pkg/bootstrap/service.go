package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	shared "github.com/fitglue/coursemap/pkg"
	"github.com/fitglue/coursemap/pkg/domain/maptiles"
	"github.com/fitglue/coursemap/pkg/infrastructure/sentry"
	"github.com/fitglue/coursemap/pkg/infrastructure/storage"
	"github.com/fitglue/coursemap/pkg/infrastructure/tiles"
	"github.com/fitglue/coursemap/pkg/infrastructure/timezone"
)

// Service holds initialized dependencies
type Service struct {
	Store *storage.Router
	// Tiles is nil when no tile source is configured.
	Tiles  maptiles.TileSource
	Zones  shared.ZoneLocator
	Config *Config
	Logger *slog.Logger
}

// NewService initializes storage, the tile source, the time zone locator and Sentry.
func NewService(ctx context.Context, cfg *Config, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Initializing service", "project_id", cfg.ProjectID, "tile_source", cfg.TileSource)

	if err := sentry.Init(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
	}, logger); err != nil {
		return nil, err
	}

	svc := &Service{
		Store:  storage.NewRouter(cfg.CredentialsFile),
		Config: cfg,
		Logger: logger,
	}

	if cfg.TileSource != "" {
		src, err := tiles.NewStoreSource(svc.Store, cfg.TileSource)
		if err != nil {
			return nil, err
		}
		svc.Tiles = src
	}

	zones, err := timezone.NewLocator()
	if err != nil {
		logger.Warn("Time zone lookup disabled, start times will be shown in UTC", "error", err)
	} else {
		svc.Zones = zones
	}
	return svc, nil
}
