package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/Noor7086/Obyyo-sub002/internal/config"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

// Runner keeps a catalog fresh until its context is done.
type Runner func(ctx context.Context)

// FromConfig builds the catalog selected by the catalog section of cfg. The
// returned Runner is nil when the source needs no background work.
func FromConfig(full *config.Config, logger *slog.Logger, onReload ReloadFunc) (lottery.Catalog, Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := full.Catalog

	switch cfg.Source {
	case "", config.CatalogStatic:
		return lottery.DefaultCatalog(), nil, nil

	case config.CatalogFile:
		fc, err := NewFileCatalog(cfg.FilePath, logger, onReload)
		if err != nil {
			return nil, nil, err
		}
		if !cfg.Watch {
			return fc, nil, nil
		}
		return fc, func(ctx context.Context) {
			if err := fc.Watch(ctx); err != nil {
				logger.Error("catalog watcher stopped", "error", err)
			}
		}, nil

	case config.CatalogRemote:
		rc := NewRemoteCatalog(lottery.DefaultCatalog(), RemoteOptions{
			BaseURL:         cfg.RemoteURL,
			RefreshInterval: full.GetRefreshInterval(),
			RateLimit:       rate.Limit(cfg.RemoteRatePerS),
			Logger:          logger,
			OnReload:        onReload,
		})
		return rc, rc.Run, nil

	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}
