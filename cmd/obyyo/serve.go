package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Noor7086/Obyyo-sub002/internal/api"
	"github.com/Noor7086/Obyyo-sub002/internal/auth"
	"github.com/Noor7086/Obyyo-sub002/internal/catalog"
	"github.com/Noor7086/Obyyo-sub002/internal/config"
	"github.com/Noor7086/Obyyo-sub002/internal/generator"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
	"github.com/Noor7086/Obyyo-sub002/internal/metrics"
	"github.com/Noor7086/Obyyo-sub002/internal/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = 10 * time.Minute
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, logger)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "override server.port")
	return cmd
}

// runServer wires every component from cfg and serves until ctx is done.
func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}
	dbConfig := storage.DefaultConfig(dbPath)
	dbConfig.AutoMigrate = cfg.Database.AutoMigrate
	db, err := storage.Open(dbConfig)
	if err != nil {
		return err
	}
	store := storage.NewStore(db)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
	}()
	logger.Info("Database opened", "path", dbPath)

	dispatcher, closeBus, err := newEventBus(cfg.Events, logger)
	if err != nil {
		return err
	}
	defer closeBus()

	cat, runCatalog, err := catalog.FromConfig(cfg, logger, catalogReloaded(ctx, dispatcher))
	if err != nil {
		return err
	}

	genMetrics := metrics.NewGeneratorMetrics(metrics.NewCollectors())

	authSvc := auth.NewService(store.Users, store.Sessions, auth.Options{
		SessionTTL:        cfg.GetSessionTTL(),
		TrialPeriod:       cfg.GetTrialPeriod(),
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		Limiter:           auth.NewLoginLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginBurst),
		Dispatcher:        dispatcher,
		Metrics:           genMetrics,
		Logger:            logger,
	})

	genSvc := generator.NewService(cat,
		lottery.NewSampler(lottery.WithMaxCombinations(cfg.Generator.MaxCombinations)),
		generator.Options{
			DefaultCount:   cfg.Generator.DefaultCount,
			SimulatedDelay: cfg.GetSimulatedDelay(),
			Preferences:    store.Preferences,
			Dispatcher:     dispatcher,
			Metrics:        genMetrics,
			Logger:         logger,
		})

	server := api.NewServer(&api.Config{
		Port:           cfg.Server.Port,
		RequestTimeout: cfg.GetRequestTimeout(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		CookieSecure:   cfg.Server.CookieSecure,
	}, api.Deps{
		Auth:          authSvc,
		Generator:     genSvc,
		Preferences:   store.Preferences,
		Metrics:       genMetrics,
		CatalogSource: cfg.Catalog.Source,
		Logger:        logger,
	})
	dispatcher.Register(server.NewWebSocketObserver())

	if err := server.Start(); err != nil {
		return err
	}

	if runCatalog != nil {
		go runCatalog(ctx)
	}
	go authSvc.RunJanitor(ctx, janitorInterval)
	if interval := cfg.GetBackupInterval(); interval > 0 {
		go db.RunBackups(ctx, cfg.Database.BackupDir, interval, cfg.Database.BackupKeep, logger)
	}

	logger.Info("Obyyo running", "port", cfg.Server.Port, "catalog", cfg.Catalog.Source)
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Obyyo stopped")
	return nil
}
