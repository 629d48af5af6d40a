package main

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/Noor7086/Obyyo-sub002/internal/catalog"
	"github.com/Noor7086/Obyyo-sub002/internal/config"
	"github.com/Noor7086/Obyyo-sub002/internal/events"
	"github.com/Noor7086/Obyyo-sub002/internal/lottery"
)

// newEventBus builds the dispatcher with the logging observer and, when
// configured, the NATS forwarder. The returned func detaches every observer
// and drains the NATS connection.
func newEventBus(cfg config.EventsConfig, logger *slog.Logger) (*events.Dispatcher, func(), error) {
	dispatcher := events.NewDispatcher(logger)
	dispatcher.Register(events.NewLoggingObserver(logger))

	var (
		nc      *nats.Conn
		forward *events.NATSObserver
	)
	if cfg.NATSURL != "" {
		conn, err := events.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			return nil, nil, err
		}
		nc = conn
		forward = events.NewNATSObserver(nc, cfg.SubjectPrefix)
		dispatcher.Register(forward)
		logger.Info("Forwarding events to NATS", "url", cfg.NATSURL, "prefix", cfg.SubjectPrefix)
	}
	logger.Debug("Event bus ready", "observers", dispatcher.ObserverCount())

	closeBus := func() {
		if forward != nil {
			dispatcher.Unregister(forward)
			if err := nc.Drain(); err != nil {
				logger.Warn("Failed to drain NATS connection", "error", err)
			}
		}
		dispatcher.Clear()
	}
	return dispatcher, closeBus, nil
}

// catalogReloaded publishes catalog:reloaded without holding up the reloading goroutine.
func catalogReloaded(ctx context.Context, dispatcher *events.Dispatcher) catalog.ReloadFunc {
	return func(source string, games []lottery.Game) {
		ids := make([]string, len(games))
		for i, g := range games {
			ids[i] = string(g.ID)
		}
		dispatcher.DispatchAsync(events.NewTypedEvent(ctx, events.TypeCatalogReloaded, "", events.CatalogReloadedEvent{
			Source: source,
			Games:  ids,
		}))
	}
}
