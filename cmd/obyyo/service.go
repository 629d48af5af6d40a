package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/Noor7086/Obyyo-sub002/internal/config"
)

// serverProgram runs the API server under the system service manager.
type serverProgram struct {
	cfg    *config.Config
	logger *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Start implements service.Interface. It must not block.
func (p *serverProgram) Start(service.Service) error {
	p.logger.Info("Starting obyyo service")
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := runServer(ctx, p.cfg, p.logger); err != nil {
			p.logger.Error("Server exited", "error", err)
		}
	}()
	return nil
}

// Stop implements service.Interface.
func (p *serverProgram) Stop(service.Service) error {
	p.logger.Info("Stopping obyyo service")
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

func serviceConfig(configPath string) *service.Config {
	args := []string{"service", "run"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	return &service.Config{
		Name:        "obyyo",
		DisplayName: "Obyyo Lottery Generator",
		Description: "HTTP API serving lottery combinations that avoid non-viable numbers",
		Arguments:   args,
	}
}

func newServiceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "service [install|uninstall|start|stop|restart|status|run]",
		Short:     "Manage obyyo as a system service",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"install", "uninstall", "start", "stop", "restart", "status", "run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			svcConfig := serviceConfig(opts.configPath)
			s, err := service.New(&serverProgram{cfg: cfg, logger: logger}, svcConfig)
			if err != nil {
				return fmt.Errorf("create service: %w", err)
			}
			return runServiceAction(cmd, s, svcConfig, args[0])
		},
	}
}

func runServiceAction(cmd *cobra.Command, s service.Service, svcConfig *service.Config, action string) error {
	out := cmd.OutOrStdout()

	switch action {
	case "run":
		return s.Run()

	case "install":
		if err := s.Install(); err != nil {
			return fmt.Errorf("install service: %w", err)
		}
		fmt.Fprintln(out, "Service installed")
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Start the service: obyyo service start")
		fmt.Fprintln(out, "  2. Verify it's running: obyyo service status")
		switch service.Platform() {
		case "darwin-launchd":
			fmt.Fprintf(out, "  3. View logs: tail -f ~/Library/Logs/%s.log\n", svcConfig.Name)
		case "windows-service":
			fmt.Fprintln(out, "  3. View logs in Event Viewer")
		default:
			fmt.Fprintf(out, "  3. View logs: journalctl -u %s -f\n", svcConfig.Name)
		}

	case "uninstall":
		if err := s.Uninstall(); err != nil {
			return fmt.Errorf("uninstall service: %w", err)
		}
		fmt.Fprintln(out, "Service uninstalled")

	case "start":
		if err := s.Start(); err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		fmt.Fprintln(out, "Service started")

	case "stop":
		if err := s.Stop(); err != nil {
			return fmt.Errorf("stop service: %w", err)
		}
		fmt.Fprintln(out, "Service stopped")

	case "restart":
		if err := s.Restart(); err != nil {
			return fmt.Errorf("restart service: %w", err)
		}
		fmt.Fprintln(out, "Service restarted")

	case "status":
		status, err := s.Status()
		if err != nil {
			return fmt.Errorf("service status: %w", err)
		}
		state := "unknown"
		switch status {
		case service.StatusRunning:
			state = "running"
		case service.StatusStopped:
			state = "stopped"
		}
		fmt.Fprintf(out, "Service %s (%s): %s\n", svcConfig.Name, svcConfig.DisplayName, state)

	default:
		return fmt.Errorf("unknown service action %q", action)
	}
	return nil
}
