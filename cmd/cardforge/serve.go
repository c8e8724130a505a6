package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cardforge/cardforge/internal/logging"
	"github.com/cardforge/cardforge/internal/scheduler"
	"github.com/cardforge/cardforge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run cardforge with the HTTP API and dashboard",
	Long: `Start the run engine with an HTTP API and web dashboard.

This command loads the configuration file, initializes the engine and
scheduler, registers any configured recurring runs, and serves the API
for submitting, inspecting, and cancelling card generation runs.

Example:
  cardforge serve --config ./cardforge.yaml --addr :8080`,
	RunE: runServer,
}

func init() {
	serveCmd.Flags().StringP("config", "c", "cardforge.yaml", "Path to configuration file")
	serveCmd.Flags().StringP("addr", "a", "", "HTTP server address (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	addr, _ := cmd.Flags().GetString("addr")

	cfg, err := loadConfigOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	serveLogger, err := logging.NewFromConfig(cfg.Logging.Format, cfg.Logging.Level, cfg.Logging.Output)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = serveLogger
	slog.SetDefault(serveLogger)

	logger.Info("starting cardforge in serve mode",
		"config", configPath,
		"addr", addr)
	logger.Info("configuration loaded successfully",
		"schedules", len(cfg.Schedules),
		"workers", cfg.Engine.Workers,
		"store_driver", cfg.Store.Driver)

	comp, err := newComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := comp.store.Close(); err != nil {
			logger.Error("failed to close run store", "error", err)
		}
	}()

	logger.Info("run store initialized", "driver", cfg.Store.Driver, "path", cfg.Store.Path)
	logger.Info("card repository initialized", "path", cfg.Cards.Path)

	// Setup signal handling for graceful shutdown
	ctx := setupSignalHandler()

	sched := scheduler.New(ctx, comp.engine, logger)
	for _, sc := range cfg.Schedules {
		if err := sched.AddSchedule(sc); err != nil {
			return fmt.Errorf("failed to add schedule %s: %w", sc.ID, err)
		}
	}

	runService := server.NewEngineAdapter(comp.engine, comp.store)
	srv := server.New(addr, runService, comp.repo, comp.catalog, logger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting scheduler...")
		if err := sched.Start(); err != nil {
			return fmt.Errorf("scheduler error: %w", err)
		}
		<-gCtx.Done()
		return nil
	})

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", addr)
		if err := srv.Start(gCtx); err != nil && err != context.Canceled {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down gracefully...")

		shutdownCtx := context.Background()

		if err := sched.Stop(); err != nil {
			logger.Error("error stopping scheduler", "error", err)
		}

		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("error stopping server", "error", err)
		}

		// Engine last so in-flight runs can finish their current items.
		if err := comp.engine.Close(shutdownCtx); err != nil {
			logger.Error("error closing engine", "error", err)
		}

		return nil
	})

	logger.Info("cardforge serve mode started successfully",
		"schedules", len(cfg.Schedules),
		"dashboard_url", fmt.Sprintf("http://localhost%s", addr))

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("error during execution", "error", err)
		return err
	}

	logger.Info("cardforge stopped")
	return nil
}
