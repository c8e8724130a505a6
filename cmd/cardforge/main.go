package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags at build time)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global logger
	logger *slog.Logger
)

func main() {
	logHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger = slog.New(logHandler)
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cardforge",
	Short: "Asynchronous equipment card generation for industrial facilities",
	Long: `Cardforge generates synthetic equipment cards for facilities in a
sector / sub-sector / facility hierarchy. Card generation runs execute
asynchronously on a bounded worker pool and can be cancelled while in
flight.

Features:
  - Batch card generation runs with per-item outcomes
  - Live run registry plus durable run history
  - Cron-driven recurring runs
  - HTTP API and web dashboard
  - Interactive terminal UI
  - Graceful shutdown with signal handling`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			logHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})
			logger = slog.New(logHandler)
			slog.SetDefault(logger)
			logger.Debug("debug logging enabled")
		}
	}

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(scheduleCmd)
}

// setupSignalHandler creates a context that cancels on SIGINT or SIGTERM
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()

		// Force exit if second signal received
		sig = <-sigChan
		logger.Warn("received second signal, forcing exit", "signal", sig.String())
		os.Exit(1)
	}()

	return ctx
}
