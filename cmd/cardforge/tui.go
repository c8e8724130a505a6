package main

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cardforge/cardforge/internal/logging"
	"github.com/cardforge/cardforge/internal/scheduler"
	"github.com/cardforge/cardforge/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run cardforge with a terminal UI",
	Long: `Start the engine and scheduler with an interactive terminal UI.

The UI shows live and historical runs with per-item progress. Recurring
runs from the configuration keep executing while the UI is open.

Navigation:
  ↑/↓ or k/j  - Navigate run list
  enter       - View run details (per-item outcomes)
  esc         - Go back to run list
  c           - Cancel the selected run
  g/G         - Jump to top/bottom
  r           - Refresh data
  q           - Quit

Example:
  cardforge tui --config ./cardforge.yaml`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringP("config", "c", "cardforge.yaml", "Path to configuration file")
}

func runTUI(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := loadConfigOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// In TUI mode, suppress logs by default to avoid polluting the
	// interface.
	logOutput := cfg.Logging.Output
	if logOutput == "" || logOutput == "stderr" || logOutput == "stdout" {
		logOutput = "discard"
	}

	tuiLogger, err := logging.NewFromConfig(cfg.Logging.Format, cfg.Logging.Level, logOutput)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = tuiLogger
	slog.SetDefault(tuiLogger)

	comp, err := newComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := comp.store.Close(); err != nil {
			logger.Error("failed to close run store", "error", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	ctx := setupSignalHandler()

	sched := scheduler.New(ctx, comp.engine, logger)
	for _, sc := range cfg.Schedules {
		if err := sched.AddSchedule(sc); err != nil {
			return fmt.Errorf("failed to add schedule %s: %w", sc.ID, err)
		}
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	model := tui.New(comp.engine, comp.store, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := finalModel.(tui.Model); ok && m.Quitting() {
		logger.Info("shutting down gracefully...")

		if err := sched.Stop(); err != nil {
			logger.Error("error during scheduler shutdown", "error", err)
		}
		if err := comp.engine.Close(context.Background()); err != nil {
			logger.Error("error closing engine", "error", err)
			return err
		}

		logger.Info("cardforge stopped")
	}

	return nil
}
