package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardforge/cardforge/internal/engine"
	"github.com/cardforge/cardforge/internal/logging"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a one-shot card generation batch",
	Long: `Submit a single card generation run and wait for it to finish.

The run executes on the engine's worker pool; per-item outcomes are
printed when the run reaches a terminal status. Cards are written to the
configured card repository and the run record is flushed to the run
store, so it appears in 'cardforge history' afterwards.

Example:
  cardforge generate --sector energy --sub-sector generation \
    --facility plant-alpha --class pump --quantity 10`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("config", "c", "cardforge.yaml", "Path to configuration file")
	generateCmd.Flags().String("sector", "", "Sector code (required)")
	generateCmd.Flags().String("sub-sector", "", "Sub-sector code (required)")
	generateCmd.Flags().String("facility", "", "Facility code (required)")
	generateCmd.Flags().String("class", "", "Equipment class (required)")
	generateCmd.Flags().IntP("quantity", "n", engine.DefaultQuantity, "Number of cards to generate")
	generateCmd.Flags().Duration("timeout", 5*time.Minute, "Abort if the run is not terminal after this long")
	generateCmd.MarkFlagRequired("sector")
	generateCmd.MarkFlagRequired("sub-sector")
	generateCmd.MarkFlagRequired("facility")
	generateCmd.MarkFlagRequired("class")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	sector, _ := cmd.Flags().GetString("sector")
	subSector, _ := cmd.Flags().GetString("sub-sector")
	facility, _ := cmd.Flags().GetString("facility")
	class, _ := cmd.Flags().GetString("class")
	quantity, _ := cmd.Flags().GetInt("quantity")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := loadConfigOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	genLogger, err := logging.NewFromConfig(cfg.Logging.Format, cfg.Logging.Level, cfg.Logging.Output)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = genLogger
	slog.SetDefault(genLogger)

	comp, err := newComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := comp.store.Close(); err != nil {
			logger.Error("failed to close run store", "error", err)
		}
	}()

	req := engine.RunRequest{
		Sector:         sector,
		SubSector:      subSector,
		Facility:       facility,
		EquipmentClass: class,
		Quantity:       quantity,
	}

	runID, err := comp.engine.SubmitRun(req)
	if err != nil {
		return fmt.Errorf("failed to submit run: %w", err)
	}

	logger.Info("run submitted",
		"run_id", runID,
		"facility", facility,
		"equipment_class", class,
		"quantity", quantity)

	rec, err := waitForRun(comp.engine, runID, timeout)
	if err != nil {
		return err
	}

	if err := comp.engine.Close(context.Background()); err != nil {
		logger.Error("error closing engine", "error", err)
	}

	printRunSummary(rec)

	if rec.Status != engine.StatusCompleted {
		return fmt.Errorf("run %s finished with status %s", runID, rec.Status)
	}
	return nil
}

// waitForRun polls the live registry until the run reaches a terminal
// status or the timeout expires.
func waitForRun(eng *engine.Engine, runID string, timeout time.Duration) (*engine.RunRecord, error) {
	deadline := time.Now().Add(timeout)
	for {
		rec, ok := eng.GetRunStatus(runID)
		if !ok {
			return nil, fmt.Errorf("run %s disappeared from the live registry", runID)
		}
		if rec.Status.IsTerminal() {
			return rec, nil
		}
		if time.Now().After(deadline) {
			eng.CancelRun(runID)
			return nil, fmt.Errorf("run %s did not finish within %s", runID, timeout)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// printRunSummary writes a human-readable report for a finished run.
func printRunSummary(rec *engine.RunRecord) {
	fmt.Printf("\nRun %s: %s\n", rec.ID, rec.Status)
	fmt.Printf("  Target:   %s/%s/%s\n", rec.Request.Sector, rec.Request.SubSector, rec.Request.Facility)
	fmt.Printf("  Class:    %s\n", rec.Request.EquipmentClass)
	fmt.Printf("  Items:    %d succeeded, %d failed, %d skipped (of %d requested)\n",
		rec.Succeeded(), rec.Failed(), rec.Skipped(), rec.Request.Quantity)
	fmt.Printf("  Duration: %s\n", rec.Duration().Round(time.Millisecond))
	if rec.Error != "" {
		fmt.Printf("  Error:    %s\n", rec.Error)
	}

	if len(rec.Items) == 0 {
		return
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "INDEX\tOUTCOME\tCARD / ERROR")
	for _, item := range rec.Items {
		detail := item.CardRef
		if item.Outcome == engine.OutcomeFailed {
			detail = item.Error
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", item.Index, item.Outcome, detail)
	}
	w.Flush()
}
