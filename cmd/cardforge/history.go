package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardforge/cardforge/internal/runstore"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past card generation runs",
	Long: `List recent runs from the durable run store, newest first.

With a run ID argument, shows the full record for that run including
per-item outcomes.

Examples:
  cardforge history --config cardforge.yaml
  cardforge history --limit 10
  cardforge history 2f1c9a4e-...`,
	RunE: runHistory,
	Args: cobra.MaximumNArgs(1),
}

func init() {
	historyCmd.Flags().StringP("config", "c", "cardforge.yaml", "Path to configuration file")
	historyCmd.Flags().IntP("limit", "l", 20, "Maximum number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfigOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := runstore.NewStore(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	defer st.Close()

	if len(args) == 1 {
		rec, err := st.GetRun(args[0])
		if err != nil {
			return fmt.Errorf("failed to load run: %w", err)
		}
		printRunSummary(rec)
		return nil
	}

	runs, err := st.GetAllRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tCREATED\tTARGET\tCLASS\tSTATUS\tOK/FAIL/SKIP\tDURATION")
	for _, rec := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s/%s/%s\t%s\t%s\t%d/%d/%d\t%s\n",
			rec.ID,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Request.Sector, rec.Request.SubSector, rec.Request.Facility,
			rec.Request.EquipmentClass,
			rec.Status,
			rec.Succeeded(), rec.Failed(), rec.Skipped(),
			rec.Duration().Round(time.Millisecond),
		)
	}
	w.Flush()
	fmt.Printf("\nTotal runs shown: %d\n", len(runs))

	return nil
}
