package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardforge/cardforge/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a cardforge configuration file",
	Long: `Validate the syntax and semantics of a cardforge configuration file.

This command loads and validates the configuration file without starting
anything. It checks for:
  - Valid YAML syntax
  - Valid store driver configuration
  - Valid engine worker and registry bounds
  - Valid cron expressions and schedule targets

Example:
  cardforge validate --config ./cardforge.yaml`,
	RunE: validateConfig,
}

func init() {
	validateCmd.Flags().StringP("config", "c", "cardforge.yaml", "Path to configuration file")
	validateCmd.MarkFlagRequired("config")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	logger.Info("validating configuration", "path", configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Error("configuration file not found", "path", configPath)
		return fmt.Errorf("configuration file not found: %s", configPath)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("configuration validation failed", "error", err)
		return fmt.Errorf("validation failed: %w", err)
	}

	logger.Info("configuration is valid",
		"path", configPath,
		"schedules", len(cfg.Schedules),
		"workers", cfg.Engine.Workers,
		"store_driver", cfg.Store.Driver)

	for i, sched := range cfg.Schedules {
		logger.Info(fmt.Sprintf("schedule %d", i+1),
			"id", sched.ID,
			"cron", sched.Cron,
			"target", fmt.Sprintf("%s/%s/%s", sched.Sector, sched.SubSector, sched.Facility),
			"equipment_class", sched.EquipmentClass,
			"quantity", sched.Quantity)
	}

	fmt.Fprintf(os.Stdout, "\n✓ Configuration is valid: %s\n", configPath)
	fmt.Fprintf(os.Stdout, "  Schedules: %d\n", len(cfg.Schedules))
	fmt.Fprintf(os.Stdout, "  Store: %s (%s)\n", cfg.Store.Driver, cfg.Store.Path)
	fmt.Fprintf(os.Stdout, "  Cards: %s\n", cfg.Cards.Path)
	fmt.Fprintf(os.Stdout, "  Workers: %d\n", cfg.Engine.Workers)

	return nil
}
