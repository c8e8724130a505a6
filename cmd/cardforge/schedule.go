package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cardforge/cardforge/internal/config"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage recurring runs in the configuration",
	Long: `Manage recurring card generation runs in the configuration file.

Subcommands:
  add     - Add a new schedule to the configuration
  list    - List all schedules in the configuration
  remove  - Remove a schedule from the configuration

Examples:
  cardforge schedule add nightly-pumps --cron "@daily" \
    --sector energy --sub-sector generation --facility plant-alpha \
    --class pump --quantity 10
  cardforge schedule list --config cardforge.yaml
  cardforge schedule remove nightly-pumps --config cardforge.yaml`,
}

var addScheduleCmd = &cobra.Command{
	Use:   "add [schedule-id]",
	Short: "Add a new schedule to the configuration",
	Long: `Add a recurring card generation run to the configuration file.

Examples:
  # Generate 10 pump cards every night
  cardforge schedule add nightly-pumps --cron "@daily" \
    --sector energy --sub-sector generation --facility plant-alpha \
    --class pump --quantity 10

  # Default quantity of 5 every two hours
  cardforge schedule add valve-sweep --cron "0 */2 * * *" \
    --sector water --sub-sector treatment --facility plant-west \
    --class valve`,
	RunE: runAddSchedule,
	Args: cobra.ExactArgs(1),
}

var listSchedulesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all schedules in the configuration",
	Long: `List all recurring runs from the configuration file.

Example:
  cardforge schedule list --config cardforge.yaml`,
	RunE: runListSchedules,
}

var removeScheduleCmd = &cobra.Command{
	Use:   "remove [schedule-id]",
	Short: "Remove a schedule from the configuration",
	Long: `Remove a recurring run from the configuration file by its ID.

Example:
  cardforge schedule remove nightly-pumps --config cardforge.yaml`,
	RunE: runRemoveSchedule,
	Args: cobra.ExactArgs(1),
}

func init() {
	scheduleCmd.AddCommand(addScheduleCmd)
	scheduleCmd.AddCommand(listSchedulesCmd)
	scheduleCmd.AddCommand(removeScheduleCmd)

	scheduleCmd.PersistentFlags().StringP("config", "c", "cardforge.yaml", "Path to configuration file")

	addScheduleCmd.Flags().String("cron", "", "Cron expression or @-notation (required)")
	addScheduleCmd.Flags().String("sector", "", "Sector code (required)")
	addScheduleCmd.Flags().String("sub-sector", "", "Sub-sector code (required)")
	addScheduleCmd.Flags().String("facility", "", "Facility code (required)")
	addScheduleCmd.Flags().String("class", "", "Equipment class (required)")
	addScheduleCmd.Flags().IntP("quantity", "n", 0, "Cards per run (default 5)")
	addScheduleCmd.MarkFlagRequired("cron")
	addScheduleCmd.MarkFlagRequired("sector")
	addScheduleCmd.MarkFlagRequired("sub-sector")
	addScheduleCmd.MarkFlagRequired("facility")
	addScheduleCmd.MarkFlagRequired("class")
}

func runAddSchedule(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cronExpr, _ := cmd.Flags().GetString("cron")
	sector, _ := cmd.Flags().GetString("sector")
	subSector, _ := cmd.Flags().GetString("sub-sector")
	facility, _ := cmd.Flags().GetString("facility")
	class, _ := cmd.Flags().GetString("class")
	quantity, _ := cmd.Flags().GetInt("quantity")

	sched := config.Schedule{
		ID:             args[0],
		Cron:           cronExpr,
		Sector:         sector,
		SubSector:      subSector,
		Facility:       facility,
		EquipmentClass: class,
		Quantity:       quantity,
	}

	if err := config.ValidateCron(sched.Cron); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	if err := config.AddSchedule(configPath, sched); err != nil {
		return fmt.Errorf("failed to add schedule: %w", err)
	}

	fmt.Printf("✓ Schedule '%s' added successfully to %s\n", sched.ID, configPath)
	fmt.Printf("  Cron:   %s\n", sched.Cron)
	fmt.Printf("  Target: %s/%s/%s\n", sector, subSector, facility)
	fmt.Printf("  Class:  %s\n", class)

	return nil
}

func runListSchedules(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", configPath)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(cfg.Schedules) == 0 {
		fmt.Println("No schedules configured")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tCRON\tTARGET\tCLASS\tQUANTITY")
	for _, sched := range cfg.Schedules {
		fmt.Fprintf(w, "%s\t%s\t%s/%s/%s\t%s\t%d\n",
			sched.ID,
			sched.Cron,
			sched.Sector, sched.SubSector, sched.Facility,
			sched.EquipmentClass,
			sched.Quantity,
		)
	}
	w.Flush()
	fmt.Printf("\nTotal schedules: %d\n", len(cfg.Schedules))

	return nil
}

func runRemoveSchedule(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	scheduleID := args[0]

	if err := config.RemoveSchedule(configPath, scheduleID); err != nil {
		return fmt.Errorf("failed to remove schedule: %w", err)
	}

	fmt.Printf("✓ Schedule '%s' removed successfully from %s\n", scheduleID, configPath)

	return nil
}
