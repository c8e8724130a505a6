package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads and validates a Cardforge configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = 4
	}
	if cfg.Engine.MaxLiveRuns == 0 {
		cfg.Engine.MaxLiveRuns = 256
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "bbolt"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./.cardforge.db"
	}

	if cfg.Cards.Path == "" {
		cfg.Cards.Path = "./cards"
	}

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	for i := range cfg.Schedules {
		sched := &cfg.Schedules[i]
		if sched.Quantity == 0 {
			sched.Quantity = 5
		}
	}
}

// validate checks the configuration for errors and inconsistencies.
func validate(cfg *Config) error {
	validDrivers := map[string]bool{
		"bbolt": true,
		"json":  true,
	}
	if !validDrivers[cfg.Store.Driver] {
		return fmt.Errorf("invalid store driver: %s (must be 'bbolt' or 'json')", cfg.Store.Driver)
	}

	if cfg.Engine.Workers < 1 {
		return fmt.Errorf("engine.workers must be at least 1")
	}
	if cfg.Engine.MaxLiveRuns < 1 {
		return fmt.Errorf("engine.max_live_runs must be at least 1")
	}

	scheduleIDs := make(map[string]bool)
	for i, sched := range cfg.Schedules {
		if sched.ID == "" {
			return fmt.Errorf("schedule at index %d is missing an ID", i)
		}
		if scheduleIDs[sched.ID] {
			return fmt.Errorf("duplicate schedule ID: %s", sched.ID)
		}
		scheduleIDs[sched.ID] = true

		if err := ValidateCron(sched.Cron); err != nil {
			return fmt.Errorf("schedule %s has invalid cron expression: %w", sched.ID, err)
		}

		if sched.Sector == "" || sched.SubSector == "" || sched.Facility == "" {
			return fmt.Errorf("schedule %s must name a sector, sub_sector, and facility", sched.ID)
		}
		if sched.EquipmentClass == "" {
			return fmt.Errorf("schedule %s is missing an equipment_class", sched.ID)
		}
		if sched.Quantity < 1 {
			return fmt.Errorf("schedule %s has non-positive quantity", sched.ID)
		}
	}

	return nil
}

// ValidateCron checks if a cron expression is valid.
// Supports cron expressions, @-prefixed shortcuts, and @every intervals.
func ValidateCron(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return fmt.Errorf("cron expression cannot be empty")
	}

	if strings.HasPrefix(expr, "@") {
		shortcuts := []string{"@annually", "@yearly", "@monthly", "@weekly", "@daily", "@hourly"}
		for _, shortcut := range shortcuts {
			if expr == shortcut {
				return nil
			}
		}

		if strings.HasPrefix(expr, "@every ") {
			interval := strings.TrimPrefix(expr, "@every ")
			if matched, _ := regexp.MatchString(`^\d+[smh]$`, interval); matched {
				return nil
			}
			return fmt.Errorf("invalid @every interval: %s (must be like '5m', '1h', '30s')", interval)
		}

		return fmt.Errorf("unknown cron shortcut: %s", expr)
	}

	// robfig/cron validates the fields at parse time. This basic check
	// catches obvious errors early.
	fields := strings.Fields(expr)
	if len(fields) < 5 || len(fields) > 6 {
		return fmt.Errorf("cron expression must have 5 or 6 fields, got %d", len(fields))
	}

	return nil
}
