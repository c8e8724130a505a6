package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveConfig writes a Config to a YAML file.
// It performs an atomic write by writing to a temporary file first,
// then renaming it to the target path.
func SaveConfig(cfg *Config, path string) error {
	if err := validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// AddSchedule adds a new schedule to an existing config file.
// If the config file doesn't exist, it creates a new one with sensible defaults.
func AddSchedule(configPath string, sched Schedule) error {
	var cfg *Config
	var err error

	if _, statErr := os.Stat(configPath); statErr == nil {
		cfg, err = LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
	} else {
		cfg = NewDefaultConfig()
	}

	for _, existing := range cfg.Schedules {
		if existing.ID == sched.ID {
			return fmt.Errorf("schedule with ID '%s' already exists", sched.ID)
		}
	}

	if sched.Quantity == 0 {
		sched.Quantity = 5
	}
	cfg.Schedules = append(cfg.Schedules, sched)

	if err := SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// RemoveSchedule removes a schedule from the config file by ID.
func RemoveSchedule(configPath string, scheduleID string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	found := false
	newSchedules := make([]Schedule, 0, len(cfg.Schedules))
	for _, sched := range cfg.Schedules {
		if sched.ID == scheduleID {
			found = true
			continue
		}
		newSchedules = append(newSchedules, sched)
	}

	if !found {
		return fmt.Errorf("schedule with ID '%s' not found", scheduleID)
	}

	cfg.Schedules = newSchedules

	if err := SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// UpdateSchedule updates an existing schedule in the config file.
func UpdateSchedule(configPath string, sched Schedule) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	found := false
	for i := range cfg.Schedules {
		if cfg.Schedules[i].ID == sched.ID {
			cfg.Schedules[i] = sched
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("schedule with ID '%s' not found", sched.ID)
	}

	if err := SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// GetSchedule retrieves a schedule by ID from the config file.
func GetSchedule(configPath string, scheduleID string) (*Schedule, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	for _, sched := range cfg.Schedules {
		if sched.ID == scheduleID {
			return &sched, nil
		}
	}

	return nil, fmt.Errorf("schedule with ID '%s' not found", scheduleID)
}

// NewDefaultConfig creates a new Config with sensible defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Store: Store{
			Driver: "json",
			Path:   "./.cardforge.json",
		},
		Schedules: []Schedule{},
	}
	applyDefaults(cfg)
	return cfg
}
