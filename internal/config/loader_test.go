package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantError bool
		validate  func(*testing.T, *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
server:
  addr: ":9090"

store:
  driver: "bbolt"
  path: "./.cardforge.db"

schedules:
  - id: "nightly-pumps"
    cron: "0 2 * * *"
    sector: "energy"
    sub_sector: "generation"
    facility: "plant-alpha"
    equipment_class: "pump"
    quantity: 10
`,
			wantError: false,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Server.Addr != ":9090" {
					t.Errorf("expected addr :9090, got %s", cfg.Server.Addr)
				}
				if len(cfg.Schedules) != 1 {
					t.Errorf("expected 1 schedule, got %d", len(cfg.Schedules))
				}
				if cfg.Schedules[0].ID != "nightly-pumps" {
					t.Errorf("expected schedule ID 'nightly-pumps', got %s", cfg.Schedules[0].ID)
				}
				if cfg.Schedules[0].Quantity != 10 {
					t.Errorf("expected quantity 10, got %d", cfg.Schedules[0].Quantity)
				}
			},
		},
		{
			name: "config with defaults applied",
			yaml: `
schedules:
  - id: "daily-valves"
    cron: "@daily"
    sector: "water"
    sub_sector: "treatment"
    facility: "plant-west"
    equipment_class: "valve"
`,
			wantError: false,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Server.Addr != ":8080" {
					t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
				}
				if cfg.Engine.Workers != 4 {
					t.Errorf("expected default workers 4, got %d", cfg.Engine.Workers)
				}
				if cfg.Engine.MaxLiveRuns != 256 {
					t.Errorf("expected default max_live_runs 256, got %d", cfg.Engine.MaxLiveRuns)
				}
				if cfg.Store.Driver != "bbolt" {
					t.Errorf("expected default driver bbolt, got %s", cfg.Store.Driver)
				}
				if cfg.Store.Path != "./.cardforge.db" {
					t.Errorf("expected default path ./.cardforge.db, got %s", cfg.Store.Path)
				}
				if cfg.Cards.Path != "./cards" {
					t.Errorf("expected default cards path ./cards, got %s", cfg.Cards.Path)
				}
				if cfg.Logging.Format != "json" {
					t.Errorf("expected default log format json, got %s", cfg.Logging.Format)
				}
				if cfg.Schedules[0].Quantity != 5 {
					t.Errorf("expected default schedule quantity 5, got %d", cfg.Schedules[0].Quantity)
				}
			},
		},
		{
			name: "no schedules is valid",
			yaml: `
store:
  driver: "json"
  path: "./runs.json"
`,
			wantError: false,
			validate: func(t *testing.T, cfg *Config) {
				if len(cfg.Schedules) != 0 {
					t.Errorf("expected 0 schedules, got %d", len(cfg.Schedules))
				}
			},
		},
		{
			name: "invalid store driver",
			yaml: `
store:
  driver: "postgres"
`,
			wantError: true,
		},
		{
			name: "schedule missing ID",
			yaml: `
schedules:
  - cron: "@hourly"
    sector: "energy"
    sub_sector: "generation"
    facility: "plant-alpha"
    equipment_class: "pump"
`,
			wantError: true,
		},
		{
			name: "duplicate schedule IDs",
			yaml: `
schedules:
  - id: "dup"
    cron: "@hourly"
    sector: "energy"
    sub_sector: "generation"
    facility: "plant-alpha"
    equipment_class: "pump"
  - id: "dup"
    cron: "@daily"
    sector: "energy"
    sub_sector: "generation"
    facility: "plant-alpha"
    equipment_class: "valve"
`,
			wantError: true,
		},
		{
			name: "invalid cron expression",
			yaml: `
schedules:
  - id: "bad-cron"
    cron: "not a cron"
    sector: "energy"
    sub_sector: "generation"
    facility: "plant-alpha"
    equipment_class: "pump"
`,
			wantError: true,
		},
		{
			name: "schedule missing facility path",
			yaml: `
schedules:
  - id: "no-facility"
    cron: "@daily"
    sector: "energy"
    equipment_class: "pump"
`,
			wantError: true,
		},
		{
			name: "negative workers",
			yaml: `
engine:
  workers: -2
`,
			wantError: true,
		},
		{
			name:      "invalid YAML syntax",
			yaml:      `schedules: [ { id: "broken"`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg, err := LoadConfig(path)
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestValidateCron(t *testing.T) {
	valid := []string{
		"0 2 * * *",
		"*/5 * * * *",
		"0 0 1 1 * 2",
		"@daily",
		"@hourly",
		"@every 5m",
		"@every 30s",
	}
	for _, expr := range valid {
		if err := ValidateCron(expr); err != nil {
			t.Errorf("ValidateCron(%q) = %v, want nil", expr, err)
		}
	}

	invalid := []string{
		"",
		"@sometimes",
		"@every 5 minutes",
		"* * *",
		"* * * * * * *",
	}
	for _, expr := range invalid {
		if err := ValidateCron(expr); err == nil {
			t.Errorf("ValidateCron(%q) = nil, want error", expr)
		}
	}
}
