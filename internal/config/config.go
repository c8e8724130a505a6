package config

// Config represents the top-level configuration structure for Cardforge.
type Config struct {
	Server    Server     `yaml:"server"`
	Engine    Engine     `yaml:"engine"`
	Store     Store      `yaml:"store"`
	Cards     Cards      `yaml:"cards"`
	Catalog   Catalog    `yaml:"catalog"`
	Logging   Logging    `yaml:"logging"`
	Schedules []Schedule `yaml:"schedules"`
}

// Server configuration for the HTTP API and dashboard.
type Server struct {
	Addr string `yaml:"addr"` // listen address, e.g. ":8080"
}

// Engine configuration for the run engine.
type Engine struct {
	Workers     int `yaml:"workers"`       // shared worker pool size
	MaxLiveRuns int `yaml:"max_live_runs"` // bound on the live run registry
}

// Store configuration for run history persistence.
type Store struct {
	Driver string `yaml:"driver"` // "bbolt" or "json"
	Path   string `yaml:"path"`   // file path for the store
}

// Cards configuration for the generated card repository.
type Cards struct {
	Path string `yaml:"path"` // root directory for persisted cards
}

// Catalog configuration for the facility hierarchy.
type Catalog struct {
	Path string `yaml:"path"` // YAML catalog file; empty means built-in
}

// Logging configuration.
type Logging struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Output string `yaml:"output"` // "stderr", "stdout", "discard", or a file path
}

// Schedule represents a recurring card generation run.
type Schedule struct {
	ID             string `yaml:"id"`   // unique schedule identifier
	Cron           string `yaml:"cron"` // cron expression or @-shortcut
	Sector         string `yaml:"sector"`
	SubSector      string `yaml:"sub_sector"`
	Facility       string `yaml:"facility"`
	EquipmentClass string `yaml:"equipment_class"`
	Quantity       int    `yaml:"quantity"` // cards per run; 0 means default
}
