// Package config loads logwrangle configuration.
//
// Values are layered in increasing priority: built-in defaults, an optional
// YAML file, LOGWRANGLE_* environment variables, then flags the CLI applies
// on top of the returned Config.
package config

import (
	"fmt"
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	App      AppConfig      `koanf:"app"`
	Engine   EngineConfig   `koanf:"engine"`
	Input    InputConfig    `koanf:"input"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Output   OutputConfig   `koanf:"output"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// AppConfig names the run in logs.
type AppConfig struct {
	Name string `koanf:"name" validate:"required"`
}

// EngineConfig selects and tunes the query engine.
type EngineConfig struct {
	// Name is duckdb or sqlite.
	Name string `koanf:"name" validate:"oneof=duckdb sqlite"`
	// DSN overrides the engine data source; empty means in-memory.
	DSN string `koanf:"dsn"`
	// Threads is passed to DuckDB; 0 lets the engine decide.
	Threads   int    `koanf:"threads" validate:"gte=0"`
	MaxMemory string `koanf:"max_memory"`
}

// InputConfig describes the event log to load.
type InputConfig struct {
	Path   string `koanf:"path"`
	Format string `koanf:"format" validate:"oneof=auto json jsonl ndjson parquet"`
	View   string `koanf:"view" validate:"required,identifier"`
}

// AnalysisConfig drives the question runner.
type AnalysisConfig struct {
	// UserID is the user looked up by the user-activity question.
	UserID string `koanf:"user_id"`
	// Timezone is an IANA zone name used by get_hour; empty means local time.
	Timezone  string   `koanf:"timezone" validate:"omitempty,timezone"`
	ShowRows  int      `koanf:"show_rows" validate:"gt=0"`
	Truncate  bool     `koanf:"truncate"`
	KeepGoing bool     `koanf:"keep_going"`
	Questions []string `koanf:"questions"`
}

// OutputConfig selects the result format.
type OutputConfig struct {
	Format string `koanf:"format" validate:"oneof=table json jsonl csv"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Location resolves Analysis.Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Analysis.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Analysis.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Analysis.Timezone, err)
	}
	return loc, nil
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name: "Wrangling Data",
		},
		Engine: EngineConfig{
			Name: "duckdb",
		},
		Input: InputConfig{
			Path:   "./data/sparkify_log_small.json",
			Format: "auto",
			View:   "user_log_table",
		},
		Analysis: AnalysisConfig{
			UserID:   "1046",
			ShowRows: 20,
			Truncate: true,
		},
		Output: OutputConfig{
			Format: "table",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
