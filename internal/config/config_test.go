package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Wrangling Data", cfg.App.Name)
	assert.Equal(t, "duckdb", cfg.Engine.Name)
	assert.Equal(t, "user_log_table", cfg.Input.View)
	assert.Equal(t, "auto", cfg.Input.Format)
	assert.Equal(t, "1046", cfg.Analysis.UserID)
	assert.Equal(t, 20, cfg.Analysis.ShowRows)
	assert.True(t, cfg.Analysis.Truncate)
	assert.Equal(t, "table", cfg.Output.Format)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	yaml := `
engine:
  name: sqlite
input:
  path: events.json
  view: events
analysis:
  user_id: "42"
  show_rows: 5
output:
  format: csv
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("LOGWRANGLE_USER_ID", "7")
	t.Setenv("LOGWRANGLE_QUESTIONS", "top-artist, female-users")
	t.Setenv("LOGWRANGLE_UNRELATED", "ignored")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Engine.Name)
	assert.Equal(t, "events.json", cfg.Input.Path)
	assert.Equal(t, "events", cfg.Input.View)
	assert.Equal(t, "7", cfg.Analysis.UserID, "env overrides file")
	assert.Equal(t, 5, cfg.Analysis.ShowRows)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, []string{"top-artist", "female-users"}, cfg.Analysis.Questions)
}

func TestLoad_ConfigPathEnvVar(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "from-env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  threads: 3\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Engine.Threads)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.Engine.Name = "spark" },
			wantErr: "Engine.Name",
		},
		{
			name:    "view must be an identifier",
			mutate:  func(c *Config) { c.Input.View = "user log; drop" },
			wantErr: "Input.View",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Analysis.Timezone = "Mars/Olympus" },
			wantErr: "Analysis.Timezone",
		},
		{
			name:    "show rows must be positive",
			mutate:  func(c *Config) { c.Analysis.ShowRows = 0 },
			wantErr: "Analysis.ShowRows",
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: "Output.Format",
		},
		{
			name:   "jsonl input format",
			mutate: func(c *Config) { c.Input.Format = "jsonl" },
		},
		{
			name:   "ndjson input format",
			mutate: func(c *Config) { c.Input.Format = "ndjson" },
		},
		{
			name:    "unknown input format",
			mutate:  func(c *Config) { c.Input.Format = "avro" },
			wantErr: "Input.Format",
		},
		{
			name:   "named timezone",
			mutate: func(c *Config) { c.Analysis.Timezone = "UTC" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := defaultConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Analysis.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
