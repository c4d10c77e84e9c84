package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"logwrangle.yaml",
	"logwrangle.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "LOGWRANGLE_CONFIG"

const envPrefix = "LOGWRANGLE_"

var envMappings = map[string]string{
	"app_name":          "app.name",
	"engine":            "engine.name",
	"engine_dsn":        "engine.dsn",
	"engine_threads":    "engine.threads",
	"engine_max_memory": "engine.max_memory",
	"input":             "input.path",
	"input_format":      "input.format",
	"input_view":        "input.view",
	"user_id":           "analysis.user_id",
	"timezone":          "analysis.timezone",
	"show_rows":         "analysis.show_rows",
	"truncate":          "analysis.truncate",
	"keep_going":        "analysis.keep_going",
	"questions":         "analysis.questions",
	"output_format":     "output.format",
	"log_level":         "logging.level",
	"log_format":        "logging.format",
	"log_caller":        "logging.caller",
}

var sliceConfigPaths = []string{
	"analysis.questions",
}

// Load builds a Config from defaults, the config file at path (or the first
// file found through LOGWRANGLE_CONFIG and DefaultConfigPaths) and the
// environment. The result is validated.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc maps LOGWRANGLE_* variables to config keys. Unknown
// variables map to "" and are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if key == "config" {
		return ""
	}
	return envMappings[key]
}

// processSliceFields splits comma-separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, p := range sliceConfigPaths {
		strVal, ok := k.Get(p).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				trimmed = append(trimmed, part)
			}
		}
		if err := k.Set(p, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", p, err)
		}
	}
	return nil
}
