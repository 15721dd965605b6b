// Package config loads per-repository settings from logics.yaml with
// LOGICS_* environment overrides.
//
// Everything has a sensible default: a repository without logics.yaml
// behaves exactly like the stock workflow. A .env file next to the
// repository root is honored when present (useful for agent sandboxes).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the optional per-repository settings file.
const ConfigFile = "logics.yaml"

// ProgressConfig controls how auto-computed progress interacts with
// manually-set values.
type ProgressConfig struct {
	// AllowDecrease lets a checkbox-derived percentage overwrite a higher
	// manually-set value. Off by default: auto-computed progress only
	// raises the indicator unless explicitly allowed.
	AllowDecrease bool `yaml:"allow_decrease"`
}

// DuplicatesConfig tunes the duplicate-title detector.
type DuplicatesConfig struct {
	// Threshold is the minimum normalized-title similarity (0..1) for a
	// pair of documents to be reported.
	Threshold float64 `yaml:"threshold"`
}

// Config models logics.yaml.
type Config struct {
	// Root overrides repository-root auto-detection. Usually empty.
	Root string `yaml:"root"`

	Progress   ProgressConfig   `yaml:"progress"`
	Duplicates DuplicatesConfig `yaml:"duplicates"`

	// Validation lists the default validation commands seeded into new
	// task documents.
	Validation []string `yaml:"validation"`

	// Journal enables the SQLite activity journal.
	Journal bool `yaml:"journal"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Progress:   ProgressConfig{AllowDecrease: false},
		Duplicates: DuplicatesConfig{Threshold: 0.9},
		Validation: []string{"npm run tests", "npm run lint"},
		Journal:    true,
	}
}

// Load reads logics.yaml from the repository root (when present) and
// applies environment overrides. A missing file is not an error.
func Load(root string) (*Config, error) {
	// Best-effort .env autoload; absence is the normal case.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfg := Default()

	path := filepath.Join(root, ConfigFile)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv layers LOGICS_* variables over the file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LOGICS_ROOT"); v != "" {
		cfg.Root = v
	}
	if v, ok := envBool("LOGICS_PROGRESS_ALLOW_DECREASE"); ok {
		cfg.Progress.AllowDecrease = v
	}
	if v, ok := envBool("LOGICS_JOURNAL"); ok {
		cfg.Journal = v
	}
	if v := os.Getenv("LOGICS_DUPLICATES_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.Duplicates.Threshold = f
		}
	}
}

func envBool(key string) (value, ok bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return parsed, true
}
