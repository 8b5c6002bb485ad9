package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrison/mvp/internal/scoring"
	"github.com/harrison/mvp/internal/validation/gate"
)

// ScoringConfig holds the scoring constants and the gate warning threshold
type ScoringConfig struct {
	scoring.Params `yaml:",inline"`

	// WarningThreshold is the overall score below which a run is a warning
	WarningThreshold int `yaml:"warning_threshold"`
}

// HistoryConfig represents validation history configuration
type HistoryConfig struct {
	// Enabled records every validation run by default
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database (empty = $MVP_HOME/history/runs.db)
	DBPath string `yaml:"db_path"`

	// KeepDays prunes recorded runs older than this many days (0 = keep forever)
	KeepDays int `yaml:"keep_days"`
}

// Config represents mvp configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written (empty = no file log)
	LogDir string `yaml:"log_dir"`

	// Format is the default report format for validate (text, json, markdown, html)
	Format string `yaml:"format"`

	// Scoring contains scoring constants
	Scoring ScoringConfig `yaml:"scoring"`

	// History contains validation history configuration
	History HistoryConfig `yaml:"history"`
}

// ValidFormats lists the report formats validate can produce
var ValidFormats = []string{"text", "json", "markdown", "html"}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		LogDir:   "",
		Format:   "text",
		Scoring: ScoringConfig{
			Params:           scoring.DefaultParams(),
			WarningThreshold: gate.DefaultWarningThreshold,
		},
		History: HistoryConfig{
			Enabled:  false,
			DBPath:   "",
			KeepDays: 0,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding over the defaults keeps every key the file leaves out,
	// including nested scoring and history fields.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .mvp/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".mvp", "config.yaml")
	return LoadConfig(configPath)
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, logDir *string, format *string, record *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if format != nil {
		c.Format = *format
	}
	if record != nil {
		c.History.Enabled = *record
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	validFormat := false
	for _, f := range ValidFormats {
		if c.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid format %q, must be one of: text, json, markdown, html", c.Format)
	}

	if err := c.Scoring.Params.Validate(); err != nil {
		return fmt.Errorf("scoring.%w", err)
	}
	if c.Scoring.WarningThreshold < 0 || c.Scoring.WarningThreshold > scoring.MaxScore {
		return fmt.Errorf("scoring.warning_threshold must be within [0, %d], got %d", scoring.MaxScore, c.Scoring.WarningThreshold)
	}

	if c.History.KeepDays < 0 {
		return fmt.Errorf("history.keep_days must be >= 0, got %d", c.History.KeepDays)
	}

	return nil
}
