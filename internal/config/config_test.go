package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want %q", cfg.Format, "text")
	}
	if cfg.Scoring.Base != 90 {
		t.Errorf("Scoring.Base = %d, want 90", cfg.Scoring.Base)
	}
	if cfg.Scoring.PerDeviationPenalty != 5 {
		t.Errorf("Scoring.PerDeviationPenalty = %d, want 5", cfg.Scoring.PerDeviationPenalty)
	}
	if cfg.Scoring.WarningThreshold != 80 {
		t.Errorf("Scoring.WarningThreshold = %d, want 80", cfg.Scoring.WarningThreshold)
	}
	if cfg.History.Enabled {
		t.Errorf("History.Enabled = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `log_level: debug
log_dir: /tmp/mvp-logs
format: markdown
scoring:
  per_deviation_penalty: 4
  warning_threshold: 85
history:
  enabled: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogDir != "/tmp/mvp-logs" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/tmp/mvp-logs")
	}
	if cfg.Format != "markdown" {
		t.Errorf("Format = %q, want %q", cfg.Format, "markdown")
	}
	if cfg.Scoring.PerDeviationPenalty != 4 {
		t.Errorf("Scoring.PerDeviationPenalty = %d, want 4", cfg.Scoring.PerDeviationPenalty)
	}
	if cfg.Scoring.WarningThreshold != 85 {
		t.Errorf("Scoring.WarningThreshold = %d, want 85", cfg.Scoring.WarningThreshold)
	}
	if !cfg.History.Enabled {
		t.Errorf("History.Enabled = false, want true")
	}
}

// TestLoadConfigPartialScoring verifies omitted scoring keys keep their defaults
func TestLoadConfigPartialScoring(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("scoring:\n  floor: 50\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Scoring.Floor != 50 {
		t.Errorf("Scoring.Floor = %d, want 50", cfg.Scoring.Floor)
	}
	if cfg.Scoring.Base != 90 {
		t.Errorf("Scoring.Base = %d, want 90 (default)", cfg.Scoring.Base)
	}
	if cfg.Scoring.MaxPenalty != 30 {
		t.Errorf("Scoring.MaxPenalty = %d, want 30 (default)", cfg.Scoring.MaxPenalty)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q (default)", cfg.LogLevel, "info")
	}
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() should not error on missing file, got: %v", err)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want %q (default)", cfg.Format, "text")
	}
}

// TestLoadConfigMalformed tests that malformed YAML is reported
func TestLoadConfigMalformed(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("log_level: [debug\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("LoadConfig() expected error for malformed YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("error = %q, want parse failure", err.Error())
	}
}

// TestLoadConfigFromDir tests loading from the .mvp directory
func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".mvp"), 0755); err != nil {
		t.Fatalf("failed to create .mvp dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".mvp", "config.yaml"), []byte("format: json\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFromDir(dir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
}

// TestMergeWithFlags tests that non-nil flags override config values
func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	level := "warn"
	format := "html"
	record := true

	cfg.MergeWithFlags(&level, nil, &format, &record)

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.LogDir != "" {
		t.Errorf("LogDir = %q, want unchanged empty value", cfg.LogDir)
	}
	if cfg.Format != "html" {
		t.Errorf("Format = %q, want %q", cfg.Format, "html")
	}
	if !cfg.History.Enabled {
		t.Errorf("History.Enabled = false, want true")
	}
}

// TestValidate tests configuration validation
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log_level"},
		{"bad format", func(c *Config) { c.Format = "pdf" }, "invalid format"},
		{"floor above max", func(c *Config) { c.Scoring.Floor = 101 }, "scoring.floor"},
		{"negative penalty", func(c *Config) { c.Scoring.PerDeviationPenalty = -5 }, "scoring.per_deviation_penalty"},
		{"warning threshold out of range", func(c *Config) { c.Scoring.WarningThreshold = 150 }, "scoring.warning_threshold"},
		{"negative keep days", func(c *Config) { c.History.KeepDays = -1 }, "history.keep_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
