package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/mvp/internal/benchmark"
	"github.com/harrison/mvp/internal/config"
	"github.com/harrison/mvp/internal/engine"
	"github.com/harrison/mvp/internal/history"
	"github.com/harrison/mvp/internal/logger"
	"github.com/harrison/mvp/internal/models"
)

// loadConfig reads the config file named by --config (or .mvp/config.yaml),
// applies the persistent logging flags and any extra flag overrides, and
// validates the result.
func loadConfig(cmd *cobra.Command, format *string, record *bool) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var logLevelPtr, logDirPtr *string
	if cmd.Flags().Changed("log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &v
	}
	if cmd.Flags().Changed("log-dir") {
		v, _ := cmd.Flags().GetString("log-dir")
		logDirPtr = &v
	}
	cfg.MergeWithFlags(logLevelPtr, logDirPtr, format, record)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newEngine builds an engine over the embedded reference data using the
// configured scoring constants.
func newEngine(cfg *config.Config) (*engine.Engine, error) {
	return engine.NewDefault(engine.Options{
		Scoring:          cfg.Scoring.Params,
		WarningThreshold: cfg.Scoring.WarningThreshold,
	})
}

// newLogger returns a console logger on w, joined with a file logger when a
// log directory is configured. The returned close func is always non-nil.
func newLogger(w io.Writer, cfg *config.Config) (logger.Logger, func(), error) {
	console := logger.NewConsoleLogger(w, cfg.LogLevel)
	if cfg.LogDir == "" {
		return console, func() {}, nil
	}

	fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	multi := &multiLogger{loggers: []logger.Logger{console, fileLog}}
	return multi, func() { fileLog.Close() }, nil
}

// openHistory opens the configured history database.
func openHistory(cfg *config.Config) (*history.Store, error) {
	dbPath, err := config.GetHistoryDBPath(cfg.History.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to locate history database: %w", err)
	}
	store, err := history.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", dbPath, err)
	}
	return store, nil
}

// resolveTier returns the tier a choice set declares, or the tier its target
// area falls into. An explicit tier wins over the area.
func resolveTier(cs *models.ChoiceSet) (models.TierID, error) {
	if cs.Tier != "" {
		if !cs.Tier.Valid() {
			return "", &models.UnknownTierError{Tier: cs.Tier}
		}
		return cs.Tier, nil
	}
	return benchmark.ResolveTier(cs.TargetArea)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// multiLogger implements logger.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []logger.Logger
}

func (ml *multiLogger) LogTrace(message string) {
	for _, l := range ml.loggers {
		l.LogTrace(message)
	}
}

func (ml *multiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

func (ml *multiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// LogStaleChoices forwards to all loggers
func (ml *multiLogger) LogStaleChoices(choices []models.Choice) {
	for _, l := range ml.loggers {
		l.LogStaleChoices(choices)
	}
}

// LogValidation forwards to all loggers
func (ml *multiLogger) LogValidation(result *models.ValidationResult) {
	for _, l := range ml.loggers {
		l.LogValidation(result)
	}
}
