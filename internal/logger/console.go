// Package logger provides logging implementations for validation runs.
//
// Loggers report free-form messages at five levels and a structured summary
// of each ValidationResult. Implementations are thread-safe and write either
// to a console writer or to a per-run file under the log directory.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/mvp/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger is implemented by every logger in this package.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogStaleChoices(choices []models.Choice)
	LogValidation(result *models.ValidationResult)
}

// ConsoleLogger logs validation progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
// Returns true for os.Stdout and os.Stderr when they are TTYs.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// color.NoColor honours NO_COLOR and non-TTY output
		return !color.NoColor
	}

	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, levelColor(level).Sprint(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

// LogStaleChoices reports choices dropped because their decision is not
// offered for the project's tier. Logged at WARN level.
func (cl *ConsoleLogger) LogStaleChoices(choices []models.Choice) {
	if len(choices) == 0 {
		return
	}
	ids := make([]string, 0, len(choices))
	for _, c := range choices {
		ids = append(ids, c.DecisionID+"="+c.SelectedOptionID)
	}
	cl.LogWarn(fmt.Sprintf("Dropped %d choice(s) not offered for this tier: %s", len(choices), strings.Join(ids, ", ")))
}

// LogValidation logs the outcome of a validation run at INFO level.
// Format:
//
//	[HH:MM:SS] === Validation 10k: PASS (overall 90) ===
//	[HH:MM:SS]   kitchen          [=========           ] 85/100 (threshold 80)
//	[HH:MM:SS] Missing bridges: butlers-pantry
//	[HH:MM:SS] Red flags: garage-into-formal-entry
func (cl *ConsoleLogger) LogValidation(result *models.ValidationResult) {
	if cl.writer == nil || result == nil {
		return
	}
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	scheme := newColorScheme(cl.colorOutput)

	var sb strings.Builder
	gateText := strings.ToUpper(string(result.GateStatus))
	header := fmt.Sprintf("=== Validation %s: %s (overall %d) ===", result.Tier, scheme.gate(result.GateStatus).Sprint(gateText), result.OverallScore)
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
	}
	fmt.Fprintf(&sb, "[%s] %s\n", ts, header)

	width := moduleNameWidth(result.ModuleScores)
	for _, ms := range result.ModuleScores {
		bar := NewScoreBar(ms.Score, ms.Threshold, 20, cl.colorOutput)
		name := scheme.label.Sprint(fmt.Sprintf("%-*s", width, ms.ModuleID))
		fmt.Fprintf(&sb, "[%s]   %s %s\n", ts, name, bar.Render())
	}

	if missing := result.MissingBridges(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, b := range missing {
			names = append(names, b.BridgeID)
		}
		fmt.Fprintf(&sb, "[%s] %s %s\n", ts, scheme.warn.Sprint("Missing bridges:"), strings.Join(names, ", "))
	}

	if flags := result.TriggeredRedFlags(); len(flags) > 0 {
		names := make([]string, 0, len(flags))
		for _, f := range flags {
			names = append(names, f.RuleID)
		}
		fmt.Fprintf(&sb, "[%s] %s %s\n", ts, scheme.fail.Sprint("Red flags:"), strings.Join(names, ", "))
	}

	if n := len(result.Deviations); n > 0 {
		fmt.Fprintf(&sb, "[%s] Deviations from benchmark: %d\n", ts, n)
	}

	cl.writer.Write([]byte(sb.String()))
}

func moduleNameWidth(scores []models.ModuleScore) int {
	width := 0
	for _, ms := range scores {
		if len(ms.ModuleID) > width {
			width = len(ms.ModuleID)
		}
	}
	return width
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string)                       {}
func (n *NoOpLogger) LogDebug(message string)                       {}
func (n *NoOpLogger) LogInfo(message string)                        {}
func (n *NoOpLogger) LogWarn(message string)                        {}
func (n *NoOpLogger) LogError(message string)                       {}
func (n *NoOpLogger) LogStaleChoices(choices []models.Choice)       {}
func (n *NoOpLogger) LogValidation(result *models.ValidationResult) {}
