package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/mvp/internal/models"
)

// FileLogger logs validation runs to files in the log directory.
// It creates timestamped per-run log files, per-result detail logs,
// and maintains a latest.log symlink pointing to the most recent run.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir     string
	runLog     *os.File
	runFile    string
	resultsDir string
	logLevel   string
	mu         sync.Mutex
}

// NewFileLoggerWithDirAndLevel creates a new FileLogger with a custom log directory and log level.
// It creates the log directory if it doesn't exist, opens a timestamped
// run log file, and creates/updates the latest.log symlink.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	resultsDir := filepath.Join(logDir, "results")
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	// Generate timestamped filename: run-YYYYMMDD-HHMMSS.log
	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", ts))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:     logDir,
		runLog:     file,
		runFile:    runFile,
		resultsDir: resultsDir,
		logLevel:   normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== MVP Validation Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the current run log.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogStaleChoices records dropped choices at WARN level.
func (fl *FileLogger) LogStaleChoices(choices []models.Choice) {
	for _, c := range choices {
		fl.LogWarn(fmt.Sprintf("Dropped choice %s=%s: decision not offered for this tier", c.DecisionID, c.SelectedOptionID))
	}
}

// LogValidation writes a one-line summary to the run log at INFO level and
// a detailed breakdown to results/<id>.log.
func (fl *FileLogger) LogValidation(result *models.ValidationResult) {
	if result == nil || !fl.shouldLog("info") {
		return
	}

	fl.writeRunLog(fmt.Sprintf("[%s] Validation %s: tier %s, gate %s, overall %d, %d deviation(s), %d missing bridge(s), %d red flag(s)\n",
		timestamp(),
		result.ID,
		result.Tier,
		result.GateStatus,
		result.OverallScore,
		len(result.Deviations),
		len(result.MissingBridges()),
		len(result.TriggeredRedFlags()),
	))

	if err := fl.writeResultDetail(result); err != nil {
		fl.writeRunLog(fmt.Sprintf("[%s] [ERROR] failed to write result detail: %v\n", timestamp(), err))
	}
}

func (fl *FileLogger) writeResultDetail(result *models.ValidationResult) error {
	name := result.ID
	if name == "" {
		name = "result-" + time.Now().Format("20060102-150405")
	}
	path := filepath.Join(fl.resultsDir, name+".log")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Result: %s\n", result.ID)
	if result.Project != "" {
		fmt.Fprintf(&sb, "Project: %s\n", result.Project)
	}
	fmt.Fprintf(&sb, "Tier: %s\n", result.Tier)
	fmt.Fprintf(&sb, "Computed at: %s\n", result.ComputedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Gate: %s\n", result.GateStatus)
	fmt.Fprintf(&sb, "Overall: %d\n\n", result.OverallScore)

	sb.WriteString("Modules:\n")
	for _, ms := range result.ModuleScores {
		status := "PASS"
		if !ms.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&sb, "  %s: %d/%d %s (deviations %d, penalty %d, checklist bonus %d)\n",
			ms.ModuleID, ms.Score, ms.Threshold, status, ms.DeviationCount, ms.Penalty, ms.ChecklistBonus)
	}

	sb.WriteString("\nBridges:\n")
	for _, b := range result.BridgeStatuses {
		fmt.Fprintf(&sb, "  %s: required=%t present=%t\n", b.BridgeID, b.Required, b.Present)
	}

	sb.WriteString("\nRed flags:\n")
	for _, f := range result.RedFlagStatuses {
		fmt.Fprintf(&sb, "  %s: triggered=%t\n", f.RuleID, f.Triggered)
	}

	if len(result.Deviations) > 0 {
		sb.WriteString("\nDeviations:\n")
		for _, d := range result.Deviations {
			fmt.Fprintf(&sb, "  %s -> %s: desired %s, proposed %s\n", d.From, d.To, d.Desired, d.Proposed)
		}
	}

	if len(result.Choices) > 0 {
		sb.WriteString("\nChoices:\n")
		for _, c := range result.Choices {
			fmt.Fprintf(&sb, "  %s = %s\n", c.DecisionID, c.SelectedOptionID)
		}
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		// Flush after each write for real-time logging
		fl.runLog.Sync()
	}
}
