package logger

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrison/mvp/internal/models"
)

func sampleResult() *models.ValidationResult {
	return &models.ValidationResult{
		ID:           "run-42",
		Tier:         models.Tier10K,
		ComputedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		OverallScore: 78,
		GateStatus:   models.GateFail,
		ModuleScores: []models.ModuleScore{
			{ModuleID: "kitchen", Score: 85, Threshold: 80, Passed: true, DeviationCount: 1, Penalty: 5},
			{ModuleID: "guest", Score: 70, Threshold: 80, Passed: false, DeviationCount: 4, Penalty: 20},
		},
		BridgeStatuses: []models.BridgeStatus{
			{BridgeID: "butlers-pantry", Required: true, Present: false},
			{BridgeID: "mudroom-drop-zone", Required: true, Present: true},
		},
		RedFlagStatuses: []models.RedFlagStatus{
			{RuleID: "guest-shares-primary-wall", Triggered: true},
			{RuleID: "garage-into-formal-entry"},
		},
		Deviations: []models.Deviation{
			{From: "GST", To: "PRI", Desired: models.Separate, Proposed: models.Adjacent},
		},
		Choices: []models.Choice{{DecisionID: "guest-suite-placement", SelectedOptionID: "beside-primary"}},
	}
}

// TestNewConsoleLogger verifies the constructor creates a ConsoleLogger with the provided writer.
func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "DEBUG")

		if logger.writer != buf {
			t.Error("writer not set correctly")
		}
		if logger.logLevel != "debug" {
			t.Errorf("expected log level %q, got %q", "debug", logger.logLevel)
		}
		if logger.colorOutput {
			t.Error("expected no color output for a buffer")
		}
	})

	t.Run("with invalid level", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "loud")
		if logger.logLevel != "info" {
			t.Errorf("expected fallback level %q, got %q", "info", logger.logLevel)
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "info")
		logger.LogInfo("discarded")
		logger.LogValidation(sampleResult())
	})
}

// TestLevelFiltering verifies messages below the configured level are dropped.
func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"trace", []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"error", []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.level)

			logger.LogTrace("t")
			logger.LogDebug("d")
			logger.LogInfo("i")
			logger.LogWarn("w")
			logger.LogError("e")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("expected %d lines, got %d: %q", len(tt.want), len(lines), buf.String())
			}
			for i, level := range tt.want {
				if !strings.Contains(lines[i], "["+level+"]") {
					t.Errorf("line %d = %q, want level %s", i, lines[i], level)
				}
			}
		})
	}
}

// TestLogFormat verifies the timestamp prefix.
func TestLogFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "info").LogInfo("Loaded 4 presets")

	pattern := regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] \[INFO\] Loaded 4 presets\n$`)
	if !pattern.MatchString(buf.String()) {
		t.Errorf("unexpected format: %q", buf.String())
	}
}

// TestLogValidation verifies the validation summary lists every part of the result.
func TestLogValidation(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "info").LogValidation(sampleResult())
	out := buf.String()

	for _, want := range []string{
		"=== Validation 10k: FAIL (overall 78) ===",
		"kitchen [=================   ] 85/100 (threshold 80)",
		"guest   [==============      ] 70/100 (threshold 80)",
		"Missing bridges: butlers-pantry",
		"Red flags: guest-shares-primary-wall",
		"Deviations from benchmark: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("expected no ANSI codes for non-terminal writer")
	}
}

// TestLogValidationSuppressedAboveInfo verifies warn level hides the summary.
func TestLogValidationSuppressedAboveInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "warn").LogValidation(sampleResult())
	if buf.Len() != 0 {
		t.Errorf("expected no output at warn level, got %q", buf.String())
	}
}

// TestLogStaleChoices verifies dropped choices are reported once as a warning.
func TestLogStaleChoices(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	logger.LogStaleChoices(nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty list, got %q", buf.String())
	}

	logger.LogStaleChoices([]models.Choice{
		{DecisionID: "wine-room", SelectedOptionID: "cellar"},
		{DecisionID: "staff-quarters", SelectedOptionID: "detached"},
	})
	want := "[WARN] Dropped 2 choice(s) not offered for this tier: wine-room=cellar, staff-quarters=detached"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("got %q, want it to contain %q", buf.String(), want)
	}
}

// TestConsoleLoggerConcurrent verifies concurrent writes do not interleave lines.
func TestConsoleLoggerConcurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.LogInfo("concurrent message")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, "[INFO] concurrent message") {
			t.Errorf("malformed line %q", line)
		}
	}
}

// TestNoOpLogger verifies the NoOpLogger satisfies Logger.
func TestNoOpLogger(t *testing.T) {
	var l Logger = NewNoOpLogger()
	l.LogInfo("ignored")
	l.LogValidation(sampleResult())
	l.LogStaleChoices([]models.Choice{{DecisionID: "x"}})
}
