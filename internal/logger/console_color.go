package logger

import (
	"github.com/fatih/color"

	"github.com/harrison/mvp/internal/models"
)

// colorScheme defines consistent colors for validation output.
// Green: passing scores and gates
// Red: failures and red flags
// Yellow: warnings and missing bridges
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

// newColorScheme creates the standard color scheme. With enabled false every
// color prints plain text regardless of the terminal.
func newColorScheme(enabled bool) *colorScheme {
	s := &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{s.success, s.fail, s.warn, s.label} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// gate returns the color for a gate status.
func (s *colorScheme) gate(g models.GateStatus) *color.Color {
	switch g {
	case models.GatePass:
		return s.success
	case models.GateWarning:
		return s.warn
	default:
		return s.fail
	}
}

// levelColor returns the color for a log level label.
func levelColor(level string) *color.Color {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack)
	case "DEBUG":
		return color.New(color.FgCyan)
	case "INFO":
		return color.New(color.FgBlue)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}
