// Package gate resolves the final pass/warning/fail verdict of a run.
package gate

import (
	"fmt"
	"strings"

	"github.com/harrison/mvp/internal/models"
	"github.com/harrison/mvp/internal/scoring"
)

// DefaultWarningThreshold is the overall score below which a run is at best
// a warning.
const DefaultWarningThreshold = 80

// Resolve applies the gate precedence. A triggered red flag fails the run
// regardless of score. Otherwise a missing required bridge or an overall score
// below warningThreshold makes it a warning, and anything else passes.
func Resolve(overall int, bridges []models.BridgeStatus, flags []models.RedFlagStatus, warningThreshold int) models.GateStatus {
	for _, f := range flags {
		if f.Triggered {
			return models.GateFail
		}
	}
	for _, b := range bridges {
		if b.Missing() {
			return models.GateWarning
		}
	}
	if overall < warningThreshold {
		return models.GateWarning
	}
	return models.GatePass
}

// Ordinal ranks statuses from best to worst: pass 0, warning 1, fail 2.
// Unknown statuses rank worst.
func Ordinal(g models.GateStatus) int {
	switch g {
	case models.GatePass:
		return 0
	case models.GateWarning:
		return 1
	default:
		return 2
	}
}

// ParseStatus converts a status name into a GateStatus.
func ParseStatus(s string) (models.GateStatus, error) {
	g := models.GateStatus(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("unknown gate status %q (valid: pass, warning, fail)", s)
	}
	return g, nil
}

// Finding is one mismatch between a stored result and what its component
// fields imply.
type Finding struct {
	Field    string
	Stored   string
	Expected string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: stored %s, expected %s", f.Field, f.Stored, f.Expected)
}

// Audit re-derives the overall score, module pass flags and the gate of a
// stored result and reports every field that does not match. An empty
// slice means the result is internally consistent.
func Audit(r *models.ValidationResult, warningThreshold int) []Finding {
	var findings []Finding

	for _, ms := range r.ModuleScores {
		if want := ms.Score >= ms.Threshold; want != ms.Passed {
			findings = append(findings, Finding{
				Field:    "module " + ms.ModuleID + " passed",
				Stored:   fmt.Sprintf("%t", ms.Passed),
				Expected: fmt.Sprintf("%t", want),
			})
		}
	}

	overall := scoring.Overall(r.ModuleScores)
	if overall != r.OverallScore {
		findings = append(findings, Finding{
			Field:    "overall_score",
			Stored:   fmt.Sprintf("%d", r.OverallScore),
			Expected: fmt.Sprintf("%d", overall),
		})
	}

	for _, b := range r.BridgeStatuses {
		if b.Present && !b.Required {
			findings = append(findings, Finding{
				Field:    "bridge " + b.BridgeID + " present",
				Stored:   "true",
				Expected: "false",
			})
		}
	}

	if want := Resolve(overall, r.BridgeStatuses, r.RedFlagStatuses, warningThreshold); want != r.GateStatus {
		findings = append(findings, Finding{
			Field:    "gate_status",
			Stored:   string(r.GateStatus),
			Expected: string(want),
		})
	}
	return findings
}
