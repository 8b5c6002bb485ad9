package models

import "time"

// GateStatus is the final verdict for a proposed design.
type GateStatus string

// Gate statuses, from best to worst.
const (
	GatePass    GateStatus = "pass"
	GateWarning GateStatus = "warning"
	GateFail    GateStatus = "fail"
)

// Valid reports whether g is one of the defined statuses.
func (g GateStatus) Valid() bool {
	switch g {
	case GatePass, GateWarning, GateFail:
		return true
	}
	return false
}

// Deviation is a key present in both matrices with different relationships.
type Deviation struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Desired  Relationship `json:"desired"`
	Proposed Relationship `json:"proposed"`
}

// Key returns the matrix key of the deviation.
func (d Deviation) Key() Key {
	return Key{From: d.From, To: d.To}
}

// ModuleScore is the scoring outcome for one module.
type ModuleScore struct {
	ModuleID           string `json:"module_id"`
	Name               string `json:"name"`
	Score              int    `json:"score"`
	Threshold          int    `json:"threshold"`
	Passed             bool   `json:"passed"`
	DeviationCount     int    `json:"deviation_count"`
	Penalty            int    `json:"penalty"`
	ChecklistItems     int    `json:"checklist_items"`
	ChecklistCompleted int    `json:"checklist_completed"`
	ChecklistBonus     int    `json:"checklist_bonus"`
}

// BridgeStatus records whether a bridge is required and present.
type BridgeStatus struct {
	BridgeID string `json:"bridge_id"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Present  bool   `json:"present"`
}

// Missing reports a required bridge that is not present.
func (b BridgeStatus) Missing() bool {
	return b.Required && !b.Present
}

// RedFlagStatus records whether a red flag rule triggered.
type RedFlagStatus struct {
	RuleID    string `json:"rule_id"`
	Name      string `json:"name"`
	Triggered bool   `json:"triggered"`
}

// ValidationResult is the sole output of a validation run. It is built once
// per run and never mutated afterwards.
type ValidationResult struct {
	ID              string          `json:"id"`
	Project         string          `json:"project,omitempty"`
	Tier            TierID          `json:"tier"`
	ComputedAt      time.Time       `json:"computed_at"`
	OverallScore    int             `json:"overall_score"`
	GateStatus      GateStatus      `json:"gate_status"`
	ModuleScores    []ModuleScore   `json:"module_scores"`
	BridgeStatuses  []BridgeStatus  `json:"bridge_statuses"`
	RedFlagStatuses []RedFlagStatus `json:"red_flag_statuses"`
	Choices         []Choice        `json:"choices"`

	// Deviations are derived from the benchmark/proposed pair and are not
	// part of a stored record.
	Deviations []Deviation `json:"deviations,omitempty"`
}

// MissingBridges returns the bridges that are required but not present.
func (r *ValidationResult) MissingBridges() []BridgeStatus {
	var out []BridgeStatus
	for _, b := range r.BridgeStatuses {
		if b.Missing() {
			out = append(out, b)
		}
	}
	return out
}

// TriggeredRedFlags returns the red flags that fired.
func (r *ValidationResult) TriggeredRedFlags() []RedFlagStatus {
	var out []RedFlagStatus
	for _, f := range r.RedFlagStatuses {
		if f.Triggered {
			out = append(out, f)
		}
	}
	return out
}

// FailingModules returns modules scoring below their threshold.
func (r *ValidationResult) FailingModules() []ModuleScore {
	var out []ModuleScore
	for _, m := range r.ModuleScores {
		if !m.Passed {
			out = append(out, m)
		}
	}
	return out
}
