package models

import (
	"fmt"
	"strings"
)

// UnknownTierError is returned when a tier id or floor area maps to no defined tier.
type UnknownTierError struct {
	Tier TierID
	Area float64
}

func (e *UnknownTierError) Error() string {
	if e.Tier != "" {
		return fmt.Sprintf("unknown tier %q (defined tiers: 5k, 10k, 15k, 20k)", e.Tier)
	}
	return fmt.Sprintf("no tier defined for target area %v", e.Area)
}

// UnknownOptionError is returned when a choice names an option its decision does not offer.
type UnknownOptionError struct {
	DecisionID string
	OptionID   string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("decision %q has no option %q", e.DecisionID, e.OptionID)
}

// UnknownDecisionError is returned when a choice names a decision outside the active catalog,
// typically after a project moved to a different tier.
type UnknownDecisionError struct {
	DecisionID string
	Tier       TierID
}

func (e *UnknownDecisionError) Error() string {
	if e.Tier != "" {
		return fmt.Sprintf("decision %q is not available for tier %s", e.DecisionID, e.Tier)
	}
	return fmt.Sprintf("unknown decision %q", e.DecisionID)
}

// DuplicateChoiceError is returned when more than one choice names the same decision.
type DuplicateChoiceError struct {
	DecisionID string
}

func (e *DuplicateChoiceError) Error() string {
	return fmt.Sprintf("decision %q has more than one choice", e.DecisionID)
}

// ChoiceError ties a rejected choice to its position in the caller's choice list.
type ChoiceError struct {
	Index  int
	Choice Choice
	Err    error
}

func (e ChoiceError) Error() string {
	return fmt.Sprintf("choice %d (%s=%s): %v", e.Index+1, e.Choice.DecisionID, e.Choice.SelectedOptionID, e.Err)
}

func (e ChoiceError) Unwrap() error {
	return e.Err
}

// ChoiceValidationResult aggregates every rejected choice of a choice set.
type ChoiceValidationResult struct {
	Errors []ChoiceError
}

// Error returns aggregated error message
func (r *ChoiceValidationResult) Error() string {
	if len(r.Errors) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("choice validation failed with %d error(s):\n", len(r.Errors)))
	for _, err := range r.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// HasErrors returns true if validation found errors
func (r *ChoiceValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (r *ChoiceValidationResult) Unwrap() []error {
	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	return errs
}
