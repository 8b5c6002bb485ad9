// Package transform turns a benchmark matrix and a client's choices into the
// proposed matrix.
package transform

import (
	"github.com/harrison/mvp/internal/models"
)

// resolved is a choice that passed validation, paired with its option.
type resolved struct {
	decision string
	option   models.Option
}

// ApplyDecisionsToMatrix returns a new matrix built from benchmark by
// applying, in order:
//
//  1. the default option of every decision without a choice, in catalog order
//  2. the selected option of every choice, in choice-list order
//
// Patches inside an option apply in listed order and the last write to a key
// wins. decisions is the tier-filtered catalog. Every choice is validated
// before any patch is applied; on error no matrix is returned.
func ApplyDecisionsToMatrix(benchmark models.Matrix, decisions []models.Decision, choices []models.Choice) (models.Matrix, error) {
	selected, err := resolve(decisions, choices)
	if err != nil {
		return models.Matrix{}, err
	}

	chosen := make(map[string]bool, len(selected))
	for _, r := range selected {
		chosen[r.decision] = true
	}

	proposed := benchmark.Clone()
	for _, d := range decisions {
		if chosen[d.ID] {
			continue
		}
		if def, ok := d.DefaultOption(); ok {
			applyOption(&proposed, def)
		}
	}
	for _, r := range selected {
		applyOption(&proposed, r.option)
	}
	return proposed, nil
}

// ValidateChoices checks every choice against decisions and returns a
// *models.ChoiceValidationResult listing all rejected choices, or nil.
func ValidateChoices(decisions []models.Decision, choices []models.Choice) error {
	_, err := resolve(decisions, choices)
	return err
}

// PruneChoices splits choices into those that name a decision in decisions
// and those that do not, typically because the project changed tier.
// Option validity is not checked.
func PruneChoices(decisions []models.Decision, choices []models.Choice) (applicable, stale []models.Choice) {
	known := make(map[string]bool, len(decisions))
	for _, d := range decisions {
		known[d.ID] = true
	}
	for _, c := range choices {
		if known[c.DecisionID] {
			applicable = append(applicable, c)
		} else {
			stale = append(stale, c)
		}
	}
	return applicable, stale
}

func resolve(decisions []models.Decision, choices []models.Choice) ([]resolved, error) {
	byID := make(map[string]models.Decision, len(decisions))
	for _, d := range decisions {
		byID[d.ID] = d
	}

	result := &models.ChoiceValidationResult{}
	out := make([]resolved, 0, len(choices))
	seen := make(map[string]bool, len(choices))
	for i, c := range choices {
		d, ok := byID[c.DecisionID]
		if !ok {
			result.Errors = append(result.Errors, models.ChoiceError{
				Index: i, Choice: c,
				Err: &models.UnknownDecisionError{DecisionID: c.DecisionID},
			})
			continue
		}
		if seen[c.DecisionID] {
			result.Errors = append(result.Errors, models.ChoiceError{
				Index: i, Choice: c,
				Err: &models.DuplicateChoiceError{DecisionID: c.DecisionID},
			})
			continue
		}
		seen[c.DecisionID] = true

		opt, ok := d.Option(c.SelectedOptionID)
		if !ok {
			result.Errors = append(result.Errors, models.ChoiceError{
				Index: i, Choice: c,
				Err: &models.UnknownOptionError{DecisionID: c.DecisionID, OptionID: c.SelectedOptionID},
			})
			continue
		}
		out = append(out, resolved{decision: d.ID, option: opt})
	}

	if result.HasErrors() {
		return nil, result
	}
	return out, nil
}

func applyOption(m *models.Matrix, o models.Option) {
	for _, p := range o.Patches {
		p.Apply(m)
	}
}
