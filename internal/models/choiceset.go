package models

import "fmt"

// ChoiceSet is a client's decisions for one project as read from a choice file.
type ChoiceSet struct {
	Project    string         `yaml:"project" json:"project"`
	TargetArea float64        `yaml:"target_area" json:"target_area"`
	Tier       TierID         `yaml:"tier,omitempty" json:"tier,omitempty"`
	Choices    []Choice       `yaml:"choices" json:"choices"`
	Checklist  map[string]int `yaml:"checklist,omitempty" json:"checklist,omitempty"`

	// FilePath is where the set was loaded from; it is never serialised.
	FilePath string `yaml:"-" json:"-"`
}

// Validate checks the fields a choice file must carry. It does not check
// choices against the catalog; the transformer does that.
func (cs *ChoiceSet) Validate() error {
	if cs.Tier == "" && cs.TargetArea <= 0 {
		return fmt.Errorf("choice set needs a tier or a positive target_area")
	}
	if cs.Tier != "" && !cs.Tier.Valid() {
		return &UnknownTierError{Tier: cs.Tier}
	}
	for i, c := range cs.Choices {
		if c.DecisionID == "" || c.SelectedOptionID == "" {
			return fmt.Errorf("choice %d: decision and option are required", i+1)
		}
	}
	for module, n := range cs.Checklist {
		if n < 0 {
			return fmt.Errorf("checklist %s: completed count must be >= 0, got %d", module, n)
		}
	}
	return nil
}

// Select records option for decision. An existing choice for the decision is
// replaced in place so the file keeps its order; otherwise the choice is appended.
func (cs *ChoiceSet) Select(decisionID, optionID string) {
	for i, c := range cs.Choices {
		if c.DecisionID == decisionID {
			cs.Choices[i].SelectedOptionID = optionID
			return
		}
	}
	cs.Choices = append(cs.Choices, Choice{DecisionID: decisionID, SelectedOptionID: optionID})
}

// Selected returns the option chosen for decision.
func (cs *ChoiceSet) Selected(decisionID string) (string, bool) {
	for _, c := range cs.Choices {
		if c.DecisionID == decisionID {
			return c.SelectedOptionID, true
		}
	}
	return "", false
}
