package models

// DefaultModuleThreshold is the passing score for modules that do not set one.
const DefaultModuleThreshold = 80

// Module is a functional area of the home scored independently.
type Module struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Spaces         []string `json:"spaces"`
	ChecklistItems int      `json:"checklist_items"`
	Threshold      int      `json:"threshold"`
}

// Owns reports whether the module is responsible for the space code.
func (m Module) Owns(code string) bool {
	for _, s := range m.Spaces {
		if s == code {
			return true
		}
	}
	return false
}

// BridgeCondition requires the proposed relationship From->To to be one of AnyOf.
type BridgeCondition struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	AnyOf []Relationship `json:"any_of"`
}

// Satisfied reports whether the condition holds in m.
func (c BridgeCondition) Satisfied(m Matrix) bool {
	r, ok := m.Lookup(c.From, c.To)
	if !ok {
		return false
	}
	for _, want := range c.AnyOf {
		if r == want {
			return true
		}
	}
	return false
}

// Bridge is a structural connector some tiers must include, such as a
// butler's pantry between kitchen and dining.
type Bridge struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Spaces      []string          `json:"spaces"`
	Conditions  []BridgeCondition `json:"conditions"`
}

// RedFlagPredicate decides whether a red flag is triggered. It must be pure.
type RedFlagPredicate func(proposed Matrix, spaces []Space) bool

// RedFlagRule is a hard-fail rule evaluated against the proposed design.
type RedFlagRule struct {
	ID          string
	Name        string
	Description string
	Predicate   RedFlagPredicate
}
