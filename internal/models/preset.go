package models

// TierID identifies a size bracket of the benchmark library.
type TierID string

// Defined tiers, smallest first.
const (
	Tier5K  TierID = "5k"
	Tier10K TierID = "10k"
	Tier15K TierID = "15k"
	Tier20K TierID = "20k"
)

// Tiers lists every defined tier, smallest first.
var Tiers = []TierID{Tier5K, Tier10K, Tier15K, Tier20K}

// Rank returns the position of the tier in Tiers, or -1 if the tier is unknown.
func (t TierID) Rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// Valid reports whether t is a defined tier.
func (t TierID) Valid() bool {
	return t.Rank() >= 0
}

// Preset is the benchmark for one tier: the space programme, the desired
// adjacency matrix and which bridges the tier requires.
type Preset struct {
	ID                 TierID          `json:"id"`
	Name               string          `json:"name"`
	Spaces             []Space         `json:"spaces"`
	Matrix             Matrix          `json:"matrix"`
	BridgeRequirements map[string]bool `json:"bridge_requirements"`
}

// Space returns the space with the given code.
func (p Preset) Space(code string) (Space, bool) {
	for _, s := range p.Spaces {
		if s.Code == code {
			return s, true
		}
	}
	return Space{}, false
}

// HasSpace reports whether the preset's programme includes code.
func (p Preset) HasSpace(code string) bool {
	_, ok := p.Space(code)
	return ok
}

// TotalArea sums the target areas of all spaces.
func (p Preset) TotalArea() float64 {
	var total float64
	for _, s := range p.Spaces {
		total += s.TargetArea
	}
	return total
}

// Clone returns a deep copy so callers cannot alter shared reference data.
func (p Preset) Clone() Preset {
	c := p
	c.Spaces = append([]Space(nil), p.Spaces...)
	c.Matrix = p.Matrix.Clone()
	c.BridgeRequirements = make(map[string]bool, len(p.BridgeRequirements))
	for k, v := range p.BridgeRequirements {
		c.BridgeRequirements[k] = v
	}
	return c
}
