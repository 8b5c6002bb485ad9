package models

// PatchOp is the operation a matrix patch performs.
type PatchOp string

const (
	// PatchSet overwrites or inserts the relationship for a key.
	PatchSet PatchOp = "set"
	// PatchRemove drops the entry for a key.
	PatchRemove PatchOp = "remove"
)

// Patch is a single edit applied to a working copy of the benchmark matrix.
type Patch struct {
	Op           PatchOp      `yaml:"op" json:"op"`
	From         string       `yaml:"from" json:"from"`
	To           string       `yaml:"to" json:"to"`
	Relationship Relationship `yaml:"relationship,omitempty" json:"relationship,omitempty"`
}

// Key returns the matrix key the patch targets.
func (p Patch) Key() Key {
	return Key{From: p.From, To: p.To}
}

// Apply performs the patch on m.
func (p Patch) Apply(m *Matrix) {
	switch p.Op {
	case PatchRemove:
		m.Delete(p.Key())
	default:
		m.Set(p.Key(), p.Relationship)
	}
}

// Option is one mutually exclusive answer to a decision.
type Option struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Patches   []Patch `json:"patches,omitempty"`
	IsDefault bool    `json:"is_default"`
}

// Decision is a discrete design decision offered to the client.
type Decision struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	MinTier TierID   `json:"min_tier"`
	Options []Option `json:"options"`
}

// Option returns the option with the given id.
func (d Decision) Option(id string) (Option, bool) {
	for _, o := range d.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// DefaultOption returns the option marked as default, if any.
func (d Decision) DefaultOption() (Option, bool) {
	for _, o := range d.Options {
		if o.IsDefault {
			return o, true
		}
	}
	return Option{}, false
}

// AvailableIn reports whether the decision applies to tier.
func (d Decision) AvailableIn(tier TierID) bool {
	if d.MinTier == "" {
		return true
	}
	return tier.Rank() >= d.MinTier.Rank()
}

// Choice records the option a client selected for a decision.
type Choice struct {
	DecisionID       string `yaml:"decision" json:"decision"`
	SelectedOptionID string `yaml:"option" json:"option"`
}
