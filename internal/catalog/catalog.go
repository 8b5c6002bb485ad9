// Package catalog holds the decision catalog together with the scoring
// modules and structural bridges the validator evaluates.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/harrison/mvp/internal/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is immutable reference data. Accessors return copies.
type Catalog struct {
	decisions []models.Decision
	modules   []models.Module
	bridges   []models.Bridge
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog decoded from the embedded catalog.yaml.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(catalogYAML)
	})
	return defaultCat, defaultErr
}

type catalogFile struct {
	Decisions []decisionYAML `yaml:"decisions"`
	Modules   []moduleYAML   `yaml:"modules"`
	Bridges   []bridgeYAML   `yaml:"bridges"`
}

type decisionYAML struct {
	ID      string       `yaml:"id"`
	Title   string       `yaml:"title"`
	MinTier string       `yaml:"min_tier"`
	Options []optionYAML `yaml:"options"`
}

type optionYAML struct {
	ID      string      `yaml:"id"`
	Label   string      `yaml:"label"`
	Default bool        `yaml:"default"`
	Patches []patchYAML `yaml:"patches"`
}

type patchYAML struct {
	Op           string `yaml:"op"`
	From         string `yaml:"from"`
	To           string `yaml:"to"`
	Relationship string `yaml:"relationship"`
	Both         bool   `yaml:"both"`
}

type moduleYAML struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Spaces         []string `yaml:"spaces"`
	ChecklistItems int      `yaml:"checklist_items"`
	Threshold      *int     `yaml:"threshold"`
}

type bridgeYAML struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Spaces      []string        `yaml:"spaces"`
	Conditions  []conditionYAML `yaml:"conditions"`
}

type conditionYAML struct {
	From  string   `yaml:"from"`
	To    string   `yaml:"to"`
	AnyOf []string `yaml:"any_of"`
}

// Load decodes and validates a catalog document.
func Load(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{}
	seen := make(map[string]bool)
	for _, raw := range file.Decisions {
		d, err := buildDecision(raw)
		if err != nil {
			return nil, fmt.Errorf("decision %q: %w", raw.ID, err)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("decision %q defined more than once", d.ID)
		}
		seen[d.ID] = true
		c.decisions = append(c.decisions, d)
	}

	seen = make(map[string]bool)
	for _, raw := range file.Modules {
		m, err := buildModule(raw)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", raw.ID, err)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("module %q defined more than once", m.ID)
		}
		seen[m.ID] = true
		c.modules = append(c.modules, m)
	}

	seen = make(map[string]bool)
	for _, raw := range file.Bridges {
		b, err := buildBridge(raw)
		if err != nil {
			return nil, fmt.Errorf("bridge %q: %w", raw.ID, err)
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("bridge %q defined more than once", b.ID)
		}
		seen[b.ID] = true
		c.bridges = append(c.bridges, b)
	}

	return c, nil
}

func buildDecision(raw decisionYAML) (models.Decision, error) {
	if raw.ID == "" {
		return models.Decision{}, fmt.Errorf("id is required")
	}
	if len(raw.Options) == 0 {
		return models.Decision{}, fmt.Errorf("at least one option is required")
	}
	d := models.Decision{ID: raw.ID, Title: raw.Title, MinTier: models.TierID(raw.MinTier)}
	if d.MinTier != "" && !d.MinTier.Valid() {
		return models.Decision{}, &models.UnknownTierError{Tier: d.MinTier}
	}

	defaults := 0
	optionIDs := make(map[string]bool)
	for _, ro := range raw.Options {
		if ro.ID == "" {
			return models.Decision{}, fmt.Errorf("option without id")
		}
		if optionIDs[ro.ID] {
			return models.Decision{}, fmt.Errorf("option %q defined more than once", ro.ID)
		}
		optionIDs[ro.ID] = true
		if ro.Default {
			defaults++
		}

		opt := models.Option{ID: ro.ID, Label: ro.Label, IsDefault: ro.Default}
		for _, rp := range ro.Patches {
			patches, err := buildPatches(rp)
			if err != nil {
				return models.Decision{}, fmt.Errorf("option %q: %w", ro.ID, err)
			}
			opt.Patches = append(opt.Patches, patches...)
		}
		d.Options = append(d.Options, opt)
	}
	if defaults > 1 {
		return models.Decision{}, fmt.Errorf("%d options are marked default, at most one is allowed", defaults)
	}
	return d, nil
}

func buildPatches(raw patchYAML) ([]models.Patch, error) {
	if raw.From == "" || raw.To == "" {
		return nil, fmt.Errorf("patch requires from and to")
	}
	if raw.From == raw.To {
		return nil, fmt.Errorf("patch %s->%s: a space cannot relate to itself", raw.From, raw.To)
	}

	p := models.Patch{From: raw.From, To: raw.To}
	switch models.PatchOp(raw.Op) {
	case models.PatchSet, "":
		p.Op = models.PatchSet
		rel, err := models.ParseRelationship(raw.Relationship)
		if err != nil {
			return nil, fmt.Errorf("patch %s->%s: %w", raw.From, raw.To, err)
		}
		p.Relationship = rel
	case models.PatchRemove:
		p.Op = models.PatchRemove
	default:
		return nil, fmt.Errorf("patch %s->%s: unknown op %q", raw.From, raw.To, raw.Op)
	}

	if !raw.Both {
		return []models.Patch{p}, nil
	}
	mirror := p
	mirror.From, mirror.To = p.To, p.From
	return []models.Patch{p, mirror}, nil
}

func buildModule(raw moduleYAML) (models.Module, error) {
	if raw.ID == "" {
		return models.Module{}, fmt.Errorf("id is required")
	}
	if raw.ChecklistItems < 0 {
		return models.Module{}, fmt.Errorf("checklist_items must be >= 0, got %d", raw.ChecklistItems)
	}
	m := models.Module{
		ID:             raw.ID,
		Name:           raw.Name,
		Spaces:         append([]string(nil), raw.Spaces...),
		ChecklistItems: raw.ChecklistItems,
		Threshold:      models.DefaultModuleThreshold,
	}
	if raw.Threshold != nil {
		if *raw.Threshold < 0 || *raw.Threshold > 100 {
			return models.Module{}, fmt.Errorf("threshold must be within [0, 100], got %d", *raw.Threshold)
		}
		m.Threshold = *raw.Threshold
	}
	return m, nil
}

func buildBridge(raw bridgeYAML) (models.Bridge, error) {
	if raw.ID == "" {
		return models.Bridge{}, fmt.Errorf("id is required")
	}
	b := models.Bridge{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Spaces:      append([]string(nil), raw.Spaces...),
	}
	for _, rc := range raw.Conditions {
		cond := models.BridgeCondition{From: rc.From, To: rc.To}
		for _, s := range rc.AnyOf {
			rel, err := models.ParseRelationship(s)
			if err != nil {
				return models.Bridge{}, fmt.Errorf("condition %s->%s: %w", rc.From, rc.To, err)
			}
			cond.AnyOf = append(cond.AnyOf, rel)
		}
		if len(cond.AnyOf) == 0 {
			return models.Bridge{}, fmt.Errorf("condition %s->%s lists no acceptable relationships", rc.From, rc.To)
		}
		b.Conditions = append(b.Conditions, cond)
	}
	return b, nil
}

// Decisions returns every decision in catalog order.
func (c *Catalog) Decisions() []models.Decision {
	return cloneDecisions(c.decisions)
}

// DecisionsForTier returns the decisions available to tier, in catalog order.
func (c *Catalog) DecisionsForTier(tier models.TierID) ([]models.Decision, error) {
	if !tier.Valid() {
		return nil, &models.UnknownTierError{Tier: tier}
	}
	var out []models.Decision
	for _, d := range c.decisions {
		if d.AvailableIn(tier) {
			out = append(out, d)
		}
	}
	return cloneDecisions(out), nil
}

// Decision returns the decision with the given id.
func (c *Catalog) Decision(id string) (models.Decision, bool) {
	for _, d := range c.decisions {
		if d.ID == id {
			return cloneDecisions([]models.Decision{d})[0], true
		}
	}
	return models.Decision{}, false
}

// Modules returns the scoring modules in catalog order.
func (c *Catalog) Modules() []models.Module {
	out := make([]models.Module, len(c.modules))
	for i, m := range c.modules {
		m.Spaces = append([]string(nil), m.Spaces...)
		out[i] = m
	}
	return out
}

// Bridges returns the bridge definitions in catalog order.
func (c *Catalog) Bridges() []models.Bridge {
	out := make([]models.Bridge, len(c.bridges))
	for i, b := range c.bridges {
		b.Spaces = append([]string(nil), b.Spaces...)
		conds := make([]models.BridgeCondition, len(b.Conditions))
		for j, cond := range b.Conditions {
			cond.AnyOf = append([]models.Relationship(nil), cond.AnyOf...)
			conds[j] = cond
		}
		b.Conditions = conds
		out[i] = b
	}
	return out
}

func cloneDecisions(in []models.Decision) []models.Decision {
	out := make([]models.Decision, len(in))
	for i, d := range in {
		opts := make([]models.Option, len(d.Options))
		for j, o := range d.Options {
			o.Patches = append([]models.Patch(nil), o.Patches...)
			opts[j] = o
		}
		d.Options = opts
		out[i] = d
	}
	return out
}
