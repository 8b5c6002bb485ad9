// Package benchmark holds the per-tier benchmark presets: the space programme,
// the desired adjacency matrix and the bridge requirements of each size tier.
//
// Presets are static reference data. They are decoded once from the embedded
// presets.yaml and every accessor hands out a deep copy, so concurrent
// validation runs never share mutable state.
package benchmark

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/harrison/mvp/internal/models"
)

//go:embed presets.yaml
var presetsYAML []byte

// Library is an immutable set of presets keyed by tier.
type Library struct {
	presets map[models.TierID]models.Preset
	order   []models.TierID
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the library decoded from the embedded presets.yaml.
// Decoding happens once per process.
func Default() (*Library, error) {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Load(presetsYAML)
	})
	return defaultLib, defaultErr
}

// presetFile mirrors the YAML layout of presets.yaml
type presetFile struct {
	Presets []presetYAML `yaml:"presets"`
}

type presetYAML struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	Extends   string          `yaml:"extends"`
	Spaces    []models.Space  `yaml:"spaces"`
	Adjacency [][]string      `yaml:"adjacency"`
	OneWay    [][]string      `yaml:"one_way"`
	Bridges   map[string]bool `yaml:"bridges"`
}

// Load decodes and validates a presets document.
func Load(data []byte) (*Library, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("presets document defines no presets")
	}

	lib := &Library{presets: make(map[models.TierID]models.Preset)}
	for _, raw := range file.Presets {
		tier := models.TierID(raw.ID)
		if !tier.Valid() {
			return nil, fmt.Errorf("preset %q: %w", raw.ID, &models.UnknownTierError{Tier: tier})
		}
		if _, dup := lib.presets[tier]; dup {
			return nil, fmt.Errorf("preset %q defined more than once", raw.ID)
		}

		preset, err := buildPreset(raw, lib)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", raw.ID, err)
		}
		lib.presets[tier] = preset
		lib.order = append(lib.order, tier)
	}
	return lib, nil
}

// buildPreset resolves inheritance and validates one preset. Parents must be
// declared before the presets that extend them.
func buildPreset(raw presetYAML, lib *Library) (models.Preset, error) {
	preset := models.Preset{
		ID:                 models.TierID(raw.ID),
		Name:               raw.Name,
		BridgeRequirements: make(map[string]bool),
	}

	var matrix models.Matrix
	if raw.Extends != "" {
		parent, ok := lib.presets[models.TierID(raw.Extends)]
		if !ok {
			return models.Preset{}, fmt.Errorf("extends %q which is not defined earlier in the document", raw.Extends)
		}
		parent = parent.Clone()
		preset.Spaces = parent.Spaces
		matrix = parent.Matrix
		preset.BridgeRequirements = parent.BridgeRequirements
	} else {
		matrix, _ = models.NewMatrix()
	}

	seen := make(map[string]bool, len(preset.Spaces)+len(raw.Spaces))
	for _, s := range preset.Spaces {
		seen[s.Code] = true
	}
	for _, s := range raw.Spaces {
		if s.Code == "" {
			return models.Preset{}, fmt.Errorf("space %q has no code", s.Name)
		}
		if seen[s.Code] {
			return models.Preset{}, fmt.Errorf("space code %q is not unique", s.Code)
		}
		if s.Level < 0 {
			return models.Preset{}, fmt.Errorf("space %s: level must be >= 0, got %d", s.Code, s.Level)
		}
		if s.TargetArea < 0 {
			return models.Preset{}, fmt.Errorf("space %s: target_area must be >= 0, got %v", s.Code, s.TargetArea)
		}
		seen[s.Code] = true
		preset.Spaces = append(preset.Spaces, s)
	}

	// Entries declared in this preset may override inherited ones, but not each other.
	layer := make(map[models.Key]bool)
	add := func(entry []string, mirror bool) error {
		rel, err := parseEntry(entry)
		if err != nil {
			return err
		}
		keys := []models.Key{rel.Key()}
		if mirror {
			keys = append(keys, models.Key{From: rel.To, To: rel.From})
		}
		for _, k := range keys {
			if !seen[k.From] || !seen[k.To] {
				return fmt.Errorf("relationship %s references a space outside the preset", k)
			}
			if layer[k] {
				return fmt.Errorf("relationship %s is declared more than once", k)
			}
			layer[k] = true
			matrix.Set(k, rel.Relationship)
		}
		return nil
	}
	for _, entry := range raw.Adjacency {
		if err := add(entry, true); err != nil {
			return models.Preset{}, err
		}
	}
	for _, entry := range raw.OneWay {
		if err := add(entry, false); err != nil {
			return models.Preset{}, err
		}
	}
	preset.Matrix = matrix

	for id, required := range raw.Bridges {
		preset.BridgeRequirements[id] = required
	}
	return preset, nil
}

// parseEntry decodes a [FROM, TO, relationship] triple.
func parseEntry(entry []string) (models.AdjacencyRelationship, error) {
	if len(entry) != 3 {
		return models.AdjacencyRelationship{}, fmt.Errorf("relationship entry %v must be [from, to, relationship]", entry)
	}
	rel, err := models.ParseRelationship(entry[2])
	if err != nil {
		return models.AdjacencyRelationship{}, fmt.Errorf("relationship %s->%s: %w", entry[0], entry[1], err)
	}
	if entry[0] == entry[1] {
		return models.AdjacencyRelationship{}, fmt.Errorf("relationship %s->%s: a space cannot relate to itself", entry[0], entry[1])
	}
	return models.AdjacencyRelationship{From: entry[0], To: entry[1], Relationship: rel}, nil
}

// GetPreset returns a copy of the preset for tier.
func (l *Library) GetPreset(tier models.TierID) (models.Preset, error) {
	p, ok := l.presets[tier]
	if !ok {
		return models.Preset{}, &models.UnknownTierError{Tier: tier}
	}
	return p.Clone(), nil
}

// PresetForArea resolves the tier for area and returns its preset.
func (l *Library) PresetForArea(area float64) (models.Preset, error) {
	tier, err := ResolveTier(area)
	if err != nil {
		return models.Preset{}, err
	}
	return l.GetPreset(tier)
}

// Tiers returns the tiers defined by the library in document order.
func (l *Library) Tiers() []models.TierID {
	return append([]models.TierID(nil), l.order...)
}
