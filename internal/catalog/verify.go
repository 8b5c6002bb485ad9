package catalog

import (
	"fmt"
	"strings"

	"github.com/harrison/mvp/internal/models"
)

// Verify cross-checks the catalog against a set of presets:
//   - every patch of a decision available to a tier names spaces of that tier
//   - default options leave the benchmark unchanged
//   - every bridge a preset mentions is defined in the catalog
//
// It returns all problems found, or nil.
func (c *Catalog) Verify(presets []models.Preset) error {
	var problems []string

	bridgeIDs := make(map[string]bool, len(c.bridges))
	for _, b := range c.bridges {
		bridgeIDs[b.ID] = true
	}

	for _, p := range presets {
		for id := range p.BridgeRequirements {
			if !bridgeIDs[id] {
				problems = append(problems, fmt.Sprintf("preset %s: bridge %q is not defined in the catalog", p.ID, id))
			}
		}

		for _, d := range c.decisions {
			if !d.AvailableIn(p.ID) {
				continue
			}
			for _, o := range d.Options {
				for _, patch := range o.Patches {
					if !p.HasSpace(patch.From) || !p.HasSpace(patch.To) {
						problems = append(problems, fmt.Sprintf("preset %s: decision %s option %s patches %s outside the space programme",
							p.ID, d.ID, o.ID, patch.Key()))
					}
				}
				if o.IsDefault && changesMatrix(o, p.Matrix) {
					problems = append(problems, fmt.Sprintf("preset %s: default option %s of decision %s changes the benchmark",
						p.ID, o.ID, d.ID))
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("catalog verification failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func changesMatrix(o models.Option, benchmark models.Matrix) bool {
	working := benchmark.Clone()
	for _, p := range o.Patches {
		p.Apply(&working)
	}
	return !working.Equal(benchmark)
}
