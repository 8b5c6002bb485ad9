// Package deviation compares a proposed matrix with its benchmark.
package deviation

import (
	"github.com/harrison/mvp/internal/models"
)

// Detect returns one Deviation for every key present in both matrices whose
// relationships differ, sorted by (from, to). Keys present in only one
// matrix are not deviations.
func Detect(benchmark, proposed models.Matrix) []models.Deviation {
	var out []models.Deviation
	for _, key := range benchmark.Keys() {
		desired, _ := benchmark.Get(key)
		actual, ok := proposed.Get(key)
		if !ok || actual == desired {
			continue
		}
		out = append(out, models.Deviation{
			From:     key.From,
			To:       key.To,
			Desired:  desired,
			Proposed: actual,
		})
	}
	return out
}

// Attributable returns the deviations with at least one endpoint in codes,
// preserving order.
func Attributable(devs []models.Deviation, codes []string) []models.Deviation {
	owned := make(map[string]bool, len(codes))
	for _, c := range codes {
		owned[c] = true
	}
	var out []models.Deviation
	for _, d := range devs {
		if owned[d.From] || owned[d.To] {
			out = append(out, d)
		}
	}
	return out
}
