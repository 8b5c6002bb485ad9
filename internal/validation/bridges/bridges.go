// Package bridges evaluates the structural bridges a preset requires.
package bridges

import (
	"github.com/harrison/mvp/internal/models"
)

// Evaluate returns one BridgeStatus per bridge, in order. A bridge is present
// only when the preset requires it and it is available in the proposed
// matrix: every space it names exists in the preset and every condition holds.
func Evaluate(preset models.Preset, proposed models.Matrix, defs []models.Bridge) []models.BridgeStatus {
	out := make([]models.BridgeStatus, 0, len(defs))
	for _, b := range defs {
		required := preset.BridgeRequirements[b.ID]
		out = append(out, models.BridgeStatus{
			BridgeID: b.ID,
			Name:     b.Name,
			Required: required,
			Present:  required && Available(b, preset, proposed),
		})
	}
	return out
}

// Available reports whether the bridge is realised by proposed.
func Available(b models.Bridge, preset models.Preset, proposed models.Matrix) bool {
	for _, code := range b.Spaces {
		if !preset.HasSpace(code) {
			return false
		}
	}
	for _, c := range b.Conditions {
		if !c.Satisfied(proposed) {
			return false
		}
	}
	return true
}
