// Package scoring computes per-module scores from deviation penalties and
// checklist completion. Scores are a pure function of their inputs.
package scoring

import (
	"fmt"
	"math"

	"github.com/harrison/mvp/internal/deviation"
	"github.com/harrison/mvp/internal/models"
)

// MaxScore is the ceiling of every module score.
const MaxScore = 100

// Params holds the scoring constants.
type Params struct {
	Base                int `yaml:"base" json:"base"`
	PerDeviationPenalty int `yaml:"per_deviation_penalty" json:"per_deviation_penalty"`
	MaxPenalty          int `yaml:"max_penalty" json:"max_penalty"`
	Floor               int `yaml:"floor" json:"floor"`
	ChecklistBonus      int `yaml:"checklist_bonus" json:"checklist_bonus"`
}

// DefaultParams returns the nominal constants: base 90, 5 points per
// deviation capped at 30, floor 60 and up to 10 points of checklist bonus.
func DefaultParams() Params {
	return Params{
		Base:                90,
		PerDeviationPenalty: 5,
		MaxPenalty:          30,
		Floor:               60,
		ChecklistBonus:      10,
	}
}

// Validate checks that the constants describe a usable scale.
func (p Params) Validate() error {
	if p.Base < 0 || p.Base > MaxScore {
		return fmt.Errorf("base must be within [0, %d], got %d", MaxScore, p.Base)
	}
	if p.PerDeviationPenalty < 0 {
		return fmt.Errorf("per_deviation_penalty must be >= 0, got %d", p.PerDeviationPenalty)
	}
	if p.MaxPenalty < 0 {
		return fmt.Errorf("max_penalty must be >= 0, got %d", p.MaxPenalty)
	}
	if p.Floor < 0 || p.Floor > MaxScore {
		return fmt.Errorf("floor must be within [0, %d], got %d", MaxScore, p.Floor)
	}
	if p.ChecklistBonus < 0 {
		return fmt.Errorf("checklist_bonus must be >= 0, got %d", p.ChecklistBonus)
	}
	return nil
}

// ScoreModule scores one module. devs must already be attributed to the
// module. completed is the number of checklist items done, or nil when
// checklist progress was not reported.
func ScoreModule(m models.Module, devs []models.Deviation, completed *int, p Params) models.ModuleScore {
	penalty := len(devs) * p.PerDeviationPenalty
	if penalty > p.MaxPenalty {
		penalty = p.MaxPenalty
	}

	ms := models.ModuleScore{
		ModuleID:       m.ID,
		Name:           m.Name,
		Threshold:      m.Threshold,
		DeviationCount: len(devs),
		Penalty:        penalty,
		ChecklistItems: m.ChecklistItems,
	}

	if completed != nil && m.ChecklistItems > 0 {
		done := clamp(*completed, 0, m.ChecklistItems)
		ms.ChecklistCompleted = done
		ms.ChecklistBonus = int(math.Round(float64(p.ChecklistBonus) * float64(done) / float64(m.ChecklistItems)))
	}

	ms.Score = clamp(p.Base-penalty+ms.ChecklistBonus, p.Floor, MaxScore)
	ms.Passed = ms.Score >= ms.Threshold
	return ms
}

// ScoreModules scores every module in order. checklist maps module id to
// completed item count; modules absent from it receive no bonus.
func ScoreModules(modules []models.Module, devs []models.Deviation, checklist map[string]int, p Params) []models.ModuleScore {
	out := make([]models.ModuleScore, 0, len(modules))
	for _, m := range modules {
		var completed *int
		if n, ok := checklist[m.ID]; ok {
			completed = &n
		}
		out = append(out, ScoreModule(m, deviation.Attributable(devs, m.Spaces), completed, p))
	}
	return out
}

// Overall returns round(mean(scores)), or 0 for no scores.
func Overall(scores []models.ModuleScore) int {
	if len(scores) == 0 {
		return 0
	}
	total := 0
	for _, s := range scores {
		total += s.Score
	}
	return int(math.Round(float64(total) / float64(len(scores))))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
