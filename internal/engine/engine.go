// Package engine composes the benchmark, transformer, deviation detector,
// scorer, validators and gate into a single validation run.
//
// An Engine holds only immutable reference data and configuration, so one
// Engine may serve concurrent runs.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/mvp/internal/benchmark"
	"github.com/harrison/mvp/internal/catalog"
	"github.com/harrison/mvp/internal/deviation"
	"github.com/harrison/mvp/internal/models"
	"github.com/harrison/mvp/internal/scoring"
	"github.com/harrison/mvp/internal/transform"
	"github.com/harrison/mvp/internal/validation/bridges"
	"github.com/harrison/mvp/internal/validation/gate"
	"github.com/harrison/mvp/internal/validation/redflag"
)

// Options configures an Engine. Zero fields take defaults.
type Options struct {
	Scoring          scoring.Params
	WarningThreshold int
	RedFlags         []models.RedFlagRule

	// Clock and NewID are overridable for reproducible output.
	Clock func() time.Time
	NewID func() string
}

// Engine runs validations against a benchmark library and decision catalog.
type Engine struct {
	library *benchmark.Library
	catalog *catalog.Catalog
	opts    Options
}

// New creates an Engine. A zero Scoring value selects scoring.DefaultParams.
func New(lib *benchmark.Library, cat *catalog.Catalog, opts Options) (*Engine, error) {
	if lib == nil || cat == nil {
		return nil, fmt.Errorf("engine requires a benchmark library and a catalog")
	}
	if opts.Scoring == (scoring.Params{}) {
		opts.Scoring = scoring.DefaultParams()
	}
	if err := opts.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring parameters: %w", err)
	}
	if opts.WarningThreshold == 0 {
		opts.WarningThreshold = gate.DefaultWarningThreshold
	}
	if opts.RedFlags == nil {
		opts.RedFlags = redflag.Builtin()
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	return &Engine{library: lib, catalog: cat, opts: opts}, nil
}

// NewDefault creates an Engine over the embedded presets and catalog.
func NewDefault(opts Options) (*Engine, error) {
	lib, err := benchmark.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark presets: %w", err)
	}
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load decision catalog: %w", err)
	}
	return New(lib, cat, opts)
}

// Library returns the engine's benchmark library.
func (e *Engine) Library() *benchmark.Library { return e.library }

// Catalog returns the engine's decision catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// WarningThreshold returns the overall score below which runs warn.
func (e *Engine) WarningThreshold() int { return e.opts.WarningThreshold }

type runConfig struct {
	project   string
	checklist map[string]int
}

// RunOption customises a single run.
type RunOption func(*runConfig)

// WithProject labels the result with a project name.
func WithProject(name string) RunOption {
	return func(c *runConfig) { c.project = name }
}

// WithChecklist supplies completed checklist item counts keyed by module id.
func WithChecklist(completed map[string]int) RunOption {
	return func(c *runConfig) {
		c.checklist = make(map[string]int, len(completed))
		for k, v := range completed {
			c.checklist[k] = v
		}
	}
}

// Propose returns the proposed matrix for preset and choices.
func (e *Engine) Propose(preset models.Preset, choices []models.Choice) (models.Matrix, error) {
	decisions, err := e.catalog.DecisionsForTier(preset.ID)
	if err != nil {
		return models.Matrix{}, err
	}
	return transform.ApplyDecisionsToMatrix(preset.Matrix, decisions, choices)
}

// Run validates choices against preset. Choice errors abort the run before
// anything is scored.
func (e *Engine) Run(preset models.Preset, choices []models.Choice, opts ...RunOption) (*models.ValidationResult, error) {
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	proposed, err := e.Propose(preset, choices)
	if err != nil {
		return nil, err
	}

	devs := deviation.Detect(preset.Matrix, proposed)
	scores := scoring.ScoreModules(e.catalog.Modules(), devs, cfg.checklist, e.opts.Scoring)
	overall := scoring.Overall(scores)
	bridgeStatuses := bridges.Evaluate(preset, proposed, e.catalog.Bridges())
	flagStatuses := redflag.Evaluate(e.opts.RedFlags, proposed, preset.Spaces)

	return &models.ValidationResult{
		ID:              e.opts.NewID(),
		Project:         cfg.project,
		Tier:            preset.ID,
		ComputedAt:      e.opts.Clock(),
		OverallScore:    overall,
		GateStatus:      gate.Resolve(overall, bridgeStatuses, flagStatuses, e.opts.WarningThreshold),
		ModuleScores:    scores,
		BridgeStatuses:  bridgeStatuses,
		RedFlagStatuses: flagStatuses,
		Choices:         append([]models.Choice(nil), choices...),
		Deviations:      devs,
	}, nil
}

// RunTier loads the preset for tier and runs it.
func (e *Engine) RunTier(tier models.TierID, choices []models.Choice, opts ...RunOption) (*models.ValidationResult, error) {
	preset, err := e.library.GetPreset(tier)
	if err != nil {
		return nil, err
	}
	return e.Run(preset, choices, opts...)
}
