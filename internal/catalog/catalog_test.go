package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/mvp/internal/benchmark"
	"github.com/harrison/mvp/internal/models"
)

func TestDefault_LoadsEmbeddedCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Decisions(), 11)
	assert.Len(t, c.Modules(), 8)
	assert.Len(t, c.Bridges(), 5)

	d, ok := c.Decision("butlers-pantry")
	require.True(t, ok)
	assert.Equal(t, models.Tier10K, d.MinTier)
	omit, ok := d.Option("omit")
	require.True(t, ok)
	require.Len(t, omit.Patches, 4, "both: true expands every patch into a mirrored pair")
	assert.Equal(t, models.PatchRemove, omit.Patches[0].Op)
	assert.Equal(t, models.Key{From: "BUT", To: "KIT"}, omit.Patches[1].Key())
}

func TestDefault_ConsistentWithPresets(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	lib, err := benchmark.Default()
	require.NoError(t, err)

	var presets []models.Preset
	for _, tier := range lib.Tiers() {
		p, err := lib.GetPreset(tier)
		require.NoError(t, err)
		presets = append(presets, p)
	}
	assert.NoError(t, c.Verify(presets))
}

func TestDecisionsForTier(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		tier  models.TierID
		count int
	}{
		{models.Tier5K, 5},
		{models.Tier10K, 8},
		{models.Tier15K, 9},
		{models.Tier20K, 11},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			decisions, err := c.DecisionsForTier(tt.tier)
			require.NoError(t, err)
			assert.Len(t, decisions, tt.count)
			for _, d := range decisions {
				_, ok := d.DefaultOption()
				assert.True(t, ok, "decision %s has no default option", d.ID)
			}
		})
	}

	_, err = c.DecisionsForTier("50k")
	var tierErr *models.UnknownTierError
	assert.True(t, errors.As(err, &tierErr))
}

func TestAccessorsReturnCopies(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	d, _ := c.Decision("garage-entry")
	d.Options[1].Patches[0].Relationship = models.Separate
	again, _ := c.Decision("garage-entry")
	assert.Equal(t, models.Adjacent, again.Options[1].Patches[0].Relationship)

	mods := c.Modules()
	mods[0].Spaces[0] = "XXX"
	assert.Equal(t, "KIT", c.Modules()[0].Spaces[0])
}

func TestModuleThresholdDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	thresholds := make(map[string]int)
	for _, m := range c.Modules() {
		thresholds[m.ID] = m.Threshold
	}
	assert.Equal(t, models.DefaultModuleThreshold, thresholds["kitchen"])
	assert.Equal(t, 75, thresholds["work"])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "two defaults",
			doc: `
decisions:
  - id: d
    options:
      - {id: a, default: true}
      - {id: b, default: true}
`,
			wantErr: "at most one is allowed",
		},
		{
			name: "no options",
			doc: `
decisions:
  - id: d
`,
			wantErr: "at least one option",
		},
		{
			name: "bad relationship",
			doc: `
decisions:
  - id: d
    options:
      - id: a
        patches:
          - {op: set, from: KIT, to: DIN, relationship: touching}
`,
			wantErr: "touching",
		},
		{
			name: "unknown op",
			doc: `
decisions:
  - id: d
    options:
      - id: a
        patches:
          - {op: swap, from: KIT, to: DIN}
`,
			wantErr: `unknown op "swap"`,
		},
		{
			name: "duplicate decision",
			doc: `
decisions:
  - {id: d, options: [{id: a}]}
  - {id: d, options: [{id: a}]}
`,
			wantErr: "defined more than once",
		},
		{
			name: "unknown min tier",
			doc: `
decisions:
  - {id: d, min_tier: 7k, options: [{id: a}]}
`,
			wantErr: "unknown tier",
		},
		{
			name: "threshold out of range",
			doc: `
modules:
  - {id: m, spaces: [KIT], threshold: 120}
`,
			wantErr: "threshold must be within",
		},
		{
			name: "empty condition",
			doc: `
bridges:
  - id: b
    conditions:
      - {from: KIT, to: DIN}
`,
			wantErr: "lists no acceptable relationships",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVerify_ReportsProblems(t *testing.T) {
	c, err := Load([]byte(`
decisions:
  - id: d
    options:
      - id: a
        default: true
        patches:
          - {op: set, from: KIT, to: DIN, relationship: separate}
      - id: b
        patches:
          - {op: set, from: KIT, to: SPA, relationship: near}
`))
	require.NoError(t, err)

	preset := models.Preset{
		ID: models.Tier5K,
		Spaces: []models.Space{
			{Code: "KIT"}, {Code: "DIN"},
		},
		Matrix: models.MustMatrix(models.AdjacencyRelationship{From: "KIT", To: "DIN", Relationship: models.Adjacent}),
		BridgeRequirements: map[string]bool{"ghost": true},
	}
	err = c.Verify([]models.Preset{preset})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `bridge "ghost"`)
	assert.Contains(t, err.Error(), "KIT->SPA outside the space programme")
	assert.Contains(t, err.Error(), "default option a")
}
