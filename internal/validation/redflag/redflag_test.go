package redflag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/mvp/internal/benchmark"
	"github.com/harrison/mvp/internal/models"
)

func spaces(codes ...string) []models.Space {
	out := make([]models.Space, len(codes))
	for i, c := range codes {
		out[i] = models.Space{Code: c}
	}
	return out
}

func matrix(entries ...models.AdjacencyRelationship) models.Matrix {
	return models.MustMatrix(entries...)
}

func rel(from, to string, r models.Relationship) models.AdjacencyRelationship {
	return models.AdjacencyRelationship{From: from, To: to, Relationship: r}
}

func triggered(statuses []models.RedFlagStatus) []string {
	var ids []string
	for _, s := range statuses {
		if s.Triggered {
			ids = append(ids, s.RuleID)
		}
	}
	return ids
}

func TestEvaluate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		m      models.Matrix
		spaces []models.Space
		want   []string
	}{
		{
			name:   "primary suite opening onto great room",
			m:      matrix(rel("PRI", "GR", models.Adjacent)),
			spaces: spaces("PRI", "GR"),
			want:   []string{PrimarySuiteExposed},
		},
		{
			name:   "reverse direction also counts",
			m:      matrix(rel("DIN", "PRI", models.Adjacent)),
			spaces: spaces("PRI", "DIN"),
			want:   []string{PrimarySuiteExposed},
		},
		{
			name:   "primary suite near great room is fine",
			m:      matrix(rel("PRI", "GR", models.Near)),
			spaces: spaces("PRI", "GR"),
		},
		{
			name:   "garage into foyer",
			m:      matrix(rel("GAR", "FOY", models.Adjacent)),
			spaces: spaces("GAR", "FOY"),
			want:   []string{GarageIntoFormalEntry},
		},
		{
			name:   "kitchen separated from family room",
			m:      matrix(rel("KIT", "FAM", models.Separate), rel("KIT", "GR", models.Adjacent)),
			spaces: spaces("KIT", "FAM", "GR"),
			want:   []string{KitchenCutOffFromFamily},
		},
		{
			name:   "great room stands in when there is no family room",
			m:      matrix(rel("KIT", "GR", models.Separate)),
			spaces: spaces("KIT", "GR"),
			want:   []string{KitchenCutOffFromFamily},
		},
		{
			name:   "great room ignored when family room exists",
			m:      matrix(rel("KIT", "GR", models.Separate), rel("KIT", "FAM", models.Near)),
			spaces: spaces("KIT", "GR", "FAM"),
		},
		{
			name:   "guest against primary",
			m:      matrix(rel("GST", "PRI", models.Adjacent)),
			spaces: spaces("GST", "PRI"),
			want:   []string{GuestSharesPrimaryWall},
		},
		{
			name:   "absent spaces never trigger",
			m:      matrix(rel("PRI", "SAL", models.Adjacent), rel("GAR", "FOY", models.Adjacent)),
			spaces: spaces("PRI", "GAR"),
		},
		{
			name: "several at once",
			m: matrix(
				rel("PRI", "FOY", models.Adjacent),
				rel("GAR", "FOY", models.Adjacent),
				rel("GST", "PRI", models.Adjacent),
			),
			spaces: spaces("PRI", "FOY", "GAR", "GST"),
			want:   []string{PrimarySuiteExposed, GarageIntoFormalEntry, GuestSharesPrimaryWall},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(Builtin(), tt.m, tt.spaces)
			require.Len(t, got, len(Builtin()))
			assert.Equal(t, tt.want, triggered(got))
		})
	}
}

func TestBenchmarksTriggerNoRedFlags(t *testing.T) {
	lib, err := benchmark.Default()
	require.NoError(t, err)

	for _, tier := range lib.Tiers() {
		preset, err := lib.GetPreset(tier)
		require.NoError(t, err)
		assert.Empty(t, triggered(Evaluate(Builtin(), preset.Matrix, preset.Spaces)), "tier %s", tier)
	}
}
