package deviation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/mvp/internal/models"
)

func rel(from, to string, r models.Relationship) models.AdjacencyRelationship {
	return models.AdjacencyRelationship{From: from, To: to, Relationship: r}
}

func TestDetect_IdenticalMatrices(t *testing.T) {
	m := models.MustMatrix(
		rel("KIT", "DIN", models.Near),
		rel("DIN", "KIT", models.Near),
	)
	assert.Empty(t, Detect(m, m))
	assert.Empty(t, Detect(m, m.Clone()))
}

func TestDetect_OnlySharedKeys(t *testing.T) {
	bm := models.MustMatrix(
		rel("KIT", "DIN", models.Near),
		rel("KIT", "BUT", models.Adjacent),
		rel("PRI", "GR", models.Buffered),
	)
	proposed := models.MustMatrix(
		rel("KIT", "DIN", models.Near),
		rel("PRI", "GR", models.Adjacent),
		rel("GST", "OFF", models.Near),
	)

	got := Detect(bm, proposed)
	require.Len(t, got, 1)
	assert.Equal(t, models.Deviation{From: "PRI", To: "GR", Desired: models.Buffered, Proposed: models.Adjacent}, got[0])
}

func TestDetect_SortedByKey(t *testing.T) {
	bm := models.MustMatrix(
		rel("PRI", "GR", models.Buffered),
		rel("DIN", "KIT", models.Near),
		rel("KIT", "DIN", models.Near),
		rel("DIN", "FOY", models.Near),
	)
	proposed := models.MustMatrix(
		rel("PRI", "GR", models.Separate),
		rel("DIN", "KIT", models.Adjacent),
		rel("KIT", "DIN", models.Adjacent),
		rel("DIN", "FOY", models.Adjacent),
	)

	var keys []string
	for _, d := range Detect(bm, proposed) {
		keys = append(keys, d.Key().String())
	}
	assert.Equal(t, []string{"DIN->FOY", "DIN->KIT", "KIT->DIN", "PRI->GR"}, keys)
}

func TestAttributable(t *testing.T) {
	devs := []models.Deviation{
		{From: "DIN", To: "KIT"},
		{From: "GST", To: "PRI"},
		{From: "KIT", To: "DIN"},
	}

	assert.Equal(t, []models.Deviation{devs[0], devs[2]}, Attributable(devs, []string{"KIT", "PAN"}))
	assert.Equal(t, []models.Deviation{devs[1]}, Attributable(devs, []string{"PRI"}))
	assert.Empty(t, Attributable(devs, []string{"SPA"}))
	assert.Empty(t, Attributable(nil, []string{"KIT"}))
}
