package benchmark

import (
	"math"

	"github.com/harrison/mvp/internal/models"
)

// Upper bounds (exclusive) of the area brackets, in square feet.
const (
	Tier5KCeiling  = 7500.0
	Tier10KCeiling = 12500.0
	Tier15KCeiling = 17500.0
)

// ResolveTier maps a target floor area to a tier. Boundaries belong to the
// larger tier: 7,499 is 5k and 7,500 is 10k. Negative and non-finite areas
// are rejected with UnknownTierError.
func ResolveTier(area float64) (models.TierID, error) {
	if math.IsNaN(area) || math.IsInf(area, 0) || area < 0 {
		return "", &models.UnknownTierError{Area: area}
	}
	switch {
	case area < Tier5KCeiling:
		return models.Tier5K, nil
	case area < Tier10KCeiling:
		return models.Tier10K, nil
	case area < Tier15KCeiling:
		return models.Tier15K, nil
	default:
		return models.Tier20K, nil
	}
}
