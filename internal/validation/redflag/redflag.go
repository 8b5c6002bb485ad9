// Package redflag holds the hard-fail rules a proposed design must never
// trigger. Rules are pure predicates over the proposed matrix and the
// preset's spaces; a rule that names a space the preset lacks does not fire.
package redflag

import (
	"github.com/harrison/mvp/internal/models"
)

// Rule ids of the built-in rules.
const (
	PrimarySuiteExposed     = "primary-suite-exposed"
	GarageIntoFormalEntry   = "garage-into-formal-entry"
	KitchenCutOffFromFamily = "kitchen-cut-off-from-family"
	GuestSharesPrimaryWall  = "guest-shares-primary-wall"
)

// publicRooms are the spaces the primary suite must never open onto.
var publicRooms = []string{"FOY", "GR", "MED", "SAL", "DIN"}

// Builtin returns the built-in rules in evaluation order.
func Builtin() []models.RedFlagRule {
	return []models.RedFlagRule{
		{
			ID:          PrimarySuiteExposed,
			Name:        "Primary suite exposed to public rooms",
			Description: "The primary suite opens directly onto the foyer, great room, media room, salon or dining room.",
			Predicate:   primarySuiteExposed,
		},
		{
			ID:          GarageIntoFormalEntry,
			Name:        "Garage opens into the formal entry",
			Description: "Arrivals from the garage land in the front foyer.",
			Predicate:   garageIntoFormalEntry,
		},
		{
			ID:          KitchenCutOffFromFamily,
			Name:        "Kitchen cut off from family living",
			Description: "The kitchen is separated from the family room, or from the great room when there is no family room.",
			Predicate:   kitchenCutOffFromFamily,
		},
		{
			ID:          GuestSharesPrimaryWall,
			Name:        "Guest suite shares a wall with the primary suite",
			Description: "Guest accommodation sits directly against the primary suite.",
			Predicate:   guestSharesPrimaryWall,
		},
	}
}

// Evaluate runs every rule and returns one status per rule, in order.
func Evaluate(rules []models.RedFlagRule, proposed models.Matrix, spaces []models.Space) []models.RedFlagStatus {
	out := make([]models.RedFlagStatus, 0, len(rules))
	for _, r := range rules {
		out = append(out, models.RedFlagStatus{
			RuleID:    r.ID,
			Name:      r.Name,
			Triggered: r.Predicate(proposed, spaces),
		})
	}
	return out
}

func primarySuiteExposed(m models.Matrix, spaces []models.Space) bool {
	if !has(spaces, "PRI") {
		return false
	}
	for _, room := range publicRooms {
		if has(spaces, room) && either(m, "PRI", room, models.Adjacent) {
			return true
		}
	}
	return false
}

func garageIntoFormalEntry(m models.Matrix, spaces []models.Space) bool {
	return has(spaces, "GAR", "FOY") && either(m, "GAR", "FOY", models.Adjacent)
}

func kitchenCutOffFromFamily(m models.Matrix, spaces []models.Space) bool {
	if !has(spaces, "KIT") {
		return false
	}
	living := "FAM"
	if !has(spaces, living) {
		living = "GR"
		if !has(spaces, living) {
			return false
		}
	}
	r, ok := m.Lookup("KIT", living)
	return ok && r == models.Separate
}

func guestSharesPrimaryWall(m models.Matrix, spaces []models.Space) bool {
	return has(spaces, "GST", "PRI") && either(m, "GST", "PRI", models.Adjacent)
}

// either reports whether a->b or b->a holds rel.
func either(m models.Matrix, a, b string, rel models.Relationship) bool {
	if r, ok := m.Lookup(a, b); ok && r == rel {
		return true
	}
	r, ok := m.Lookup(b, a)
	return ok && r == rel
}

func has(spaces []models.Space, codes ...string) bool {
	for _, code := range codes {
		found := false
		for _, s := range spaces {
			if s.Code == code {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
