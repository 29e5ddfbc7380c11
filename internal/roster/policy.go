// Package roster encodes the per-position quota policy every squad must end
// the draft with. Pure functions, no failure modes.
package roster

import (
	"github.com/mfmanca2000/easyasta/internal/models"
)

// Quotas is the fixed number of players per position a complete squad holds.
var Quotas = map[models.Position]int{
	models.PositionGoalkeeper: 3,
	models.PositionDefender:   8,
	models.PositionMidfielder: 8,
	models.PositionForward:    6,
}

// SquadSize is the total roster size across all positions.
const SquadSize = 25

// Composition counts how many players a team owns per position.
type Composition map[models.Position]int

// Needs returns the per-position deficit against the quotas. Never negative.
func Needs(c Composition) map[models.Position]int {
	needs := make(map[models.Position]int, len(Quotas))
	for pos, quota := range Quotas {
		n := quota - c[pos]
		if n < 0 {
			n = 0
		}
		needs[pos] = n
	}
	return needs
}

// TotalNeeded returns the number of unfilled slots across all positions.
func TotalNeeded(c Composition) int {
	total := 0
	for _, n := range Needs(c) {
		total += n
	}
	return total
}

// IsComplete reports whether the composition exactly matches the quotas,
// not merely meets or exceeds them.
func IsComplete(c Composition) bool {
	for pos, quota := range Quotas {
		if c[pos] != quota {
			return false
		}
	}
	for pos := range c {
		if _, ok := Quotas[pos]; !ok && c[pos] > 0 {
			return false
		}
	}
	return true
}
