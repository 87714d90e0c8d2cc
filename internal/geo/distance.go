// Package geo computes great-circle distances and nearest-target selection
// for proximity unlocking.
package geo

import (
	"math"

	"github.com/storypath/storypath/internal/models"
)

// UnlockRadiusMeters is the maximum distance at which a proximity unlock
// succeeds. A candidate at exactly this distance is within radius.
const UnlockRadiusMeters = 100.0

const earthRadiusMeters = 6371000.0

// Distance returns the haversine great-circle distance between two
// coordinates, in meters.
func Distance(a, b models.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Nearest describes the closest candidate to a user coordinate.
type Nearest struct {
	// Index is the position of the winning candidate in the input slice.
	Index int
	// Meters is the great-circle distance to that candidate.
	Meters float64
	// Within reports whether the candidate is inside the unlock radius.
	Within bool
}

// FindNearest evaluates every candidate against the user coordinate and
// returns the nearest one. Ties keep the earliest candidate in the slice.
// The second return value is false when candidates is empty.
func FindNearest(user models.Coordinate, candidates []models.Coordinate) (Nearest, bool) {
	if len(candidates) == 0 {
		return Nearest{}, false
	}
	best := Nearest{Index: 0, Meters: Distance(user, candidates[0])}
	for i := 1; i < len(candidates); i++ {
		if d := Distance(user, candidates[i]); d < best.Meters {
			best.Index = i
			best.Meters = d
		}
	}
	best.Within = best.Meters <= UnlockRadiusMeters
	return best, true
}
