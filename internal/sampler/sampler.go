// Package sampler obtains device coordinates, either as a single fix or as
// an interval-driven stream scoped to the consuming view's lifetime.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/storypath/storypath/internal/models"
)

// ErrPermissionDenied is returned when location access has been refused.
// Proximity features are disabled in that case; the QR path stays available.
var ErrPermissionDenied = errors.New("sampler: location permission denied")

// Sampler produces device coordinates. Implementations are provided by the
// host platform; this package ships fixed and replayed samplers for
// development and tests.
type Sampler interface {
	// RequestPermission asks for location access. Returns
	// ErrPermissionDenied if the user refuses.
	RequestPermission(ctx context.Context) error
	// Current returns a single best-effort fix.
	Current(ctx context.Context) (models.Coordinate, error)
}

// Static is a sampler pinned to one coordinate.
type Static struct {
	Coord models.Coordinate
}

func (s Static) RequestPermission(context.Context) error { return nil }

func (s Static) Current(context.Context) (models.Coordinate, error) {
	return s.Coord, nil
}

// Denied is a sampler whose permission request has been refused.
type Denied struct{}

func (Denied) RequestPermission(context.Context) error { return ErrPermissionDenied }

func (Denied) Current(context.Context) (models.Coordinate, error) {
	return models.Coordinate{}, ErrPermissionDenied
}

// Route replays a fixed sequence of coordinates, advancing one point per
// fix and holding the last point once exhausted. Safe for concurrent use.
type Route struct {
	mu     sync.Mutex
	points []models.Coordinate
	next   int
}

// NewRoute constructs a route sampler over the given points. The points
// slice must not be empty.
func NewRoute(points []models.Coordinate) *Route {
	return &Route{points: points}
}

func (r *Route) RequestPermission(context.Context) error { return nil }

func (r *Route) Current(context.Context) (models.Coordinate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.points) == 0 {
		return models.Coordinate{}, errors.New("sampler: empty route")
	}
	c := r.points[r.next]
	if r.next < len(r.points)-1 {
		r.next++
	}
	return c, nil
}

// ParseRoute parses a route flag of the form "lat,lon;lat,lon;...".
func ParseRoute(s string) ([]models.Coordinate, error) {
	var points []models.Coordinate
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("parse route point %q: want lat,lon", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse route point %q: latitude: %w", pair, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse route point %q: longitude: %w", pair, err)
		}
		points = append(points, models.Coordinate{Lat: lat, Lon: lon})
	}
	if len(points) == 0 {
		return nil, errors.New("parse route: no points")
	}
	return points, nil
}
