// Package trigger contains the two unlock stimuli: the periodic proximity
// check and the one-shot QR decode. Both funnel through the ledger's
// AttemptUnlock so dedup semantics do not depend on the trigger source.
package trigger

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/storypath/storypath/internal/geo"
	"github.com/storypath/storypath/internal/ledger"
	"github.com/storypath/storypath/internal/models"
	"github.com/storypath/storypath/internal/sampler"
)

// DefaultProximityInterval is the cadence of the proximity check while the
// map view is focused.
const DefaultProximityInterval = 5 * time.Second

// Proximity periodically samples the device location, finds the nearest of
// the project's locations, and attempts an unlock when it is within the
// unlock radius. Only the single nearest candidate is attempted per fix,
// and only one attempt is ever in flight at a time.
type Proximity struct {
	ledger   *ledger.Ledger
	sampler  sampler.Sampler
	interval time.Duration
	log      *zap.Logger

	// OnNearest, if set, is called for every evaluated fix with the nearest
	// location and its distance, whether or not it is within radius.
	OnNearest func(loc models.Location, meters float64, within bool)
	// OnUnlock, if set, is called with the outcome of each unlock attempt.
	OnUnlock func(loc models.Location, outcome ledger.Outcome, err error)

	busy atomic.Bool
}

// NewProximity constructs a proximity trigger over the given ledger and
// sampler. interval <= 0 selects DefaultProximityInterval.
func NewProximity(l *ledger.Ledger, s sampler.Sampler, interval time.Duration, log *zap.Logger) *Proximity {
	if interval <= 0 {
		interval = DefaultProximityInterval
	}
	return &Proximity{ledger: l, sampler: s, interval: interval, log: log}
}

// Run requests location permission and then evaluates fixes until ctx is
// cancelled. It returns sampler.ErrPermissionDenied immediately if access
// is refused. The watch subscription is torn down before Run returns, so
// no evaluation outlives the caller's view.
func (p *Proximity) Run(ctx context.Context) error {
	if err := p.sampler.RequestPermission(ctx); err != nil {
		return err
	}

	sub := sampler.Watch(ctx, p.sampler, p.interval, p.log, func(fix models.Coordinate) {
		p.evaluate(ctx, fix)
	})
	<-ctx.Done()
	sub.Stop()
	return nil
}

// evaluate runs one proximity check. Overlapping checks are skipped rather
// than queued: if a previous attempt is still talking to the backend, this
// fix is dropped and the next tick tries again.
func (p *Proximity) evaluate(ctx context.Context, fix models.Coordinate) {
	if !p.busy.CompareAndSwap(false, true) {
		return
	}
	defer p.busy.Store(false)

	locations := p.ledger.Locations()
	coords := make([]models.Coordinate, 0, len(locations))
	valid := make([]models.Location, 0, len(locations))
	for _, loc := range locations {
		c, err := loc.Coordinate()
		if err != nil {
			p.log.Warn("skipping location with bad position",
				zap.Int("location_id", loc.ID), zap.Error(err))
			continue
		}
		coords = append(coords, c)
		valid = append(valid, loc)
	}

	nearest, ok := geo.FindNearest(fix, coords)
	if !ok {
		return
	}
	loc := valid[nearest.Index]
	if p.OnNearest != nil {
		p.OnNearest(loc, nearest.Meters, nearest.Within)
	}
	if !nearest.Within {
		return
	}

	outcome, err := p.ledger.AttemptUnlock(ctx, loc.ID)
	if err != nil {
		p.log.Warn("proximity unlock failed",
			zap.Int("location_id", loc.ID), zap.Error(err))
	}
	if p.OnUnlock != nil {
		p.OnUnlock(loc, outcome, err)
	}
}
