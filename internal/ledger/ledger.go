// Package ledger is the in-memory authority for which locations a
// participant has unlocked in a project. Every unlock attempt, from any
// trigger, funnels through AttemptUnlock so dedup and persistence semantics
// are uniform; every consumer of "already scanned" state reads through the
// same instance instead of keeping its own cache.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/storypath/storypath/internal/models"
	"github.com/storypath/storypath/internal/session"
)

// Source defines the remote operations the ledger needs. The gateway
// client satisfies it.
type Source interface {
	// ListLocations retrieves all locations of a project.
	ListLocations(ctx context.Context, projectID int) ([]models.Location, error)
	// ListScans retrieves the tracking rows for one participant in one
	// project. Implementations must filter by both.
	ListScans(ctx context.Context, projectID int, participant string) ([]models.ScanRecord, error)
	// CreateScan inserts a tracking row without any server-side dedup.
	CreateScan(ctx context.Context, rec models.ScanRecord) (models.ScanRecord, error)
	// DeleteScans removes a participant's tracking rows for a project.
	DeleteScans(ctx context.Context, projectID int, participant string) error
}

// Outcome classifies the result of an unlock attempt.
type Outcome int

const (
	// Failed means the attempt did not complete; no record was written and
	// the location stays locked. The accompanying error says why.
	Failed Outcome = iota
	// Won means a new scan record was persisted for the location.
	Won
	// AlreadyUnlocked means a record for the location already existed; no
	// write was issued.
	AlreadyUnlocked
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case AlreadyUnlocked:
		return "already unlocked"
	default:
		return "failed"
	}
}

// ErrAttemptInFlight is returned when an unlock attempt for the same
// location is already running in this process. The caller should treat the
// location as already being unlocked; the next read-before-write
// self-corrects either way.
var ErrAttemptInFlight = errors.New("ledger: unlock attempt already in flight")

// ErrStaleRefresh is returned when a refresh response was superseded by a
// later-issued refresh before it could be applied. Cached state is left as
// the newer refresh wrote it. Not a failure worth surfacing to users.
var ErrStaleRefresh = errors.New("ledger: stale refresh superseded")

// Ledger tracks one participant's unlocks within one project. Construct a
// new Ledger when the participant enters a different project.
type Ledger struct {
	src       Source
	sess      *session.Session
	projectID int
	log       *zap.Logger

	refreshSeq atomic.Uint64

	mu         sync.Mutex
	locations  []models.Location
	scanned    map[int]struct{}
	inflight   map[int]struct{}
	appliedSeq uint64
}

// New constructs a ledger for the given project and participant session.
// Call Refresh before relying on Locations.
func New(src Source, sess *session.Session, projectID int, log *zap.Logger) *Ledger {
	return &Ledger{
		src:       src,
		sess:      sess,
		projectID: projectID,
		log:       log,
		scanned:   make(map[int]struct{}),
		inflight:  make(map[int]struct{}),
	}
}

// ProjectID returns the project this ledger is bound to.
func (l *Ledger) ProjectID() int { return l.projectID }

// Refresh re-pulls the location list and scan list, replacing cached state
// wholesale. Responses are applied in issue order: a slow response that
// arrives after a later-issued refresh is discarded with ErrStaleRefresh.
// On a fetch error the prior cached state is left untouched.
func (l *Ledger) Refresh(ctx context.Context) error {
	seq := l.refreshSeq.Add(1)
	participant := l.sess.Username()

	locations, err := l.src.ListLocations(ctx, l.projectID)
	if err != nil {
		return fmt.Errorf("refresh locations: %w", err)
	}
	scans, err := l.src.ListScans(ctx, l.projectID, participant)
	if err != nil {
		return fmt.Errorf("refresh scans: %w", err)
	}

	scanned := make(map[int]struct{}, len(scans))
	for _, rec := range scans {
		scanned[rec.LocationID] = struct{}{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq <= l.appliedSeq {
		return ErrStaleRefresh
	}
	l.appliedSeq = seq
	l.locations = locations
	l.scanned = scanned
	l.log.Debug("ledger refreshed",
		zap.Int("project_id", l.projectID),
		zap.Int("locations", len(locations)),
		zap.Int("scanned", len(scanned)),
	)
	return nil
}

// AttemptUnlock claims a location for the session's participant. It
// re-reads the authoritative scan list before every write, so concurrent
// triggers and stale caches cannot produce duplicate records:
//
//  1. A concurrent attempt for the same location in this process fails
//     fast with ErrAttemptInFlight.
//  2. The fresh read already containing the location yields
//     AlreadyUnlocked without a write.
//  3. Otherwise exactly one CreateScan is issued; on transport failure the
//     location reverts to locked and the error is returned.
func (l *Ledger) AttemptUnlock(ctx context.Context, locationID int) (Outcome, error) {
	participant := l.sess.Username()

	l.mu.Lock()
	if _, busy := l.inflight[locationID]; busy {
		l.mu.Unlock()
		return Failed, ErrAttemptInFlight
	}
	l.inflight[locationID] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.inflight, locationID)
		l.mu.Unlock()
	}()

	fresh, err := l.src.ListScans(ctx, l.projectID, participant)
	if err != nil {
		return Failed, fmt.Errorf("unlock read: %w", err)
	}

	already := false
	l.mu.Lock()
	for _, rec := range fresh {
		// Union, not replace: unlocked is terminal for the session, and a
		// write that landed after this read must not be dropped.
		l.scanned[rec.LocationID] = struct{}{}
		if rec.LocationID == locationID {
			already = true
		}
	}
	l.mu.Unlock()
	if already {
		l.log.Info("location already unlocked",
			zap.Int("project_id", l.projectID),
			zap.Int("location_id", locationID),
		)
		return AlreadyUnlocked, nil
	}

	rec := models.ScanRecord{
		ProjectID:           l.projectID,
		LocationID:          locationID,
		ParticipantUsername: participant,
	}
	if _, err := l.src.CreateScan(ctx, rec); err != nil {
		return Failed, fmt.Errorf("unlock write: %w", err)
	}

	l.mu.Lock()
	l.scanned[locationID] = struct{}{}
	l.mu.Unlock()
	l.log.Info("location unlocked",
		zap.Int("project_id", l.projectID),
		zap.Int("location_id", locationID),
		zap.String("participant", participant),
	)
	return Won, nil
}

// Reset deletes the participant's scan records for this project and clears
// the cached scanned set. Cached state is untouched on failure.
func (l *Ledger) Reset(ctx context.Context) error {
	if err := l.src.DeleteScans(ctx, l.projectID, l.sess.Username()); err != nil {
		return fmt.Errorf("reset scans: %w", err)
	}
	l.mu.Lock()
	l.scanned = make(map[int]struct{})
	l.mu.Unlock()
	return nil
}

// Locations returns a copy of the cached location list.
func (l *Ledger) Locations() []models.Location {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Location, len(l.locations))
	copy(out, l.locations)
	return out
}

// KnownLocation reports whether the id belongs to this project's cached
// location list, returning the location when it does.
func (l *Ledger) KnownLocation(locationID int) (models.Location, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, loc := range l.locations {
		if loc.ID == locationID {
			return loc, true
		}
	}
	return models.Location{}, false
}

// IsScanned reports whether the participant has unlocked the location.
func (l *Ledger) IsScanned(locationID int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.scanned[locationID]
	return ok
}

// Score returns the points earned so far and the total points available.
func (l *Ledger) Score() (earned, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, loc := range l.locations {
		total += loc.ScorePoints
		if _, ok := l.scanned[loc.ID]; ok {
			earned += loc.ScorePoints
		}
	}
	return earned, total
}

// Progress returns how many of the project's locations have been unlocked.
func (l *Ledger) Progress() (visited, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	total = len(l.locations)
	for _, loc := range l.locations {
		if _, ok := l.scanned[loc.ID]; ok {
			visited++
		}
	}
	return visited, total
}
