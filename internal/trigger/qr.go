package trigger

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/storypath/storypath/internal/ledger"
	"github.com/storypath/storypath/internal/models"
)

// ErrInvalidScan is returned when a QR payload does not resolve to a known
// location of the current project. The ledger is not contacted in that
// case; the user must rescan.
var ErrInvalidScan = errors.New("trigger: scanned code does not match a known location")

// QR handles decoded QR payloads. A QR scan asserts a specific location,
// so no distance check applies.
type QR struct {
	ledger *ledger.Ledger
	log    *zap.Logger
}

// NewQR constructs a QR trigger over the given ledger.
func NewQR(l *ledger.Ledger, log *zap.Logger) *QR {
	return &QR{ledger: l, log: log}
}

// Scan processes one decoded payload of the form "<projectID>-<locationID>".
// Payloads that fail to parse, name a different project, or name a location
// absent from the project's known set yield ErrInvalidScan. Otherwise the
// unlock is attempted through the ledger; a concurrent in-flight attempt
// for the same location is reported as AlreadyUnlocked.
func (q *QR) Scan(ctx context.Context, payload string) (models.Location, ledger.Outcome, error) {
	projectID, locationID, err := models.ParseScanCode(payload)
	if err != nil {
		return models.Location{}, ledger.Failed, fmt.Errorf("%w: %v", ErrInvalidScan, err)
	}
	if projectID != q.ledger.ProjectID() {
		return models.Location{}, ledger.Failed,
			fmt.Errorf("%w: code is for project %d", ErrInvalidScan, projectID)
	}
	loc, ok := q.ledger.KnownLocation(locationID)
	if !ok {
		return models.Location{}, ledger.Failed,
			fmt.Errorf("%w: location %d", ErrInvalidScan, locationID)
	}

	outcome, err := q.ledger.AttemptUnlock(ctx, locationID)
	if errors.Is(err, ledger.ErrAttemptInFlight) {
		return loc, ledger.AlreadyUnlocked, nil
	}
	if err != nil {
		return loc, ledger.Failed, err
	}
	q.log.Info("qr scan processed",
		zap.String("payload", payload),
		zap.String("outcome", outcome.String()),
	)
	return loc, outcome, nil
}
