package service

import (
	"context"
	"fmt"

	"github.com/storypath/storypath/internal/models"
)

// TrackingRepository defines the persistence operations needed by the TrackingService.
type TrackingRepository interface {
	ListScans(ctx context.Context, projectID int, participant string) ([]models.ScanRecord, error)
	CreateScan(ctx context.Context, rec models.ScanRecord) (models.ScanRecord, error)
	DeleteScans(ctx context.Context, projectID int, participant string) error
}

// TrackingService implements scan-record business logic. Inserts perform
// no dedup, matching the hosted backend; the client ledger enforces the
// one-record-per-location invariant.
type TrackingService struct {
	repo TrackingRepository
}

// NewTrackingService constructs a TrackingService with the provided repository.
func NewTrackingService(repo TrackingRepository) *TrackingService {
	return &TrackingService{repo: repo}
}

// ListScans returns the tracking rows for a project, optionally narrowed to
// one participant.
func (s *TrackingService) ListScans(ctx context.Context, projectID int, participant string) ([]models.ScanRecord, error) {
	return s.repo.ListScans(ctx, projectID, participant)
}

// CreateScan validates required fields and inserts the row as-is.
func (s *TrackingService) CreateScan(ctx context.Context, rec models.ScanRecord) (models.ScanRecord, error) {
	if rec.ProjectID == 0 || rec.LocationID == 0 || rec.ParticipantUsername == "" {
		return models.ScanRecord{}, fmt.Errorf(
			"%w: project_id, location_id and participant_username required", ErrInvalidRecord)
	}
	return s.repo.CreateScan(ctx, rec)
}

// DeleteScans removes tracking rows for a project, optionally narrowed to
// one participant.
func (s *TrackingService) DeleteScans(ctx context.Context, projectID int, participant string) error {
	return s.repo.DeleteScans(ctx, projectID, participant)
}
