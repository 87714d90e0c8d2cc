package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/storypath/storypath/internal/models"
	"github.com/storypath/storypath/internal/service"
)

type fakeTrackingRepo struct {
	createFn func(ctx context.Context, rec models.ScanRecord) (models.ScanRecord, error)
}

func (f *fakeTrackingRepo) ListScans(ctx context.Context, projectID int, participant string) ([]models.ScanRecord, error) {
	return nil, nil
}
func (f *fakeTrackingRepo) CreateScan(ctx context.Context, rec models.ScanRecord) (models.ScanRecord, error) {
	return f.createFn(ctx, rec)
}
func (f *fakeTrackingRepo) DeleteScans(ctx context.Context, projectID int, participant string) error {
	return nil
}

func TestCreateScan_RequiredFields(t *testing.T) {
	svc := service.NewTrackingService(&fakeTrackingRepo{})

	tests := []struct {
		name string
		rec  models.ScanRecord
	}{
		{"missing project", models.ScanRecord{LocationID: 3, ParticipantUsername: "alice"}},
		{"missing location", models.ScanRecord{ProjectID: 7, ParticipantUsername: "alice"}},
		{"missing participant", models.ScanRecord{ProjectID: 7, LocationID: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateScan(context.Background(), tt.rec)
			if !errors.Is(err, service.ErrInvalidRecord) {
				t.Fatalf("err = %v; want ErrInvalidRecord", err)
			}
		})
	}
}

func TestCreateScan_DuplicatesPassThrough(t *testing.T) {
	var inserts int
	repo := &fakeTrackingRepo{
		createFn: func(_ context.Context, rec models.ScanRecord) (models.ScanRecord, error) {
			inserts++
			rec.ID = inserts
			return rec, nil
		},
	}
	svc := service.NewTrackingService(repo)

	rec := models.ScanRecord{ProjectID: 7, LocationID: 3, ParticipantUsername: "alice"}
	for i := 0; i < 2; i++ {
		if _, err := svc.CreateScan(context.Background(), rec); err != nil {
			t.Fatalf("CreateScan: %v", err)
		}
	}
	if inserts != 2 {
		t.Errorf("inserts = %d; want 2, the service does not dedup", inserts)
	}
}
