package trigger_test

import (
	"context"
	"sync"

	"github.com/storypath/storypath/internal/models"
)

// memSource is a stateful in-memory gateway fake: created scans show up in
// subsequent reads, like the real backend.
type memSource struct {
	mu        sync.Mutex
	locations []models.Location
	scans     []models.ScanRecord

	listScanCalls int
	createCalls   int
}

func (m *memSource) ListLocations(ctx context.Context, projectID int) ([]models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Location, len(m.locations))
	copy(out, m.locations)
	return out, nil
}

func (m *memSource) ListScans(ctx context.Context, projectID int, participant string) ([]models.ScanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listScanCalls++
	var out []models.ScanRecord
	for _, rec := range m.scans {
		if rec.ProjectID == projectID && rec.ParticipantUsername == participant {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memSource) CreateScan(ctx context.Context, rec models.ScanRecord) (models.ScanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	rec.ID = len(m.scans) + 1
	m.scans = append(m.scans, rec)
	return rec, nil
}

func (m *memSource) DeleteScans(ctx context.Context, projectID int, participant string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.scans[:0]
	for _, rec := range m.scans {
		if rec.ProjectID != projectID || rec.ParticipantUsername != participant {
			kept = append(kept, rec)
		}
	}
	m.scans = kept
	return nil
}

func (m *memSource) snapshot() (createCalls int, scans []models.ScanRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls, append([]models.ScanRecord(nil), m.scans...)
}
