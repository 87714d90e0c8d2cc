package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/storypath/storypath/internal/models"
	"github.com/storypath/storypath/internal/service"
)

// TrackingService defines the interface for scan-record operations
// required by the TrackingHandler.
type TrackingService interface {
	ListScans(ctx context.Context, projectID int, participant string) ([]models.ScanRecord, error)
	CreateScan(ctx context.Context, rec models.ScanRecord) (models.ScanRecord, error)
	DeleteScans(ctx context.Context, projectID int, participant string) error
}

// TrackingHandler handles HTTP requests for the tracking resource.
type TrackingHandler struct {
	// TrackingService performs the underlying tracking operations.
	TrackingService TrackingService
}

// GetScans handles GET /tracking?project_id=eq.<id>&participant_username=eq.<user>.
// Both filters are required: a half-filtered read would hand the client a
// scan list it cannot safely dedup against.
func (h *TrackingHandler) GetScans(w http.ResponseWriter, r *http.Request) {
	projectID, ok, err := eqIntFilter(r, "project_id")
	if err != nil || !ok {
		http.Error(w, "project_id filter required", http.StatusBadRequest)
		return
	}
	participant, ok := eqStringFilter(r, "participant_username")
	if !ok {
		http.Error(w, "participant_username filter required", http.StatusBadRequest)
		return
	}
	scans, err := h.TrackingService.ListScans(r.Context(), projectID, participant)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, scans)
}

// CreateScan handles POST /tracking. The insert is plain: no dedup happens
// here, by contract.
func (h *TrackingHandler) CreateScan(w http.ResponseWriter, r *http.Request) {
	var rec models.ScanRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	created, err := h.TrackingService.CreateScan(r.Context(), rec)
	if errors.Is(err, service.ErrInvalidRecord) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if wantsRepresentation(r) {
		writeJSON(w, http.StatusCreated, []models.ScanRecord{created})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// DeleteScans handles DELETE /tracking?project_id=eq.<id> with an optional
// participant_username=eq.<user> filter.
func (h *TrackingHandler) DeleteScans(w http.ResponseWriter, r *http.Request) {
	projectID, ok, err := eqIntFilter(r, "project_id")
	if err != nil || !ok {
		http.Error(w, "project_id filter required", http.StatusBadRequest)
		return
	}
	participant, _ := eqStringFilter(r, "participant_username")
	if err := h.TrackingService.DeleteScans(r.Context(), projectID, participant); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
