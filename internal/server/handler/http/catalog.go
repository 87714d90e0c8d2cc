package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/storypath/storypath/internal/models"
	"github.com/storypath/storypath/internal/repository"
	"github.com/storypath/storypath/internal/service"
)

// CatalogService defines the interface for project and location operations
// required by the CatalogHandler.
type CatalogService interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int) (models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, id int, p models.Project) error
	DeleteProject(ctx context.Context, id int) error
	ListLocations(ctx context.Context, projectID int) ([]models.Location, error)
	GetLocation(ctx context.Context, id int) (models.Location, error)
	CreateLocation(ctx context.Context, l models.Location) (models.Location, error)
	UpdateLocation(ctx context.Context, id int, l models.Location) error
	DeleteLocation(ctx context.Context, id int) error
}

// CatalogHandler handles HTTP requests for the project and location resources.
type CatalogHandler struct {
	// CatalogService performs the underlying catalog operations.
	CatalogService CatalogService
}

// GetProjects handles GET /project with an optional id=eq.<id> filter.
// The response is always an array; an id filter matching nothing yields
// an empty array, as PostgREST does.
func (h *CatalogHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	id, ok, err := eqIntFilter(r, "id")
	if err != nil {
		http.Error(w, "bad id filter", http.StatusBadRequest)
		return
	}
	if ok {
		p, err := h.CatalogService.GetProject(r.Context(), id)
		if errors.Is(err, repository.ErrNoRows) {
			writeJSON(w, http.StatusOK, []models.Project{})
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, []models.Project{p})
		return
	}

	projects, err := h.CatalogService.ListProjects(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// CreateProject handles POST /project.
func (h *CatalogHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	created, err := h.CatalogService.CreateProject(r.Context(), p)
	if errors.Is(err, service.ErrInvalidRecord) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if wantsRepresentation(r) {
		writeJSON(w, http.StatusCreated, []models.Project{created})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// PatchProject handles PATCH /project?id=eq.<id>.
func (h *CatalogHandler) PatchProject(w http.ResponseWriter, r *http.Request) {
	id, ok, err := eqIntFilter(r, "id")
	if err != nil || !ok {
		http.Error(w, "id filter required", http.StatusBadRequest)
		return
	}
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.CatalogService.UpdateProject(r.Context(), id, p); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProject handles DELETE /project?id=eq.<id>.
func (h *CatalogHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok, err := eqIntFilter(r, "id")
	if err != nil || !ok {
		http.Error(w, "id filter required", http.StatusBadRequest)
		return
	}
	if err := h.CatalogService.DeleteProject(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLocations handles GET /location with a project_id=eq.<id> or
// id=eq.<id> filter.
func (h *CatalogHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	if id, ok, err := eqIntFilter(r, "id"); ok {
		if err != nil {
			http.Error(w, "bad id filter", http.StatusBadRequest)
			return
		}
		l, err := h.CatalogService.GetLocation(r.Context(), id)
		if errors.Is(err, repository.ErrNoRows) {
			writeJSON(w, http.StatusOK, []models.Location{})
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, []models.Location{l})
		return
	}

	projectID, ok, err := eqIntFilter(r, "project_id")
	if err != nil || !ok {
		http.Error(w, "project_id filter required", http.StatusBadRequest)
		return
	}
	locations, err := h.CatalogService.ListLocations(r.Context(), projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

// CreateLocation handles POST /location.
func (h *CatalogHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var l models.Location
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	created, err := h.CatalogService.CreateLocation(r.Context(), l)
	if errors.Is(err, service.ErrInvalidRecord) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if wantsRepresentation(r) {
		writeJSON(w, http.StatusCreated, []models.Location{created})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// PatchLocation handles PATCH /location?id=eq.<id>.
func (h *CatalogHandler) PatchLocation(w http.ResponseWriter, r *http.Request) {
	id, ok, err := eqIntFilter(r, "id")
	if err != nil || !ok {
		http.Error(w, "id filter required", http.StatusBadRequest)
		return
	}
	var l models.Location
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.CatalogService.UpdateLocation(r.Context(), id, l); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoRows):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, service.ErrInvalidRecord):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteLocation handles DELETE /location?id=eq.<id>.
func (h *CatalogHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok, err := eqIntFilter(r, "id")
	if err != nil || !ok {
		http.Error(w, "id filter required", http.StatusBadRequest)
		return
	}
	if err := h.CatalogService.DeleteLocation(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
