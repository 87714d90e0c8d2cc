// Package service provides business logic for the dev backend, delegating
// persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/storypath/storypath/internal/models"
)

// ErrInvalidRecord is returned when a write request is missing required fields.
var ErrInvalidRecord = errors.New("service: invalid record")

// CatalogRepository defines the persistence operations needed by the CatalogService.
type CatalogRepository interface {
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

// CatalogService implements project and location business logic.
type CatalogService struct {
	repo CatalogRepository
}

// NewCatalogService constructs a CatalogService with the provided repository.
func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListProjects returns every project.
func (s *CatalogService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.repo.ListProjects(ctx)
}

// GetProject returns a single project by id.
func (s *CatalogService) GetProject(ctx context.Context, id int) (models.Project, error) {
	return s.repo.GetProject(ctx, id)
}

// CreateProject validates and inserts a project.
func (s *CatalogService) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	if p.Title == "" {
		return models.Project{}, fmt.Errorf("%w: project title required", ErrInvalidRecord)
	}
	if p.HomescreenDisplay == "" {
		p.HomescreenDisplay = models.DisplayAllLocations
	}
	return s.repo.CreateProject(ctx, p)
}

// UpdateProject overwrites the project with the given id.
func (s *CatalogService) UpdateProject(ctx context.Context, id int, p models.Project) error {
	return s.repo.UpdateProject(ctx, id, p)
}

// DeleteProject removes the project with the given id.
func (s *CatalogService) DeleteProject(ctx context.Context, id int) error {
	return s.repo.DeleteProject(ctx, id)
}

// ListLocations returns all locations of a project.
func (s *CatalogService) ListLocations(ctx context.Context, projectID int) ([]models.Location, error) {
	return s.repo.ListLocations(ctx, projectID)
}

// GetLocation returns a single location by id.
func (s *CatalogService) GetLocation(ctx context.Context, id int) (models.Location, error) {
	return s.repo.GetLocation(ctx, id)
}

// CreateLocation validates and inserts a location. The position must parse
// as a "(lon,lat)" pair and the owning project must exist.
func (s *CatalogService) CreateLocation(ctx context.Context, l models.Location) (models.Location, error) {
	if l.Name == "" {
		return models.Location{}, fmt.Errorf("%w: location name required", ErrInvalidRecord)
	}
	if _, err := models.ParsePosition(l.Position); err != nil {
		return models.Location{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if _, err := s.repo.GetProject(ctx, l.ProjectID); err != nil {
		return models.Location{}, fmt.Errorf("%w: project %d", ErrInvalidRecord, l.ProjectID)
	}
	return s.repo.CreateLocation(ctx, l)
}

// UpdateLocation overwrites the location with the given id.
func (s *CatalogService) UpdateLocation(ctx context.Context, id int, l models.Location) error {
	if l.Position != "" {
		if _, err := models.ParsePosition(l.Position); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
	}
	return s.repo.UpdateLocation(ctx, id, l)
}

// DeleteLocation removes the location with the given id.
func (s *CatalogService) DeleteLocation(ctx context.Context, id int) error {
	return s.repo.DeleteLocation(ctx, id)
}
