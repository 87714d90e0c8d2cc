// Package repository provides persistence implementations for the dev
// backend using a sqlite database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/storypath/storypath/internal/models"
)

// ErrNoRows is returned when a lookup by id matches nothing.
var ErrNoRows = errors.New("repository: no rows")

// SQLiteCatalogRepository implements project and location persistence
// against a sqlite database.
type SQLiteCatalogRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewSQLiteCatalogRepository creates a catalog repository over the provided *sql.DB.
func NewSQLiteCatalogRepository(db *sql.DB) *SQLiteCatalogRepository {
	return &SQLiteCatalogRepository{DB: db}
}

const projectColumns = `id, title, description, instructions, initial_clue, participant_scoring, homescreen_display, is_published`

func scanProject(row interface{ Scan(...any) error }) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Instructions,
		&p.InitialClue, &p.ParticipantScoring, &p.HomescreenDisplay, &p.IsPublished)
	return p, err
}

// ListProjects returns every project.
func (r *SQLiteCatalogRepository) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+projectColumns+` FROM project ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListProjects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("ListProjects scan: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns the project with the given id, or ErrNoRows.
func (r *SQLiteCatalogRepository) GetProject(ctx context.Context, id int) (models.Project, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM project WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, fmt.Errorf("project %d: %w", id, ErrNoRows)
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("GetProject: %w", err)
	}
	return p, nil
}

// CreateProject inserts a project and returns it with its assigned id.
func (r *SQLiteCatalogRepository) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO project (title, description, instructions, initial_clue, participant_scoring, homescreen_display, is_published)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.Title, p.Description, p.Instructions, p.InitialClue, p.ParticipantScoring, p.HomescreenDisplay, p.IsPublished)
	if err != nil {
		return models.Project{}, fmt.Errorf("CreateProject: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Project{}, fmt.Errorf("CreateProject id: %w", err)
	}
	p.ID = int(id)
	return p, nil
}

// UpdateProject overwrites the project with the given id.
func (r *SQLiteCatalogRepository) UpdateProject(ctx context.Context, id int, p models.Project) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE project
		   SET title = ?, description = ?, instructions = ?, initial_clue = ?,
		       participant_scoring = ?, homescreen_display = ?, is_published = ?
		 WHERE id = ?
	`, p.Title, p.Description, p.Instructions, p.InitialClue, p.ParticipantScoring, p.HomescreenDisplay, p.IsPublished, id)
	if err != nil {
		return fmt.Errorf("UpdateProject: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNoRows)
	}
	return nil
}

// DeleteProject removes the project with the given id and, via the schema's
// cascade, its locations.
func (r *SQLiteCatalogRepository) DeleteProject(ctx context.Context, id int) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM project WHERE id = ?`, id); err != nil {
		return fmt.Errorf("DeleteProject: %w", err)
	}
	return nil
}

const locationColumns = `id, project_id, location_name, location_content, location_position, score_points, clue`

func scanLocation(row interface{ Scan(...any) error }) (models.Location, error) {
	var l models.Location
	err := row.Scan(&l.ID, &l.ProjectID, &l.Name, &l.Content, &l.Position, &l.ScorePoints, &l.Clue)
	return l, err
}

// ListLocations returns all locations belonging to a project.
func (r *SQLiteCatalogRepository) ListLocations(ctx context.Context, projectID int) ([]models.Location, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM location WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListLocations: %w", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("ListLocations scan: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// GetLocation returns the location with the given id, or ErrNoRows.
func (r *SQLiteCatalogRepository) GetLocation(ctx context.Context, id int) (models.Location, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM location WHERE id = ?`, id)
	l, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Location{}, fmt.Errorf("location %d: %w", id, ErrNoRows)
	}
	if err != nil {
		return models.Location{}, fmt.Errorf("GetLocation: %w", err)
	}
	return l, nil
}

// CreateLocation inserts a location and returns it with its assigned id.
func (r *SQLiteCatalogRepository) CreateLocation(ctx context.Context, l models.Location) (models.Location, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO location (project_id, location_name, location_content, location_position, score_points, clue)
		VALUES (?, ?, ?, ?, ?, ?)
	`, l.ProjectID, l.Name, l.Content, l.Position, l.ScorePoints, l.Clue)
	if err != nil {
		return models.Location{}, fmt.Errorf("CreateLocation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Location{}, fmt.Errorf("CreateLocation id: %w", err)
	}
	l.ID = int(id)
	return l, nil
}

// UpdateLocation overwrites the location with the given id.
func (r *SQLiteCatalogRepository) UpdateLocation(ctx context.Context, id int, l models.Location) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE location
		   SET project_id = ?, location_name = ?, location_content = ?,
		       location_position = ?, score_points = ?, clue = ?
		 WHERE id = ?
	`, l.ProjectID, l.Name, l.Content, l.Position, l.ScorePoints, l.Clue, id)
	if err != nil {
		return fmt.Errorf("UpdateLocation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("location %d: %w", id, ErrNoRows)
	}
	return nil
}

// DeleteLocation removes the location with the given id.
func (r *SQLiteCatalogRepository) DeleteLocation(ctx context.Context, id int) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM location WHERE id = ?`, id); err != nil {
		return fmt.Errorf("DeleteLocation: %w", err)
	}
	return nil
}
