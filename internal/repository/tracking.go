package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/storypath/storypath/internal/models"
)

// SQLiteTrackingRepository implements scan-record persistence against a
// sqlite database. Inserts perform no dedup, matching the hosted backend.
type SQLiteTrackingRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewSQLiteTrackingRepository creates a tracking repository over the provided *sql.DB.
func NewSQLiteTrackingRepository(db *sql.DB) *SQLiteTrackingRepository {
	return &SQLiteTrackingRepository{DB: db}
}

// ListScans returns the tracking rows for one project, optionally narrowed
// to one participant (participant == "" returns every participant's rows).
func (r *SQLiteTrackingRepository) ListScans(ctx context.Context, projectID int, participant string) ([]models.ScanRecord, error) {
	query := `SELECT id, project_id, location_id, participant_username, created_at FROM tracking WHERE project_id = ?`
	args := []any{projectID}
	if participant != "" {
		query += ` AND participant_username = ?`
		args = append(args, participant)
	}
	query += ` ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListScans: %w", err)
	}
	defer rows.Close()

	scans := []models.ScanRecord{}
	for rows.Next() {
		var rec models.ScanRecord
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.LocationID, &rec.ParticipantUsername, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListScans scan: %w", err)
		}
		scans = append(scans, rec)
	}
	return scans, rows.Err()
}

// CreateScan inserts a tracking row and returns it with its assigned id.
func (r *SQLiteTrackingRepository) CreateScan(ctx context.Context, rec models.ScanRecord) (models.ScanRecord, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO tracking (project_id, location_id, participant_username)
		VALUES (?, ?, ?)
	`, rec.ProjectID, rec.LocationID, rec.ParticipantUsername)
	if err != nil {
		return models.ScanRecord{}, fmt.Errorf("CreateScan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.ScanRecord{}, fmt.Errorf("CreateScan id: %w", err)
	}
	rec.ID = int(id)
	return rec, nil
}

// DeleteScans removes tracking rows for a project, optionally narrowed to
// one participant.
func (r *SQLiteTrackingRepository) DeleteScans(ctx context.Context, projectID int, participant string) error {
	query := `DELETE FROM tracking WHERE project_id = ?`
	args := []any{projectID}
	if participant != "" {
		query += ` AND participant_username = ?`
		args = append(args, participant)
	}
	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("DeleteScans: %w", err)
	}
	return nil
}
