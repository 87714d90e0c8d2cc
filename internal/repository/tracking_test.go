package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/storypath/storypath/internal/models"
	"github.com/storypath/storypath/internal/repository"
)

func setupTrackingMock(t *testing.T) (*repository.SQLiteTrackingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repository.NewSQLiteTrackingRepository(db), mock
}

func TestListScans_ByParticipant(t *testing.T) {
	repo, mock := setupTrackingMock(t)

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "project_id", "location_id", "participant_username", "created_at"}).
		AddRow(1, 7, 3, "alice", created)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, project_id, location_id, participant_username, created_at FROM tracking WHERE project_id = ? AND participant_username = ? ORDER BY id`)).
		WithArgs(7, "alice").
		WillReturnRows(rows)

	got, err := repo.ListScans(context.Background(), 7, "alice")
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("scans = %d; want 1", len(got))
	}
	want := models.ScanRecord{ID: 1, ProjectID: 7, LocationID: 3, ParticipantUsername: "alice", CreatedAt: created}
	if got[0] != want {
		t.Errorf("scan = %+v; want %+v", got[0], want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestListScans_AllParticipants(t *testing.T) {
	repo, mock := setupTrackingMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, project_id, location_id, participant_username, created_at FROM tracking WHERE project_id = ? ORDER BY id`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "location_id", "participant_username", "created_at"}))

	got, err := repo.ListScans(context.Background(), 7, "")
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("scans = %d; want 0", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCreateScan(t *testing.T) {
	repo, mock := setupTrackingMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tracking (project_id, location_id, participant_username)`)).
		WithArgs(7, 3, "alice").
		WillReturnResult(sqlmock.NewResult(42, 1))

	got, err := repo.CreateScan(context.Background(), models.ScanRecord{ProjectID: 7, LocationID: 3, ParticipantUsername: "alice"})
	if err != nil {
		t.Fatalf("CreateScan: %v", err)
	}
	if got.ID != 42 {
		t.Errorf("id = %d; want 42", got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDeleteScans_ScopedToParticipant(t *testing.T) {
	repo, mock := setupTrackingMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tracking WHERE project_id = ? AND participant_username = ?`)).
		WithArgs(7, "alice").
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.DeleteScans(context.Background(), 7, "alice"); err != nil {
		t.Fatalf("DeleteScans: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
