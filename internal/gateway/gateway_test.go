package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storypath/storypath/internal/gateway"
	"github.com/storypath/storypath/internal/models"
)

func TestListScans_FiltersByProjectAndParticipant(t *testing.T) {
	var gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]models.ScanRecord{
			{ID: 1, ProjectID: 7, LocationID: 3, ParticipantUsername: "alice"},
		})
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "tok123", zap.NewNop())
	scans, err := c.ListScans(context.Background(), 7, "alice")
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, 3, scans[0].LocationID)
	assert.Equal(t, "project_id=eq.7&participant_username=eq.alice", gotQuery)
	assert.Equal(t, "Bearer tok123", gotAuth)
}

func TestCreateScan_PostsAndDecodesRepresentation(t *testing.T) {
	var gotPrefer string
	var gotBody models.ScanRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tracking", r.URL.Path)
		gotPrefer = r.Header.Get("Prefer")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		created := gotBody
		created.ID = 42
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]models.ScanRecord{created})
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "tok", zap.NewNop())
	rec := models.ScanRecord{ProjectID: 7, LocationID: 3, ParticipantUsername: "alice"}
	created, err := c.CreateScan(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, 42, created.ID)
	assert.Equal(t, "return=representation", gotPrefer)
	assert.Equal(t, rec, gotBody)
}

func TestGetProject_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "tok", zap.NewNop())
	_, err := c.GetProject(context.Background(), 12)
	require.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestRemoteError_CarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "tok", zap.NewNop())
	_, err := c.ListProjects(context.Background())
	var remoteErr *gateway.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusForbidden, remoteErr.Status)
}

func TestListPublishedProjects_FiltersUnpublished(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/project", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]models.Project{
			{ID: 1, Title: "Draft", IsPublished: false},
			{ID: 2, Title: "Campus Tour", IsPublished: true},
		})
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "tok", zap.NewNop())
	projects, err := c.ListPublishedProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Campus Tour", projects[0].Title)
}

func TestListLocations_UsesProjectFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/location", r.URL.Path)
		require.Equal(t, "eq.7", r.URL.Query().Get("project_id"))
		_ = json.NewEncoder(w).Encode([]models.Location{{ID: 3, ProjectID: 7, Name: "Gate"}})
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "tok", zap.NewNop())
	locations, err := c.ListLocations(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, locations, 1)
}

func TestDeleteScans_ScopesToParticipant(t *testing.T) {
	var gotMethod, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := gateway.New(srv.URL, "tok", zap.NewNop())
	require.NoError(t, c.DeleteScans(context.Background(), 7, "alice"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "project_id=eq.7&participant_username=eq.alice", gotQuery)
}

func TestGateway_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the dial fails

	c := gateway.New(srv.URL, "tok", zap.NewNop())
	_, err := c.ListProjects(context.Background())
	require.Error(t, err)
	var remoteErr *gateway.RemoteError
	require.False(t, errors.As(err, &remoteErr), "transport failure must not look like a remote status")
}
