// Package gateway implements the REST client for the StoryPath backend.
// It speaks the PostgREST-style resource contract (eq. filters, Prefer
// headers, bearer auth) and carries no business logic.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storypath/storypath/internal/models"
)

// ErrNotFound is returned when a lookup by id matches zero rows.
var ErrNotFound = errors.New("gateway: not found")

// RemoteError reports a non-2xx backend response.
type RemoteError struct {
	// Status is the HTTP status code returned by the backend.
	Status int
	// Body holds the (truncated) response body for diagnostics.
	Body string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("gateway: remote error: status %d: %s", e.Status, e.Body)
}

// Client is the Remote Data Gateway. All methods perform a single request
// and never retry; the caller's next action is the retry mechanism.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

// New constructs a gateway client for the given API base URL, authenticating
// every request with the static bearer token.
func New(baseURL, token string, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// do issues one request. body (if non-nil) is sent as JSON; out (if non-nil)
// receives the decoded JSON response. POST and PATCH requests ask the
// backend to return the full representation of the affected rows.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Int("status", resp.StatusCode),
		)
		return &RemoteError{Status: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode %s %s: %w", method, path, err)
	}
	return nil
}

// ListProjects retrieves every project visible to the token's user.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/project", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListPublishedProjects retrieves projects and keeps only published ones.
func (c *Client) ListPublishedProjects(ctx context.Context) ([]models.Project, error) {
	all, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	published := make([]models.Project, 0, len(all))
	for _, p := range all {
		if p.IsPublished {
			published = append(published, p)
		}
	}
	return published, nil
}

// GetProject retrieves a single project by id. Returns ErrNotFound when the
// backend answers with zero rows.
func (c *Client) GetProject(ctx context.Context, id int) (models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/project?id=eq."+strconv.Itoa(id), nil, &projects); err != nil {
		return models.Project{}, err
	}
	if len(projects) == 0 {
		return models.Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return projects[0], nil
}

// CreateProject inserts a project and returns the created row.
func (c *Client) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	var created []models.Project
	if err := c.do(ctx, http.MethodPost, "/project", p, &created); err != nil {
		return models.Project{}, err
	}
	if len(created) == 0 {
		return p, nil
	}
	return created[0], nil
}

// UpdateProject patches the project with the given id.
func (c *Client) UpdateProject(ctx context.Context, id int, p models.Project) error {
	return c.do(ctx, http.MethodPatch, "/project?id=eq."+strconv.Itoa(id), p, nil)
}

// DeleteProject removes the project with the given id.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/project?id=eq."+strconv.Itoa(id), nil, nil)
}

// ListLocations retrieves all locations belonging to a project.
func (c *Client) ListLocations(ctx context.Context, projectID int) ([]models.Location, error) {
	var locations []models.Location
	path := "/location?project_id=eq." + strconv.Itoa(projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// GetLocation retrieves a single location by id. Returns ErrNotFound when
// the backend answers with zero rows.
func (c *Client) GetLocation(ctx context.Context, id int) (models.Location, error) {
	var locations []models.Location
	if err := c.do(ctx, http.MethodGet, "/location?id=eq."+strconv.Itoa(id), nil, &locations); err != nil {
		return models.Location{}, err
	}
	if len(locations) == 0 {
		return models.Location{}, fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	return locations[0], nil
}

// CreateLocation inserts a location and returns the created row.
func (c *Client) CreateLocation(ctx context.Context, l models.Location) (models.Location, error) {
	var created []models.Location
	if err := c.do(ctx, http.MethodPost, "/location", l, &created); err != nil {
		return models.Location{}, err
	}
	if len(created) == 0 {
		return l, nil
	}
	return created[0], nil
}

// UpdateLocation patches the location with the given id.
func (c *Client) UpdateLocation(ctx context.Context, id int, l models.Location) error {
	return c.do(ctx, http.MethodPatch, "/location?id=eq."+strconv.Itoa(id), l, nil)
}

// DeleteLocation removes the location with the given id.
func (c *Client) DeleteLocation(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/location?id=eq."+strconv.Itoa(id), nil, nil)
}

// ListScans retrieves the tracking rows for one participant in one project.
// Both filters are mandatory: an unfiltered or half-filtered read would
// poison the ledger's dedup state.
func (c *Client) ListScans(ctx context.Context, projectID int, participant string) ([]models.ScanRecord, error) {
	var scans []models.ScanRecord
	path := "/tracking?project_id=eq." + strconv.Itoa(projectID) +
		"&participant_username=eq." + url.QueryEscape(participant)
	if err := c.do(ctx, http.MethodGet, path, nil, &scans); err != nil {
		return nil, err
	}
	return scans, nil
}

// CreateScan inserts a tracking row. The backend performs no dedup; callers
// go through the ledger, never here directly.
func (c *Client) CreateScan(ctx context.Context, rec models.ScanRecord) (models.ScanRecord, error) {
	var created []models.ScanRecord
	if err := c.do(ctx, http.MethodPost, "/tracking", rec, &created); err != nil {
		return models.ScanRecord{}, err
	}
	if len(created) == 0 {
		return rec, nil
	}
	return created[0], nil
}

// DeleteScans bulk-removes a participant's tracking rows for a project,
// resetting their progress.
func (c *Client) DeleteScans(ctx context.Context, projectID int, participant string) error {
	path := "/tracking?project_id=eq." + strconv.Itoa(projectID) +
		"&participant_username=eq." + url.QueryEscape(participant)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
