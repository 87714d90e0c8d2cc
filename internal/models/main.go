// Package models defines the core data structures for projects, locations,
// scan records and the wire encodings they travel in.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DisplayMode defines the set of valid home-screen display modes for a project.
type DisplayMode string

const (
	// DisplayAllLocations shows every location on the project home screen.
	DisplayAllLocations DisplayMode = "display-all-locations"
	// DisplayNothing hides all locations until they are unlocked.
	DisplayNothing DisplayMode = "display-nothing"
)

// Project represents a published scavenger-hunt definition. Projects are
// created and edited externally; the client only ever reads them.
type Project struct {
	// ID is the unique identifier for the project.
	ID int `json:"id"`
	// Title is the display name of the project.
	Title string `json:"title"`
	// Description is the free-text description shown in the project list.
	Description string `json:"description"`
	// Instructions tells participants how to play the project.
	Instructions string `json:"instructions"`
	// InitialClue is the first clue shown before any location is unlocked.
	InitialClue string `json:"initial_clue"`
	// ParticipantScoring describes the scoring policy for the project.
	ParticipantScoring string `json:"participant_scoring"`
	// HomescreenDisplay selects what the project home screen reveals.
	HomescreenDisplay DisplayMode `json:"homescreen_display"`
	// IsPublished reports whether the project is visible to participants.
	IsPublished bool `json:"is_published"`
}

// Location represents a geo-tagged point of interest within a project,
// worth ScorePoints when unlocked. Read-only from the client.
type Location struct {
	// ID is the unique identifier for the location.
	ID int `json:"id"`
	// ProjectID identifies the project the location belongs to.
	ProjectID int `json:"project_id"`
	// Name is the display name of the location.
	Name string `json:"location_name"`
	// Content is the rich-text content revealed on unlock.
	Content string `json:"location_content"`
	// Position is the stored "(lon,lat)" coordinate pair. Use Coordinate
	// to obtain a parsed value; the textual form is never interpreted
	// anywhere else.
	Position string `json:"location_position"`
	// ScorePoints is the number of points awarded for unlocking.
	ScorePoints int `json:"score_points"`
	// Clue is an optional hint pointing at the next location.
	Clue string `json:"clue,omitempty"`
}

// Coordinate parses the location's stored position. See ParsePosition for
// the component order.
func (l Location) Coordinate() (Coordinate, error) {
	return ParsePosition(l.Position)
}

// ScanRecord represents a single participant's unlock of a single location
// within a single project. At most one record may exist per
// (ProjectID, LocationID, ParticipantUsername); the backend does not
// enforce this, the ledger does.
type ScanRecord struct {
	// ID is the backend-assigned row identifier; zero before insertion.
	ID int `json:"id,omitempty"`
	// ProjectID identifies the project the scan belongs to.
	ProjectID int `json:"project_id"`
	// LocationID identifies the unlocked location.
	LocationID int `json:"location_id"`
	// ParticipantUsername identifies the participant who unlocked it.
	ParticipantUsername string `json:"participant_username"`
	// CreatedAt is the backend-assigned creation timestamp.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Coordinate is the canonical in-memory coordinate representation.
// Latitude first, always; the "(lon,lat)" wire order exists only inside
// ParsePosition and FormatPosition.
type Coordinate struct {
	// Lat is the latitude in decimal degrees.
	Lat float64 `json:"lat"`
	// Lon is the longitude in decimal degrees.
	Lon float64 `json:"lon"`
}

// ParsePosition parses the textual position pair "(lon,lat)" used by the
// location resource. The wire order is longitude first; the returned
// Coordinate is converted immediately so no other code ever sees the
// transposed form.
func ParsePosition(s string) (Coordinate, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("parse position %q: want two comma-separated components", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse position %q: longitude: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse position %q: latitude: %w", s, err)
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// FormatPosition renders a coordinate in the "(lon,lat)" wire form.
func FormatPosition(c Coordinate) string {
	return fmt.Sprintf("(%v,%v)", c.Lon, c.Lat)
}

// ParseScanCode parses a QR payload of the form "<projectID>-<locationID>",
// both base-10 integers, dash-separated, no whitespace.
func ParseScanCode(data string) (projectID, locationID int, err error) {
	parts := strings.SplitN(data, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("parse scan code %q: want <projectID>-<locationID>", data)
	}
	projectID, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse scan code %q: project id: %w", data, err)
	}
	locationID, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse scan code %q: location id: %w", data, err)
	}
	return projectID, locationID, nil
}

// FormatScanCode renders the QR payload for a (project, location) pair.
func FormatScanCode(projectID, locationID int) string {
	return strconv.Itoa(projectID) + "-" + strconv.Itoa(locationID)
}
