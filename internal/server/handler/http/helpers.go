// Package http provides HTTP handlers serving the StoryPath REST contract
// PostgREST-style: eq. query filters, array responses, and Prefer-driven
// representations.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// eqIntFilter extracts an "eq."-prefixed integer filter like id=eq.7.
// ok is false when the parameter is absent entirely.
func eqIntFilter(r *http.Request, name string) (value int, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	rest, found := strings.CutPrefix(raw, "eq.")
	if !found {
		return 0, true, strconv.ErrSyntax
	}
	v, err := strconv.Atoi(rest)
	if err != nil {
		return 0, true, err
	}
	return v, true, nil
}

// eqStringFilter extracts an "eq."-prefixed string filter like
// participant_username=eq.alice.
func eqStringFilter(r *http.Request, name string) (value string, ok bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return "", false
	}
	rest, found := strings.CutPrefix(raw, "eq.")
	if !found {
		return "", false
	}
	return rest, true
}

// wantsRepresentation reports whether the client asked for the affected
// rows back (Prefer: return=representation).
func wantsRepresentation(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Prefer"), "return=representation")
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
