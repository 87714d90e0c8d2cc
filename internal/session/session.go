// Package session holds the participant identity for one app session.
// It replaces ambient global user state: a single Session is constructed
// at startup and passed explicitly to every component that needs identity.
package session

import "sync"

// Session is the process-wide participant identity. The username is freely
// chosen, not authenticated, and persists across project switches for the
// life of the session. Safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	username string
	avatar   string
}

// New constructs a session for the given participant username.
func New(username string) *Session {
	return &Session{username: username}
}

// Username returns the current participant username.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// SetUsername changes the participant identity. This is the only mutation
// path; components never write the username anywhere else.
func (s *Session) SetUsername(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
}

// Avatar returns the participant's avatar image reference, if any.
func (s *Session) Avatar() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.avatar
}

// SetAvatar records the participant's avatar image reference.
func (s *Session) SetAvatar(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatar = ref
}
