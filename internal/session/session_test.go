package session_test

import (
	"sync"
	"testing"

	"github.com/storypath/storypath/internal/session"
)

func TestSessionDefaults(t *testing.T) {
	s := session.New("explorer")
	if got := s.Username(); got != "explorer" {
		t.Errorf("Username() = %q; want %q", got, "explorer")
	}
	if got := s.Avatar(); got != "" {
		t.Errorf("Avatar() = %q; want empty", got)
	}
}

func TestSessionSetters(t *testing.T) {
	s := session.New("explorer")
	s.SetUsername("alice")
	s.SetAvatar("fox")
	if got := s.Username(); got != "alice" {
		t.Errorf("Username() = %q; want %q", got, "alice")
	}
	if got := s.Avatar(); got != "fox" {
		t.Errorf("Avatar() = %q; want %q", got, "fox")
	}
}

func TestSessionConcurrentAccess(t *testing.T) {
	s := session.New("explorer")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetUsername("alice")
		}()
		go func() {
			defer wg.Done()
			_ = s.Username()
		}()
	}
	wg.Wait()
	if got := s.Username(); got != "alice" {
		t.Errorf("Username() = %q; want %q", got, "alice")
	}
}
