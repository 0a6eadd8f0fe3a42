package store

import (
	"sync"
	"time"
)

// ResetSignal tells the kiosk to return to its idle screen after a
// successful claim. It is set only by a claim, consumed by the kiosk's
// poll (clear-on-read), and goes stale after a bounded window so the
// signal cannot stay stuck if the kiosk is offline at claim time. The
// window is a deadline comparison on poll rather than a timer.
type ResetSignal struct {
	mu     sync.Mutex
	armed  bool
	setAt  time.Time
	window time.Duration
}

func NewResetSignal(window time.Duration) *ResetSignal {
	return &ResetSignal{window: window}
}

// Set arms the signal. Called on every successful claim.
func (s *ResetSignal) Set() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = true
	s.setAt = time.Now()
}

// PollAndConsume reports whether the kiosk should reset, clearing the
// signal in the same critical section. A signal older than the window is
// consumed silently.
func (s *ResetSignal) PollAndConsume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.armed {
		return false
	}
	s.armed = false
	return time.Since(s.setAt) <= s.window
}
