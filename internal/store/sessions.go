package store

import (
	"sync"
	"time"

	"github.com/ecosort/kiosk-server-go/internal/config"
	apperrors "github.com/ecosort/kiosk-server-go/internal/errors"
	"github.com/ecosort/kiosk-server-go/internal/model"
	"github.com/ecosort/kiosk-server-go/internal/util"
)

// SessionStore owns the map of active kiosk sessions. All mutations go
// through its methods under one mutex, so every externally observable
// operation is serialized. Expired sessions are dropped lazily on access
// and by the janitor sweep.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*model.Session),
		ttl:      ttl,
	}
}

// Create allocates a fresh session with zero points and no items.
func (s *SessionStore) Create() (string, error) {
	id, err := util.GenerateSessionID()
	if err != nil {
		return "", apperrors.Internal("Failed to generate session id").WithCause(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.sessions[id] = &model.Session{
		ID:             id,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	return id, nil
}

// AddItem validates and appends one item, returning the new running total.
// Raw points are clamped to the allowed per-item range before accumulation
// so a compromised classification client cannot inflate rewards.
func (s *SessionStore) AddItem(id, label string, rawPoints int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		return 0, apperrors.NotFound("Session")
	}

	now := time.Now()
	validated := clampPoints(rawPoints)
	sess.Items = append(sess.Items, model.ScannedItem{
		Label:      label,
		Points:     validated,
		CapturedAt: now,
	})
	sess.Points += validated
	sess.LastActivityAt = now

	return sess.Points, nil
}

// Get returns a read-only projection of the session. It never mutates.
func (s *SessionStore) Get(id string) (*model.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		return nil, apperrors.NotFound("Session")
	}
	return viewOf(sess), nil
}

// Touch refreshes the session's last-activity timestamp and returns its
// current view. Used by the kiosk's periodic validation poll.
func (s *SessionStore) Touch(id string) (*model.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		return nil, apperrors.NotFound("Session")
	}
	sess.LastActivityAt = time.Now()
	return viewOf(sess), nil
}

// Finalize atomically removes the session and returns an immutable
// snapshot for minting. After it returns, the id no longer resolves, so a
// session can never be finalized into two live tokens. A session with no
// items is rejected and left in place.
func (s *SessionStore) Finalize(id string) (*model.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		return nil, apperrors.NotFound("Session")
	}
	if len(sess.Items) == 0 {
		return nil, apperrors.EmptySession()
	}

	delete(s.sessions, id)

	items := make([]model.ScannedItem, len(sess.Items))
	copy(items, sess.Items)
	return &model.SessionSnapshot{
		Points: sess.Points,
		Items:  items,
	}, nil
}

// DeleteExpired removes sessions older than the store TTL, regardless of
// activity, and reports how many were dropped.
func (s *SessionStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	count := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) > s.ttl {
			delete(s.sessions, id)
			count++
		}
	}
	return count
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// live resolves a session id, dropping it first if the store TTL has
// passed. Callers must hold the mutex.
func (s *SessionStore) live(id string) *model.Session {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if time.Since(sess.CreatedAt) > s.ttl {
		delete(s.sessions, id)
		return nil
	}
	return sess
}

func viewOf(sess *model.Session) *model.SessionView {
	items := make([]model.ScannedItem, len(sess.Items))
	copy(items, sess.Items)
	return &model.SessionView{
		Points:    sess.Points,
		ItemCount: len(sess.Items),
		Items:     items,
		CreatedAt: sess.CreatedAt,
	}
}

func clampPoints(points int) int {
	if points < config.MinItemPoints {
		return config.MinItemPoints
	}
	if points > config.MaxItemPoints {
		return config.MaxItemPoints
	}
	return points
}
