package service

import (
	"github.com/rs/zerolog/log"

	"github.com/ecosort/kiosk-server-go/internal/model"
	"github.com/ecosort/kiosk-server-go/internal/store"
)

// SessionService fronts the session store for kiosk callers.
type SessionService struct {
	sessions *store.SessionStore
}

func NewSessionService(sessions *store.SessionStore) *SessionService {
	return &SessionService{sessions: sessions}
}

func (s *SessionService) Create() (string, error) {
	id, err := s.sessions.Create()
	if err != nil {
		return "", err
	}

	log.Info().Str("sessionId", id).Msg("session created")
	return id, nil
}

// Validate refreshes the session's activity and reports its current state.
// An expired or unknown id resolves to not found; the caller surfaces
// {valid: false} without distinguishing the two.
func (s *SessionService) Validate(id string) (*model.SessionView, error) {
	return s.sessions.Touch(id)
}

func (s *SessionService) AddItem(id, label string, rawPoints int) (int, error) {
	total, err := s.sessions.AddItem(id, label, rawPoints)
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("sessionId", id).
		Str("item", label).
		Int("totalPoints", total).
		Msg("item added to session")
	return total, nil
}

func (s *SessionService) Get(id string) (*model.SessionView, error) {
	return s.sessions.Get(id)
}

// Finalize tears the session down and hands back the snapshot to mint a
// redemption token from. This is the single hand-off point between kiosk
// session and redeemable token.
func (s *SessionService) Finalize(id string) (*model.SessionSnapshot, error) {
	snapshot, err := s.sessions.Finalize(id)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("sessionId", id).
		Int("points", snapshot.Points).
		Int("items", len(snapshot.Items)).
		Msg("session finalized")
	return snapshot, nil
}
