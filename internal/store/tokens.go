package store

import (
	"sync"
	"time"

	apperrors "github.com/ecosort/kiosk-server-go/internal/errors"
	"github.com/ecosort/kiosk-server-go/internal/model"
	"github.com/ecosort/kiosk-server-go/internal/util"
)

const (
	codeLength      = 12
	maxMintAttempts = 10
)

// TokenStore owns the map of minted, unclaimed redemption tokens. A token
// present in the map is always unclaimed: Claim removes the entry in the
// same critical section that reads it, which is the entire one-time-use
// guarantee. There is no used flag to check and no second phase.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]*model.RedemptionToken
	ttl    time.Duration
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{
		tokens: make(map[string]*model.RedemptionToken),
		ttl:    ttl,
	}
}

// Mint creates a token from a finalized session snapshot. Codes are drawn
// from a space large enough that collisions are negligible, but each
// candidate is still checked against live codes and regenerated on a hit.
func (s *TokenStore) Mint(snapshot *model.SessionSnapshot) (*model.RedemptionToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for attempt := 0; ; attempt++ {
		if attempt >= maxMintAttempts {
			return nil, apperrors.Internal("Failed to allocate redemption code")
		}
		code = util.GenerateCode(codeLength)
		if _, exists := s.tokens[code]; !exists {
			break
		}
	}

	items := make([]model.ScannedItem, len(snapshot.Items))
	copy(items, snapshot.Items)

	token := &model.RedemptionToken{
		Code:      code,
		Points:    snapshot.Points,
		Items:     items,
		CreatedAt: time.Now(),
	}
	s.tokens[code] = token
	return token, nil
}

// Claim is the atomic take: exactly one caller observes the entry and
// removes it; every other caller, concurrent or later, observes absence.
// An expired entry the janitor has not swept yet is treated as absent.
func (s *TokenStore) Claim(code string) (*model.RedemptionToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[code]
	if !ok {
		return nil, false
	}
	delete(s.tokens, code)

	if time.Since(token.CreatedAt) > s.ttl {
		return nil, false
	}
	return token, true
}

// DeleteExpired removes unclaimed tokens past the store TTL and reports
// how many were dropped.
func (s *TokenStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	count := 0
	for code, token := range s.tokens {
		if now.Sub(token.CreatedAt) > s.ttl {
			delete(s.tokens, code)
			count++
		}
	}
	return count
}

// Len reports the number of live tokens.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
