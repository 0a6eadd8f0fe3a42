package service

import (
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/ecosort/kiosk-server-go/internal/errors"
	"github.com/ecosort/kiosk-server-go/internal/model"
	"github.com/ecosort/kiosk-server-go/internal/store"
	"github.com/ecosort/kiosk-server-go/internal/util"
)

// RedemptionService governs the token lifecycle: mint at finalize, claim
// exactly once, signal the kiosk to reset after a legitimate claim.
type RedemptionService struct {
	tokens *store.TokenStore
	reset  *store.ResetSignal
}

func NewRedemptionService(tokens *store.TokenStore, reset *store.ResetSignal) *RedemptionService {
	return &RedemptionService{tokens: tokens, reset: reset}
}

// Mint creates a redemption token from a finalized session snapshot and
// returns it together with the QR payload for the kiosk to render.
func (s *RedemptionService) Mint(snapshot *model.SessionSnapshot) (*model.RedemptionToken, string, error) {
	token, err := s.tokens.Mint(snapshot)
	if err != nil {
		return nil, "", err
	}

	payload := model.QRPayload{Points: token.Points, Code: token.Code}

	log.Info().
		Str("code", util.MaskCode(token.Code)).
		Int("points", token.Points).
		Msg("redemption token minted")
	return token, payload.Encode(), nil
}

// Claim consumes a token. Unknown, already-claimed and expired codes are
// all reported identically so a claimant gets no enumeration feedback.
func (s *RedemptionService) Claim(code, deviceID string) (int, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return 0, apperrors.MissingRequired("code")
	}

	token, ok := s.tokens.Claim(normalized)
	if !ok {
		log.Warn().
			Str("code", util.MaskCode(normalized)).
			Str("deviceId", deviceID).
			Msg("claim rejected")
		return 0, apperrors.InvalidCode()
	}

	s.reset.Set()

	log.Info().
		Str("code", util.MaskCode(normalized)).
		Str("deviceId", deviceID).
		Int("points", token.Points).
		Msg("redemption token claimed")
	return token.Points, nil
}

// ShouldReset reports and consumes the kiosk reset signal.
func (s *RedemptionService) ShouldReset() bool {
	return s.reset.PollAndConsume()
}
