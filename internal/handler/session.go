package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/ecosort/kiosk-server-go/internal/errors"
	"github.com/ecosort/kiosk-server-go/internal/service"
)

// SessionHandler exposes the kiosk session lifecycle.
type SessionHandler struct {
	sessionService    *service.SessionService
	redemptionService *service.RedemptionService
}

func NewSessionHandler(sessionService *service.SessionService, redemptionService *service.RedemptionService) *SessionHandler {
	return &SessionHandler{
		sessionService:    sessionService,
		redemptionService: redemptionService,
	}
}

func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/generate", h.Generate)
	r.Post("/validate", h.Validate)
	r.Post("/add", h.Add)
	r.Post("/finalize", h.Finalize)
	r.Get("/{sessionID}", h.Get)

	return r
}

// POST /session/generate
func (h *SessionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, err := h.sessionService.Create()
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"sessionId": id})
}

type validateRequest struct {
	SessionID string `json:"sessionId"`
}

// POST /session/validate
//
// The kiosk polls this to reconcile its local state. Unknown and expired
// sessions are reported identically.
func (h *SessionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"valid": false,
			"error": "No sessionId provided",
		})
		return
	}

	view, err := h.sessionService.Validate(req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"valid": false,
			"error": "Session not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"session": map[string]any{
			"points":    view.Points,
			"itemCount": view.ItemCount,
		},
	})
}

type addItemRequest struct {
	SessionID string `json:"sessionId"`
	Item      string `json:"item"`
	Points    *int   `json:"points"`
}

// POST /session/add
func (h *SessionHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.SessionID == "" || req.Item == "" || req.Points == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request data"})
		return
	}

	total, err := h.sessionService.AddItem(req.SessionID, req.Item, *req.Points)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Invalid or expired session"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"totalPoints": total,
	})
}

// GET /session/{sessionID}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	view, err := h.sessionService.Get(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

type finalizeRequest struct {
	SessionID string `json:"sessionId"`
}

// POST /session/finalize
//
// The single hand-off point: snapshots the session, destroys it, and
// mints the redemption token embedded in the kiosk's QR code.
func (h *SessionHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req finalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeError(w, apperrors.MissingRequired("sessionId"))
		return
	}

	snapshot, err := h.sessionService.Finalize(req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	token, qrData, err := h.redemptionService.Mint(snapshot)
	if err != nil {
		log.Error().Err(err).Msg("failed to mint redemption token")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"code":    token.Code,
		"points":  token.Points,
		"qrData":  qrData,
	})
}
