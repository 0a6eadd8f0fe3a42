package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ecosort/kiosk-server-go/internal/service"
)

// RedemptionHandler exposes claiming and the kiosk reset handshake.
type RedemptionHandler struct {
	redemptionService *service.RedemptionService
}

func NewRedemptionHandler(redemptionService *service.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{redemptionService: redemptionService}
}

type claimRequest struct {
	Code     string `json:"code"`
	DeviceID string `json:"deviceId"`
}

// POST /qr/claim
//
// All claim failures look the same to the caller: "invalid" covers
// never-existed, already-claimed and expired alike, with a 200 status so
// scanners treat it as an answer, not a transport error.
func (h *RedemptionHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "No QR code provided",
		})
		return
	}

	points, err := h.redemptionService.Claim(req.Code, req.DeviceID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   "Invalid QR code",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"points":  points,
	})
}

// GET /kiosk/should-reset
func (h *RedemptionHandler) ShouldReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"shouldReset": h.redemptionService.ShouldReset(),
	})
}
