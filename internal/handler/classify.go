package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/ecosort/kiosk-server-go/internal/errors"
	"github.com/ecosort/kiosk-server-go/internal/service"
)

// ClassifyHandler bridges the kiosk camera to the image classifier and
// the points catalog.
type ClassifyHandler struct {
	classifierService *service.ClassifierService
	pointsService     *service.PointsService
}

func NewClassifyHandler(classifierService *service.ClassifierService, pointsService *service.PointsService) *ClassifyHandler {
	return &ClassifyHandler{
		classifierService: classifierService,
		pointsService:     pointsService,
	}
}

type classifyRequest struct {
	Image string `json:"image"`
}

// POST /classify
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		writeError(w, apperrors.MissingRequired("image"))
		return
	}

	result := h.classifierService.Classify(r.Context(), req.Image)
	points := h.pointsService.Resolve(r.Context(), result.WasteType)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"wasteType":  result.WasteType,
		"confidence": result.Confidence,
		"points":     points,
	})
}

// GET /catalog/waste-types
func (h *ClassifyHandler) ListWasteTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"wasteTypes": h.pointsService.List(r.Context()),
	})
}
