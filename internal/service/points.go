package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ecosort/kiosk-server-go/internal/model"
	"github.com/ecosort/kiosk-server-go/internal/repository"
)

// PointsService resolves how many points a waste type is worth. The
// catalog database is optional; without one, or when a lookup fails, the
// built-in catalog answers instead. Lookups never fail: the kiosk flow
// must not stall because the catalog is unreachable.
type PointsService struct {
	catalog  repository.WasteTypeRepository
	fallback map[string]model.WasteType
}

func NewPointsService(catalog repository.WasteTypeRepository) *PointsService {
	fallback := make(map[string]model.WasteType, len(model.DefaultCatalog))
	for _, wt := range model.DefaultCatalog {
		fallback[wt.Name] = wt
	}
	return &PointsService{catalog: catalog, fallback: fallback}
}

// Resolve returns the point value for a waste type.
func (s *PointsService) Resolve(ctx context.Context, wasteType string) int {
	if s.catalog != nil {
		wt, err := s.catalog.FindByName(ctx, wasteType)
		if err != nil {
			log.Warn().Err(err).Str("wasteType", wasteType).Msg("catalog lookup failed, using fallback points")
		} else if wt != nil {
			return wt.Points
		}
	}

	if wt, ok := s.fallback[wasteType]; ok {
		return wt.Points
	}
	return model.DefaultItemPoints
}

// List returns the full catalog for the kiosk's points table.
func (s *PointsService) List(ctx context.Context) []model.WasteType {
	if s.catalog != nil {
		types, err := s.catalog.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("catalog list failed, using fallback catalog")
		} else if len(types) > 0 {
			return types
		}
	}

	out := make([]model.WasteType, len(model.DefaultCatalog))
	copy(out, model.DefaultCatalog)
	return out
}
