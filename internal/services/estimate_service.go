package services

import (
	"context"

	"wedsnap/internal/domain"
	"wedsnap/internal/estimate"
	"wedsnap/internal/repos"
)

// EstimateService feeds the engine a catalog and settings snapshot.
type EstimateService struct {
	Settings *SettingsService
	Catalog  *repos.CatalogRepo
}

func NewEstimateService(settings *SettingsService, catalog *repos.CatalogRepo) *EstimateService {
	return &EstimateService{Settings: settings, Catalog: catalog}
}

// Snapshot loads the inputs for one calculator session. An empty sellerID
// yields empty settings, which price everything at system defaults.
func (s *EstimateService) Snapshot(ctx context.Context, sellerID string) (domain.Catalog, domain.EstimateSettings, error) {
	cat, err := s.Catalog.Load(ctx)
	if err != nil {
		return domain.Catalog{}, domain.EstimateSettings{}, err
	}
	if sellerID == "" {
		return cat, domain.EstimateSettings{}, nil
	}
	settings, err := s.Settings.Get(ctx, sellerID)
	if err != nil {
		return domain.Catalog{}, domain.EstimateSettings{}, err
	}
	return cat, settings, nil
}

// Quote prices sel for a seller. Engine errors wrap
// estimate.ErrInvalidSelection.
func (s *EstimateService) Quote(ctx context.Context, sellerID string, sel domain.EstimateSelection) (domain.EstimateResult, error) {
	cat, settings, err := s.Snapshot(ctx, sellerID)
	if err != nil {
		return domain.EstimateResult{}, err
	}
	return estimate.Compute(cat, settings, sel)
}
