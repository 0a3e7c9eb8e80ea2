package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"wedsnap/internal/domain"
	"wedsnap/internal/estimate"
	applog "wedsnap/internal/log"
	"wedsnap/internal/repos"
)

// SettingsStore is a snapshot cache in front of the settings table.
type SettingsStore interface {
	Get(ctx context.Context, sellerID string) (domain.EstimateSettings, bool, error)
	Set(ctx context.Context, s domain.EstimateSettings, ttl time.Duration) error
	Delete(ctx context.Context, sellerID string) error
}

type SettingsService struct {
	Repo    *repos.SettingsRepo
	Users   *repos.UserRepo
	Catalog *repos.CatalogRepo
	Cache   SettingsStore // optional
	TTL     time.Duration
}

func NewSettingsService(repo *repos.SettingsRepo, users *repos.UserRepo, catalog *repos.CatalogRepo, cache SettingsStore, ttl time.Duration) *SettingsService {
	return &SettingsService{Repo: repo, Users: users, Catalog: catalog, Cache: cache, TTL: ttl}
}

// SettingsUpdate is a partial update: only listed prices change and a nil
// ExpressPercent keeps the current value.
type SettingsUpdate struct {
	Prices         map[string]int64
	ExpressPercent *float64
}

// Get returns the seller's settings, creating them from the system
// defaults on first fetch. Unknown sellers and non-sellers yield
// ErrNotFound.
func (s *SettingsService) Get(ctx context.Context, sellerID string) (domain.EstimateSettings, error) {
	if s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx, sellerID)
		if err != nil {
			applog.L().Warn("settings.cache.get.fail", zap.String("seller_id", sellerID), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	out, err := s.Repo.Get(ctx, sellerID)
	if errors.Is(err, sql.ErrNoRows) {
		out, err = s.createDefaults(ctx, sellerID)
	}
	if err != nil {
		return domain.EstimateSettings{}, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, out, s.TTL); err != nil {
			applog.L().Warn("settings.cache.set.fail", zap.String("seller_id", sellerID), zap.Error(err))
		}
	}
	return out, nil
}

func (s *SettingsService) createDefaults(ctx context.Context, sellerID string) (domain.EstimateSettings, error) {
	u, err := s.Users.ByID(ctx, sellerID)
	if err != nil {
		return domain.EstimateSettings{}, notFound(err)
	}
	if u.Role != domain.RoleSeller {
		return domain.EstimateSettings{}, ErrNotFound
	}
	cat, err := s.Catalog.Load(ctx)
	if err != nil {
		return domain.EstimateSettings{}, err
	}
	pct := estimate.DefaultExpressPercent
	def := domain.EstimateSettings{SellerID: sellerID, Prices: estimate.DefaultPrices(cat), ExpressPercent: &pct}
	if err := s.Repo.Save(ctx, def, estimate.DefaultExpressPercent); err != nil {
		return domain.EstimateSettings{}, err
	}
	applog.L().Info("settings.defaults.created", zap.String("seller_id", sellerID))
	return s.Repo.Get(ctx, sellerID)
}

// Update validates and applies a seller's change. Prices must lie in
// [0,estimate.MaxPrice] and be keyed by a catalog entry or the extra-hour
// rate; the express percent must lie in [0,100].
func (s *SettingsService) Update(ctx context.Context, sellerID string, upd SettingsUpdate) (domain.EstimateSettings, error) {
	cur, err := s.Get(ctx, sellerID)
	if err != nil {
		return domain.EstimateSettings{}, err
	}
	cat, err := s.Catalog.Load(ctx)
	if err != nil {
		return domain.EstimateSettings{}, err
	}

	next := domain.EstimateSettings{SellerID: sellerID, Prices: make(map[string]int64, len(cur.Prices)+len(upd.Prices))}
	for k, v := range cur.Prices {
		next.Prices[k] = v
	}
	for k, v := range upd.Prices {
		if !estimate.KnownKey(cat, k) {
			return domain.EstimateSettings{}, fmt.Errorf("%w: unknown price key %q", ErrInvalidSettings, k)
		}
		if v < 0 {
			return domain.EstimateSettings{}, fmt.Errorf("%w: negative price for %q", ErrInvalidSettings, k)
		}
		if v > estimate.MaxPrice {
			return domain.EstimateSettings{}, fmt.Errorf("%w: price for %q above %d", ErrInvalidSettings, k, estimate.MaxPrice)
		}
		next.Prices[k] = v
	}

	next.ExpressPercent = cur.ExpressPercent
	if upd.ExpressPercent != nil {
		p := *upd.ExpressPercent
		if math.IsNaN(p) || p < 0 || p > 100 {
			return domain.EstimateSettings{}, fmt.Errorf("%w: express surcharge percent must be between 0 and 100", ErrInvalidSettings)
		}
		next.ExpressPercent = &p
	}

	if err := s.Repo.Save(ctx, next, estimate.DefaultExpressPercent); err != nil {
		return domain.EstimateSettings{}, err
	}
	s.Forget(ctx, sellerID)
	return s.Get(ctx, sellerID)
}

// Forget drops the cached copy of a seller's settings. A cache failure is
// logged and otherwise ignored; the entry still expires after TTL.
func (s *SettingsService) Forget(ctx context.Context, sellerID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, sellerID); err != nil {
		applog.L().Warn("settings.cache.delete.fail", zap.String("seller_id", sellerID), zap.Error(err))
	}
}
