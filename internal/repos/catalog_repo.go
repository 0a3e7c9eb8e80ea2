package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"wedsnap/internal/domain"
)

const (
	kindPackage = "PACKAGE"
	kindFeature = "FEATURE"
)

type CatalogRepo struct{ db *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// Load returns the catalog in display order. The result is a fresh value;
// callers may hand it to the estimate engine without copying.
func (r *CatalogRepo) Load(ctx context.Context) (domain.Catalog, error) {
	cat := domain.Catalog{Packages: []domain.Package{}, Features: []domain.Feature{}}
	if err := r.db.SelectContext(ctx, &cat.Packages, r.db.Rebind(`
	  SELECT id, category, tier, name, description, unit_price
	  FROM catalog_entries
	  WHERE kind = ?
	  ORDER BY sort_order, id
	`), kindPackage); err != nil {
		return domain.Catalog{}, err
	}
	if err := r.db.SelectContext(ctx, &cat.Features, r.db.Rebind(`
	  SELECT id, name, description, unit_price
	  FROM catalog_entries
	  WHERE kind = ?
	  ORDER BY sort_order, id
	`), kindFeature); err != nil {
		return domain.Catalog{}, err
	}
	return cat, nil
}
