package repos

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"

	"wedsnap/internal/domain"
)

type SettingsRepo struct{ db *sqlx.DB }

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

type settingsRow struct {
	SellerID       string  `db:"seller_id"`
	ExpressPercent float64 `db:"express_percent"`
	UpdatedAt      string  `db:"updated_at"`
}

type priceRow struct {
	Key   string `db:"price_key"`
	Price int64  `db:"unit_price"`
}

// Get returns sql.ErrNoRows when the seller has never saved settings.
func (r *SettingsRepo) Get(ctx context.Context, sellerID string) (domain.EstimateSettings, error) {
	var row settingsRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT seller_id, express_percent, COALESCE(updated_at, created_at, '') AS updated_at
		FROM estimate_settings
		WHERE seller_id = ?
	`), sellerID); err != nil {
		return domain.EstimateSettings{}, err
	}

	var prices []priceRow
	if err := r.db.SelectContext(ctx, &prices, r.db.Rebind(`
		SELECT price_key, unit_price FROM estimate_prices WHERE seller_id = ?
	`), sellerID); err != nil {
		return domain.EstimateSettings{}, err
	}

	pct := row.ExpressPercent
	s := domain.EstimateSettings{
		SellerID:       row.SellerID,
		Prices:         make(map[string]int64, len(prices)),
		ExpressPercent: &pct,
		UpdatedAt:      row.UpdatedAt,
	}
	for _, p := range prices {
		s.Prices[p.Key] = p.Price
	}
	return s, nil
}

// Save replaces the seller's settings and full price table atomically.
// A nil ExpressPercent is stored as defaultPct.
func (r *SettingsRepo) Save(ctx context.Context, s domain.EstimateSettings, defaultPct float64) error {
	pct := defaultPct
	if s.ExpressPercent != nil {
		pct = *s.ExpressPercent
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO estimate_settings(seller_id, express_percent, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(seller_id) DO UPDATE SET
		  express_percent = excluded.express_percent,
		  updated_at = CURRENT_TIMESTAMP
	`), s.SellerID, pct); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM estimate_prices WHERE seller_id = ?`), s.SellerID); err != nil {
		return err
	}

	keys := make([]string, 0, len(s.Prices))
	for k := range s.Prices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ins := tx.Rebind(`INSERT INTO estimate_prices(seller_id, price_key, unit_price) VALUES (?, ?, ?)`)
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, ins, s.SellerID, k, s.Prices[k]); err != nil {
			return err
		}
	}
	return tx.Commit()
}
