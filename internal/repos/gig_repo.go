package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"wedsnap/internal/domain"
)

type GigRepo struct{ db *sqlx.DB }

func NewGigRepo(db *sqlx.DB) *GigRepo { return &GigRepo{db: db} }

const gigSelect = `
  SELECT
    g.id, g.seller_id, u.name AS seller_name, g.title, g.description, g.service_type, g.city,
    g.starting_price, g.active, g.created_at, COALESCE(g.updated_at,'') AS updated_at
  FROM gigs g
  JOIN users u ON u.id = g.seller_id`

func (r *GigRepo) Create(ctx context.Context, g domain.Gig) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO gigs(id, seller_id, title, description, service_type, city, starting_price, active, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, 1, CURRENT_TIMESTAMP)
	`), g.ID, g.SellerID, g.Title, g.Description, string(g.ServiceType), g.City, g.StartingPrice)
	return err
}

func (r *GigRepo) Get(ctx context.Context, id string) (domain.Gig, error) {
	var g domain.Gig
	err := r.db.GetContext(ctx, &g, r.db.Rebind(gigSelect+` WHERE g.id = ?`), id)
	return g, err
}

func (r *GigRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.Gig, error) {
	out := []domain.Gig{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(gigSelect+`
	  WHERE g.seller_id = ?
	  ORDER BY g.created_at DESC, g.id`), sellerID)
	return out, err
}

// SetStartingPrice refreshes the cached "from" price shown in listings.
func (r *GigRepo) SetStartingPrice(ctx context.Context, id string, price int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE gigs SET starting_price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`), price, id)
	return err
}

type GigFilter struct {
	Q           string
	ServiceType domain.ServiceType
	City        string
	SellerID    string
}

// Search lists active gigs. Q matches title or description, case-insensitive.
func (r *GigRepo) Search(ctx context.Context, f GigFilter, limit, offset int) ([]domain.Gig, error) {
	where := `g.active = 1`
	args := []any{}
	if f.Q != "" {
		where += ` AND (LOWER(g.title) LIKE ? OR LOWER(g.description) LIKE ?)`
		args = append(args, "%"+f.Q+"%", "%"+f.Q+"%")
	}
	if f.ServiceType != "" {
		where += ` AND g.service_type = ?`
		args = append(args, string(f.ServiceType))
	}
	if f.City != "" {
		where += ` AND LOWER(g.city) = LOWER(?)`
		args = append(args, f.City)
	}
	if f.SellerID != "" {
		where += ` AND g.seller_id = ?`
		args = append(args, f.SellerID)
	}
	query := gigSelect + `
  WHERE ` + where + `
  ORDER BY g.created_at DESC, g.id
  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []domain.Gig{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...)
	return out, err
}
