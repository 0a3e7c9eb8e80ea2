package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrStatusConflict means the booking exists but was not in the expected
// status, so the transition was not applied.
var ErrStatusConflict = errors.New("booking status changed")

const (
	BookingPending  = "PENDING"
	BookingAccepted = "ACCEPTED"
	BookingDeclined = "DECLINED"
	BookingCanceled = "CANCELED"
)

type BookingRepo struct{ db *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

// ---------- Inbox / list summary ----------
type BookingSummary struct {
	ID         string `db:"id" json:"id"`
	SessionID  string `db:"session_id" json:"-"`
	SellerID   string `db:"seller_id" json:"sellerId"`
	BuyerName  string `db:"buyer_name" json:"buyerName"`
	BuyerEmail string `db:"buyer_email" json:"buyerEmail"`
	EventDate  string `db:"event_date" json:"eventDate"`
	Total      int64  `db:"total" json:"total"`
	Status     string `db:"status" json:"status"`
	CreatedAt  string `db:"created_at" json:"createdAt"`
}

// ---------- Booking detail ----------
type BookingRow struct {
	ID               string `db:"id" json:"id"`
	SessionID        string `db:"session_id" json:"-"`
	UserID           string `db:"user_id" json:"-"`
	SellerID         string `db:"seller_id" json:"sellerId"`
	GigID            string `db:"gig_id" json:"gigId,omitempty"`
	BuyerName        string `db:"buyer_name" json:"buyerName"`
	BuyerEmail       string `db:"buyer_email" json:"buyerEmail"`
	EventDate        string `db:"event_date" json:"eventDate"`
	SelectionJSON    string `db:"selection_json" json:"-"`
	Subtotal         int64  `db:"subtotal" json:"subtotal"`
	ExpressSurcharge int64  `db:"express_surcharge" json:"expressSurcharge"`
	Total            int64  `db:"total" json:"total"`
	ClientTotal      int64  `db:"client_total" json:"-"`
	Status           string `db:"status" json:"status"`
	CreatedAt        string `db:"created_at" json:"createdAt"`
}

type BookingLineRow struct {
	LineNo    int    `db:"line_no" json:"-"`
	Kind      string `db:"kind" json:"kind"`
	ItemID    string `db:"item_id" json:"itemId"`
	Name      string `db:"name" json:"name"`
	Qty       int    `db:"qty" json:"qty"`
	UnitPrice int64  `db:"unit_price" json:"unitPrice"`
	Amount    int64  `db:"amount" json:"amount"`
}

// Create inserts the booking header and its priced lines in one transaction.
func (r *BookingRepo) Create(ctx context.Context, b BookingRow, lines []BookingLineRow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
	  INSERT INTO bookings
	    (id, session_id, seller_id, gig_id, buyer_name, buyer_email, event_date, selection_json,
	     subtotal, express_surcharge, total, client_total, status, created_at)
	  VALUES
	    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'PENDING', CURRENT_TIMESTAMP)
	`), b.ID, b.SessionID, b.SellerID, b.GigID, b.BuyerName, b.BuyerEmail, b.EventDate, b.SelectionJSON,
		b.Subtotal, b.ExpressSurcharge, b.Total, b.ClientTotal); err != nil {
		return err
	}

	ins := tx.Rebind(`
	  INSERT INTO booking_lines(booking_id, line_no, kind, item_id, name, qty, unit_price, amount)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for i, l := range lines {
		if _, err := tx.ExecContext(ctx, ins, b.ID, i+1, l.Kind, l.ItemID, l.Name, l.Qty, l.UnitPrice, l.Amount); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *BookingRepo) Get(ctx context.Context, id string) (BookingRow, []BookingLineRow, error) {
	var b BookingRow
	if err := r.db.GetContext(ctx, &b, r.db.Rebind(`
		SELECT b.id, b.session_id, COALESCE(s.user_id,'') AS user_id, b.seller_id, b.gig_id,
		       b.buyer_name, b.buyer_email, b.event_date, b.selection_json,
		       b.subtotal, b.express_surcharge, b.total, b.client_total, b.status, b.created_at
		FROM bookings b
		LEFT JOIN sessions s ON s.id = b.session_id
		WHERE b.id = ?
	`), id); err != nil {
		return BookingRow{}, nil, err
	}

	lines := []BookingLineRow{}
	if err := r.db.SelectContext(ctx, &lines, r.db.Rebind(`
		SELECT line_no, kind, item_id, name, qty, unit_price, amount
		FROM booking_lines
		WHERE booking_id = ?
		ORDER BY line_no
	`), id); err != nil {
		return BookingRow{}, nil, err
	}
	return b, lines, nil
}

const bookingSummaryCols = `b.id, b.session_id, b.seller_id, b.buyer_name, b.buyer_email, b.event_date, b.total, b.status, b.created_at`

func (r *BookingRepo) ListLatest(ctx context.Context, limit int) ([]BookingSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []BookingSummary{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT `+bookingSummaryCols+`
		FROM bookings b
		ORDER BY b.created_at DESC, b.id
		LIMIT ?
	`), limit)
	return out, err
}

// ListBySeller is the seller's inbox. An empty status lists all.
func (r *BookingRepo) ListBySeller(ctx context.Context, sellerID, status string) ([]BookingSummary, error) {
	query := `SELECT ` + bookingSummaryCols + ` FROM bookings b WHERE b.seller_id = ?`
	args := []any{sellerID}
	if status != "" {
		query += ` AND b.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY b.created_at DESC, b.id`
	out := []BookingSummary{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...)
	return out, err
}

// ListBySession returns bookings made from one browser session.
func (r *BookingRepo) ListBySession(ctx context.Context, sessionID string) ([]BookingSummary, error) {
	out := []BookingSummary{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
		SELECT `+bookingSummaryCols+`
		FROM bookings b
		WHERE b.session_id = ?
		ORDER BY b.created_at DESC, b.id
	`), sessionID)
	return out, err
}

// Transition moves a booking from one status to another. It returns
// sql.ErrNoRows when the booking does not exist and ErrStatusConflict when
// it is not currently in from.
func (r *BookingRepo) Transition(ctx context.Context, id, from, to string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`), to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, r.db.Rebind(`SELECT COUNT(*) FROM bookings WHERE id = ?`), id); err != nil {
		return err
	}
	if exists == 0 {
		return sql.ErrNoRows
	}
	return ErrStatusConflict
}
