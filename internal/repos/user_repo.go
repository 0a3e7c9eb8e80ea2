package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"wedsnap/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,name,password_hash,role,city`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`), email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+userCols+` FROM users WHERE id=?`), id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) BindSession(ctx context.Context, sid, userID string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`), sid, userID)
	return err
}

func (r *UserRepo) SessionUser(ctx context.Context, sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`
      SELECT u.id,u.email,u.name,u.password_hash,u.role,u.city
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`), sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`), sid)
	return err
}

// UserSummary is the admin listing row.
type UserSummary struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Role  string `db:"role" json:"role"`
	City  string `db:"city" json:"city"`
}

// ListNonAdmin lists buyers and sellers ordered by email.
func (r *UserRepo) ListNonAdmin(ctx context.Context) ([]UserSummary, error) {
	out := []UserSummary{}
	err := r.DB.SelectContext(ctx, &out, `SELECT id,email,name,role,city FROM users WHERE role != 'ADMIN' ORDER BY email`)
	return out, err
}

// DeleteUserCascade removes a user. Pending bookings made from the user's
// sessions or sent to the user as a seller are canceled and kept for audit;
// sessions are deleted. A seller's gigs and settings go with the user row.
func (r *UserRepo) DeleteUserCascade(ctx context.Context, userID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var sessionIDs []string
	if err := tx.SelectContext(ctx, &sessionIDs, tx.Rebind(`SELECT id FROM sessions WHERE user_id=?`), userID); err != nil {
		return err
	}

	if len(sessionIDs) > 0 {
		query, args, err := sqlx.In(`UPDATE bookings SET status='CANCELED', updated_at=CURRENT_TIMESTAMP WHERE status='PENDING' AND session_id IN (?)`, sessionIDs)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return err
		}
		query, args, err = sqlx.In(`DELETE FROM sessions WHERE id IN (?)`, sessionIDs)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return err
		}
	}

	// bookings sent to the user as a seller are kept for the record
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE bookings SET status='CANCELED', updated_at=CURRENT_TIMESTAMP WHERE status='PENDING' AND seller_id=?`), userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM users WHERE id=?`), userID); err != nil {
		return err
	}
	return tx.Commit()
}
