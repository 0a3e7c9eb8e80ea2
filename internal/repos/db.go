package repos

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"wedsnap/internal/estimate"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDB connects, applies the schema and runs the idempotent seeds.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "", DriverSQLite:
		driver = DriverSQLite
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one connection: ":memory:" databases are per connection and
		// sqlite serializes writers anyway
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if err := seedCatalog(db); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	if err := seedUsers(db); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	if err := seedGigs(db); err != nil {
		return nil, fmt.Errorf("seed gigs: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	if db.DriverName() == DriverSQLite {
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			return err
		}
	}
	schema := `
-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('BUYER','SELLER','ADMIN')),
  city TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- System catalog (packages and features)
CREATE TABLE IF NOT EXISTS catalog_entries(
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL CHECK (kind IN ('PACKAGE','FEATURE')),
  category TEXT NOT NULL DEFAULT '',
  tier TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  unit_price BIGINT NOT NULL CHECK (unit_price >= 0),
  sort_order INTEGER NOT NULL DEFAULT 0
);

-- Seller estimate settings
CREATE TABLE IF NOT EXISTS estimate_settings(
  seller_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
  express_percent DOUBLE PRECISION NOT NULL CHECK (express_percent >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS estimate_prices(
  seller_id TEXT NOT NULL REFERENCES estimate_settings(seller_id) ON DELETE CASCADE,
  price_key TEXT NOT NULL,
  unit_price BIGINT NOT NULL CHECK (unit_price >= 0),
  PRIMARY KEY (seller_id, price_key)
);

-- Gigs
CREATE TABLE IF NOT EXISTS gigs(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  service_type TEXT NOT NULL CHECK (service_type IN ('photography','videography','both')),
  city TEXT NOT NULL DEFAULT '',
  starting_price BIGINT NOT NULL DEFAULT 0 CHECK (starting_price >= 0),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_gigs_seller  ON gigs(seller_id);
CREATE INDEX IF NOT EXISTS idx_gigs_title   ON gigs(LOWER(title));
CREATE INDEX IF NOT EXISTS idx_gigs_service ON gigs(service_type);
CREATE INDEX IF NOT EXISTS idx_gigs_city    ON gigs(LOWER(city));

-- Booking requests. seller_id carries no foreign key so a deleted seller's
-- bookings stay on record; DeleteUserCascade cancels the pending ones.
CREATE TABLE IF NOT EXISTS bookings(
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  gig_id TEXT NOT NULL DEFAULT '',
  buyer_name TEXT NOT NULL,
  buyer_email TEXT NOT NULL,
  event_date TEXT NOT NULL,
  selection_json TEXT NOT NULL,
  subtotal BIGINT NOT NULL,
  express_surcharge BIGINT NOT NULL,
  total BIGINT NOT NULL,
  client_total BIGINT NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'PENDING',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_bookings_seller  ON bookings(seller_id);
CREATE INDEX IF NOT EXISTS idx_bookings_session ON bookings(session_id);
CREATE INDEX IF NOT EXISTS idx_bookings_created ON bookings(created_at);

CREATE TABLE IF NOT EXISTS booking_lines(
  booking_id TEXT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
  line_no INTEGER NOT NULL,
  kind TEXT NOT NULL,
  item_id TEXT NOT NULL,
  name TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit_price BIGINT NOT NULL,
  amount BIGINT NOT NULL,
  PRIMARY KEY (booking_id, line_no)
);
`
	_, err := db.Exec(schema)
	return err
}

// seedCatalog upserts the system catalog so price or copy changes in code
// reach existing databases on the next start.
func seedCatalog(db *sqlx.DB) error {
	cat := estimate.DefaultCatalog()
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	q := tx.Rebind(`
		INSERT INTO catalog_entries(id, kind, category, tier, name, description, unit_price, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  kind = excluded.kind, category = excluded.category, tier = excluded.tier,
		  name = excluded.name, description = excluded.description,
		  unit_price = excluded.unit_price, sort_order = excluded.sort_order
	`)
	order := 0
	for _, p := range cat.Packages {
		order++
		if _, err := tx.Exec(q, p.ID, kindPackage, string(p.Category), string(p.Tier), p.Name, p.Description, p.BasePrice, order); err != nil {
			return err
		}
	}
	for _, f := range cat.Features {
		order++
		if _, err := tx.Exec(q, f.ID, kindFeature, "", "", f.Name, f.Description, f.UnitPrice, order); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedUsers ensures demo sellers, a buyer and an admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, City, Hash string
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	mk := func(id, email, name, role, city string) u {
		return u{ID: id, Email: email, Name: name, Role: role, City: city, Hash: string(hash)}
	}

	users := []u{
		mk("s-ayesha", "ayesha@wedsnap.test", "Ayesha Studio", "SELLER", "Lahore"),
		mk("s-bilal", "bilal@wedsnap.test", "Bilal Films", "SELLER", "Karachi"),
		mk("u-sara", "sara@wedsnap.test", "Sara", "BUYER", "Islamabad"),
		mk("u-admin", "admin@wedsnap.test", "Admin", "ADMIN", ""),
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	q := tx.Rebind(`
		INSERT INTO users(id,email,name,password_hash,role,city)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(email) DO NOTHING
	`)
	for _, x := range users {
		if _, err := tx.Exec(q, x.ID, x.Email, x.Name, x.Hash, x.Role, x.City); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func seedGigs(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM gigs`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	log.Println("[seed] inserting demo gigs")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	q := tx.Rebind(`
		INSERT INTO gigs(id, seller_id, title, description, service_type, city, starting_price, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(id) DO NOTHING
	`)
	gigs := [][]any{
		{"gig-ayesha-photo", "s-ayesha", "Wedding photography in Lahore", "Baraat, walima and mehndi coverage with same-week previews.", "photography", "Lahore", 15000},
		{"gig-ayesha-both", "s-ayesha", "Photo and film combo", "Our standard photo and video crews together for the full event.", "both", "Lahore", 60000},
		{"gig-bilal-video", "s-bilal", "Cinematic wedding films", "Highlight reels and full-length films shot on cinema cameras.", "videography", "Karachi", 20000},
	}
	for _, g := range gigs {
		if _, err := tx.Exec(q, g...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
