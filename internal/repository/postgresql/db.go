package postgresql

import (
	"context"
	"errors"
	"fmt"

	"parkshare/internal/config"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// NewDB opens and pings the store with the driver named by DB_DRIVER: "pgx"
// for jackc/pgx or "postgres" for lib/pq.
func NewDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	uid               TEXT PRIMARY KEY,
	email             TEXT NOT NULL,
	name              TEXT NOT NULL,
	phone_number      TEXT,
	profile_image_url TEXT,
	role              TEXT NOT NULL DEFAULT 'finder',
	created_at        TIMESTAMPTZ NOT NULL,
	last_login_at     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS parking_spots (
	id                 TEXT PRIMARY KEY,
	address            TEXT NOT NULL,
	latitude           DOUBLE PRECISION NOT NULL,
	longitude          DOUBLE PRECISION NOT NULL,
	hourly_rate        DOUBLE PRECISION NOT NULL,
	is_available       BOOLEAN NOT NULL DEFAULT TRUE,
	availability_start TIMESTAMPTZ NOT NULL,
	availability_end   TIMESTAMPTZ NOT NULL,
	max_vehicle_size   TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	image_url          TEXT,
	owner_id           TEXT NOT NULL,
	owner_name         TEXT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS parking_spots_owner_id_idx ON parking_spots (owner_id);
CREATE INDEX IF NOT EXISTS parking_spots_is_available_idx ON parking_spots (is_available);

-- no foreign key on spot_id: deleting a spot leaves its bookings in place.
CREATE TABLE IF NOT EXISTS bookings (
	id             TEXT PRIMARY KEY,
	spot_id        TEXT NOT NULL,
	start_time     TIMESTAMPTZ NOT NULL,
	end_time       TIMESTAMPTZ NOT NULL,
	total_amount   DOUBLE PRECISION NOT NULL,
	status         TEXT NOT NULL,
	message        TEXT,
	owner_response TEXT,
	finder_id      TEXT NOT NULL,
	finder_name    TEXT NOT NULL,
	finder_email   TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	responded_at   TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS bookings_finder_id_idx ON bookings (finder_id);
CREATE INDEX IF NOT EXISTS bookings_spot_id_status_idx ON bookings (spot_id, status);
`

// Migrate creates the users, parking_spots and bookings tables if missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// isUniqueViolation recognizes a unique-constraint failure from either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
