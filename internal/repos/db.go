package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA journal_mode = WAL;
PRAGMA busy_timeout = 5000;

-- Small key/value documents (catalog overrides)
CREATE TABLE IF NOT EXISTS kv(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Bookkeeping
CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL CHECK (kind IN ('product','service')),
  ref_id TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  amount_uah REAL NOT NULL CHECK (amount_uah >= 0),
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_ref ON sales(kind, ref_id, created_at);

CREATE TABLE IF NOT EXISTS service_orders(
  id TEXT PRIMARY KEY,
  service_id TEXT NOT NULL,
  service_title TEXT NOT NULL,
  amount_uah REAL NOT NULL CHECK (amount_uah >= 0),
  owner_name TEXT NOT NULL,
  owner_phone TEXT NOT NULL DEFAULT '',
  car_make TEXT NOT NULL DEFAULT '',
  car_model TEXT NOT NULL DEFAULT '',
  car_year INTEGER,
  vin TEXT NOT NULL DEFAULT '',
  plate TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_service_orders_created ON service_orders(created_at);

CREATE TABLE IF NOT EXISTS cars(
  id TEXT PRIMARY KEY,
  owner_name TEXT NOT NULL,
  owner_phone TEXT NOT NULL DEFAULT '',
  make TEXT NOT NULL DEFAULT '',
  model TEXT NOT NULL DEFAULT '',
  year INTEGER,
  vin TEXT NOT NULL DEFAULT '',
  plate TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cars_created ON cars(created_at);
`
	_, err := db.Exec(schema)
	return err
}
