package repos

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenDB opens the sqlite database at dsn and makes sure the schema exists.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One logical actor; a single connection also keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	log.Printf("[db] opened %s", dsn)
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS devices(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  model TEXT,
  category TEXT,
  videocard_type TEXT,
  price TEXT,
  cpu TEXT,
  ram_gb INTEGER,
  storage_gb INTEGER,
  screen_inch REAL,
  battery_wh INTEGER,
  psu_watt INTEGER,
  case_format TEXT
);
CREATE INDEX IF NOT EXISTS idx_devices_category ON devices(category);
`
	_, err := db.Exec(schema)
	return err
}

// withTx runs fn inside one transaction. The transaction is always released:
// committed when fn succeeds, rolled back otherwise.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
