package repos

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens a sqlite database (file path or ":memory:").
func OpenDB(dsn string) (*sqlx.DB, error) {
	return Open("sqlite", dsn)
}

// Open connects with driver "sqlite" or "postgres", ensures the schema and seeds
// demo data into an empty database.
func Open(driver, dsn string) (*sqlx.DB, error) {
	var schema string
	switch driver {
	case "sqlite":
		schema = sqliteSchema
	case "postgres":
		schema = postgresSchema
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// every new connection to ":memory:" would be a different database
		db.SetMaxOpenConns(1)
	}
	if err := prepare(db, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func prepare(db *sqlx.DB, schema string) error {
	if err := db.Ping(); err != nil {
		return err
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if err := seedUsers(db); err != nil {
		return err
	}
	return seedProductsIfEmpty(db)
}

const sqliteSchema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL CHECK (name <> ''),
  unit_price NUMERIC NOT NULL DEFAULT 0 CHECK (unit_price >= 0),
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f','now'))
);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('user','admin')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- value of the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS products(
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL CHECK (name <> ''),
  unit_price NUMERIC NOT NULL DEFAULT 0 CHECK (unit_price >= 0),
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('user','admin')),
  created_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TIMESTAMPTZ DEFAULT now(),
  last_seen  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`

// seedUsers ensures one admin and one regular account exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Username, Role, Hash string
	}
	mk := func(id, username, role, raw string) (u, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Username: username, Role: role, Hash: string(h)}, err
	}

	var users []u
	for _, x := range [][3]string{
		{"u-admin", "admin", "admin"},
		{"u-staff", "staff", "user"},
	} {
		usr, err := mk(x[0], x[1], x[2], "Passw0rd!")
		if err != nil {
			return err
		}
		users = append(users, usr)
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO users(id,username,password_hash,role)
			VALUES(?,?,?,?)
			ON CONFLICT(username) DO NOTHING
		`), x.ID, x.Username, x.Hash, x.Role); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func seedProductsIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range []struct {
		name  string
		price float64
		qty   int
	}{
		{"Robusta Coffee 250g", 50000, 40},
		{"Arabica Coffee 250g", 75000, 25},
		{"Paper Filter (100 pcs)", 18000, 120},
	} {
		if _, err := tx.Exec(tx.Rebind(`INSERT INTO products(name,unit_price,quantity) VALUES(?,?,?)`),
			p.name, p.price, p.qty); err != nil {
			return err
		}
	}
	return tx.Commit()
}
