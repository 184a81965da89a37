package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (or creates) the sqlite database file, verifies the
// connection and applies the schema migration. Use ":memory:" in tests.
func Open(path string) (*sql.DB, error) {
	// _busy_timeout lets a second writer wait instead of failing with
	// SQLITE_BUSY; foreign keys are off by default in sqlite.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer; one pooled connection serializes
	// access and keeps ":memory:" databases from splitting per connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// migrate creates the schema when missing. Idempotent.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS accounts (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS energy_records (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            date TEXT NOT NULL,
            co2 REAL NOT NULL,
            trees INTEGER NOT NULL,
            total_energy REAL NOT NULL,
            daily_energy REAL NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_energy_records_date ON energy_records(date DESC);
        CREATE TABLE IF NOT EXISTS refresh_tokens (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            account_id INTEGER NOT NULL,
            token_hash TEXT UNIQUE NOT NULL,
            expires_at DATETIME NOT NULL,
            revoked_at DATETIME,
            FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE
        );
    `)
	return err
}
