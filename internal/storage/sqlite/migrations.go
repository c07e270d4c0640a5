package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// The entries table uses an AUTOINCREMENT sequence as its ordering key so
// that appends from concurrent connections keep a stable arrival order.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS raffles (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    ticket_price REAL NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    creator_id TEXT NOT NULL,
    creator_name TEXT NOT NULL,
    creator_bio TEXT NOT NULL DEFAULT '',
    winner_entry_id TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    raffle_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (raffle_id) REFERENCES raffles(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_entries_raffle_id ON entries(raffle_id);
CREATE INDEX IF NOT EXISTS idx_raffles_created_at ON raffles(created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
