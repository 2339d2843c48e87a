package repository

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// testSchema mirrors the Postgres migrations closely enough for the
// repository queries; tests run against a throwaway SQLite file.
const testSchema = `
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    email         TEXT UNIQUE NOT NULL,
    full_name     TEXT,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    is_active     BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE visits (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    created_by       TEXT,
    arrival_date     TEXT NOT NULL,
    expected_time    TEXT,
    host_employee    TEXT NOT NULL,
    phone            TEXT,
    object_name      TEXT NOT NULL,
    guest_name       TEXT NOT NULL,
    document_number  TEXT,
    vehicle_plate    TEXT,
    note             TEXT,
    persons_count    INTEGER,
    entry_time       TEXT,
    exit_time        TEXT,
    status           TEXT
);

CREATE TABLE trucks (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    created_by         TEXT,
    driver_name        TEXT NOT NULL,
    driver_document    TEXT,
    codriver_name      TEXT,
    codriver_document  TEXT,
    driver_phone       TEXT,
    plate              TEXT NOT NULL,
    destination        TEXT NOT NULL,
    arrival_date       TEXT NOT NULL,
    arrival_time       TEXT NOT NULL,
    departure_datetime TEXT
);

CREATE TABLE lookups (
    id    INTEGER PRIMARY KEY AUTOINCREMENT,
    type  TEXT NOT NULL,
    value TEXT NOT NULL
);
`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "gatelog_test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create test schema: %v", err)
	}
	return db
}

func str(s string) *string { return &s }
