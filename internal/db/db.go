package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = 1

const schema = `
-- String-keyed storage blobs (content, responses, sync settings, admin session)
CREATE TABLE IF NOT EXISTS storage (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Schema bookkeeping
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Well-known storage keys.
const (
	KeyContent      = "content"
	KeyResponses    = "responses"
	KeySyncSettings = "sync-settings"
	KeyAdminSession = "admin-session"
)

// DB wraps the SQLite connection backing all local persistence.
type DB struct {
	*sql.DB
	path string
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	database := &DB{DB: conn, path: path}
	if err := database.Init(); err != nil {
		conn.Close()
		return nil, err
	}
	return database, nil
}

// Init creates tables and records the schema version.
func (d *DB) Init() error {
	if _, err := d.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	current, err := d.Version()
	if err != nil {
		return err
	}
	if current < schemaVersion {
		if err := d.setVersion(schemaVersion); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Version returns the recorded schema version (0 when unset).
func (d *DB) Version() (int, error) {
	var value string
	err := d.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse schema version: %w", err)
	}
	return version, nil
}

func (d *DB) setVersion(version int) error {
	_, err := d.Exec(
		`INSERT INTO metadata (key, value, updated_at) VALUES ('schema_version', ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		strconv.Itoa(version),
	)
	if err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

// Get returns the stored value for key. The second result reports presence.
func (d *DB) Get(key string) (string, bool, error) {
	var value string
	err := d.QueryRow(`SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (d *DB) Set(key, value string) error {
	_, err := d.Exec(
		`INSERT INTO storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (d *DB) Delete(key string) error {
	if _, err := d.Exec(`DELETE FROM storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
