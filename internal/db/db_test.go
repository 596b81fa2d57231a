package db

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "auditkit-test-*")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	database, err := Open(filepath.Join(tmpDir, "audit.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database
}

func TestGetMissing(t *testing.T) {
	database := setupTestDB(t)

	_, ok, err := database.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("missing key reported as present")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	database := setupTestDB(t)

	if err := database.Set(KeyContent, `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := database.Get(KeyContent)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("key not found after set")
	}
	if value != `{"a":1}` {
		t.Errorf("value = %q, want %q", value, `{"a":1}`)
	}

	// Overwrite
	if err := database.Set(KeyContent, `{"a":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, _, _ = database.Get(KeyContent)
	if value != `{"a":2}` {
		t.Errorf("overwritten value = %q, want %q", value, `{"a":2}`)
	}
}

func TestDelete(t *testing.T) {
	database := setupTestDB(t)

	if err := database.Set(KeyAdminSession, "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := database.Delete(KeyAdminSession); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, ok, _ := database.Get(KeyAdminSession)
	if ok {
		t.Error("key still present after delete")
	}

	// Deleting again is fine
	if err := database.Delete(KeyAdminSession); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestVersionRecorded(t *testing.T) {
	database := setupTestDB(t)

	version, err := database.Version()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("version = %d, want %d", version, schemaVersion)
	}
}
