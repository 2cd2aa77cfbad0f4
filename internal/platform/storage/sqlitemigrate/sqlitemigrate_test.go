package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyRecordsEachFileOnce(t *testing.T) {
	t.Parallel()

	db := openMemoryDB(t)
	migrations := fstest.MapFS{
		"001_sessions.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE sessions(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE sessions;")},
		"002_index.sql":    &fstest.MapFile{Data: []byte("CREATE INDEX sessions_id ON sessions(id);")},
		"README.md":        &fstest.MapFile{Data: []byte("not a migration")},
	}

	for range 2 {
		if err := Apply(context.Background(), db, migrations, ""); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 2 {
		t.Fatalf("recorded migrations = %d, want 2", got)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='sessions'"); got != 1 {
		t.Fatal("expected sessions table")
	}
}

func TestApplyLeavesFailedFileUnrecorded(t *testing.T) {
	t.Parallel()

	db := openMemoryDB(t)
	bad := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREAT TABLE things(id INT);")},
	}
	if err := Apply(context.Background(), db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 0 {
		t.Fatalf("recorded migrations = %d, want 0", got)
	}

	fixed := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE things(id INTEGER PRIMARY KEY);")},
	}
	if err := Apply(context.Background(), db, fixed, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 1 {
		t.Fatalf("recorded migrations = %d, want 1", got)
	}
}

func TestApplyKeysMigrationsByRoot(t *testing.T) {
	t.Parallel()

	db := openMemoryDB(t)
	migrations := fstest.MapFS{
		"migrations/001_sessions.sql": &fstest.MapFile{Data: []byte("CREATE TABLE sessions(id TEXT PRIMARY KEY);")},
	}
	if err := Apply(context.Background(), db, migrations, "migrations"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	var name string
	if err := db.QueryRow("SELECT name FROM schema_migrations").Scan(&name); err != nil {
		t.Fatalf("read migration name: %v", err)
	}
	if name != "migrations/001_sessions.sql" {
		t.Fatalf("name = %q", name)
	}
}

func TestApplyToleratesExistingTables(t *testing.T) {
	t.Parallel()

	db := openMemoryDB(t)
	if _, err := db.Exec("CREATE TABLE sessions(id TEXT PRIMARY KEY)"); err != nil {
		t.Fatalf("seed table: %v", err)
	}
	migrations := fstest.MapFS{
		"001_sessions.sql": &fstest.MapFile{Data: []byte("CREATE TABLE sessions(id TEXT PRIMARY KEY);")},
	}
	if err := Apply(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply: %v", err)
	}
}

func TestApplyRequiresDB(t *testing.T) {
	t.Parallel()

	if err := Apply(context.Background(), nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpSection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "SELECT 1;", want: "SELECT 1;"},
		{name: "up only", content: "-- +migrate Up\nSELECT 1;", want: "\nSELECT 1;"},
		{name: "up and down", content: "-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;", want: "\nSELECT 1;\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := UpSection(tc.content); got != tc.want {
				t.Fatalf("UpSection() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsAlreadyExists(t *testing.T) {
	t.Parallel()

	if IsAlreadyExists(nil) {
		t.Fatal("nil error should not match")
	}
	if !IsAlreadyExists(errors.New("table sessions already exists")) {
		t.Fatal("expected match")
	}
	if !IsAlreadyExists(errors.New("duplicate column name: subject")) {
		t.Fatal("expected duplicate column match")
	}
	if IsAlreadyExists(errors.New("syntax error")) {
		t.Fatal("syntax error should not match")
	}
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	// Each pooled connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return value
}
