package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateSQLiteFixture creates a SQLite database file with sample session data
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT,
		summary TEXT,
		tool_call_id TEXT,
		reasoning TEXT,
		metadata TEXT,
		tool_calls TEXT,
		parent_message_id TEXT,
		created_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	insertSQL := `INSERT INTO messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	seed := []struct {
		id, session, role, content string
		createdAt                  int64
	}{
		{"m1", "fixture-session", "user", "Hello world", 1000},
		{"m2", "fixture-session", "assistant", "Hi, how can I help?", 2000},
	}
	for _, row := range seed {
		if _, err := db.Exec(insertSQL, row.id, row.session, row.role, row.content, row.createdAt); err != nil {
			t.Fatalf("Failed to insert message %s: %v", row.id, err)
		}
	}
}
