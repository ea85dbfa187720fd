package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database with the messages schema
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}

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
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create messages table: %v", err)
	}

	return db
}

// MessageRow describes one row to seed into a test database
type MessageRow struct {
	ID              string
	SessionID       string
	Role            string
	Content         string
	Summary         string
	ToolCallID      string
	Reasoning       string
	Metadata        string
	ToolCalls       string
	ParentMessageID string
	CreatedAt       int64
}

// InsertMessageRow inserts one message row into a test database
func InsertMessageRow(t *testing.T, db *sql.DB, row MessageRow) {
	t.Helper()
	insertSQL := `INSERT INTO messages
		(id, session_id, role, content, summary, tool_call_id, reasoning, metadata, tool_calls, parent_message_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(insertSQL,
		row.ID, row.SessionID, row.Role,
		nullable(row.Content), nullable(row.Summary), nullable(row.ToolCallID), nullable(row.Reasoning),
		nullable(row.Metadata), nullable(row.ToolCalls), nullable(row.ParentMessageID),
		row.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to insert message %s: %v", row.ID, err)
	}
}

// CreateTestDB creates a test database with a small sample session
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	rows := []MessageRow{
		{ID: "m1", SessionID: "s1", Role: "user", Content: "Hello", CreatedAt: 1000},
		{ID: "m2", SessionID: "s1", Role: "assistant", Content: "Hi there", CreatedAt: 2000},
		{ID: "m3", SessionID: "s1", Role: "user", Content: "How are you?", CreatedAt: 3000},
		{ID: "p1", SessionID: "s1", Role: "assistant", Content: "Working on it", ParentMessageID: "m3", CreatedAt: 3100},
		{ID: "m4", SessionID: "s2", Role: "user", Content: "Other session", CreatedAt: 4000},
	}
	for _, row := range rows {
		InsertMessageRow(t, db, row)
	}

	return db
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
