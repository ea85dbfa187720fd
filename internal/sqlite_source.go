package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteSource is a MessageSource backed by a local chatos SQLite database
type SQLiteSource struct {
	db *sql.DB
}

// OpenDatabase opens a SQLite database at path
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// NewSQLiteSource creates a source over an open database handle
func NewSQLiteSource(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db}
}

// EnsureSchema creates the messages table if it does not exist
func (s *SQLiteSource) EnsureSchema() error {
	_, err := s.db.Exec(`
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
		CREATE INDEX IF NOT EXISTS idx_messages_session
			ON messages(session_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const rowColumns = `id, session_id, role, content, summary, tool_call_id,
	reasoning, metadata, tool_calls, parent_message_id, created_at`

// FetchPage returns one page of base rows, oldest-to-newest. Offset counts
// base rows back from the newest; process sub-rows never enter the count.
func (s *SQLiteSource) FetchPage(ctx context.Context, sessionID string, limit, offset int) ([]RawRow, error) {
	query := `SELECT ` + rowColumns + `
		FROM messages
		WHERE session_id = ? AND (parent_message_id IS NULL OR parent_message_id = '')
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, &FetchError{SessionID: sessionID, Op: "page", Err: err}
	}
	defer rows.Close()

	page, err := scanRows(rows)
	if err != nil {
		return nil, &FetchError{SessionID: sessionID, Op: "page", Err: err}
	}

	// The query walks newest-first for stable offsets; pages are delivered
	// oldest-to-newest.
	reverseRows(page)
	return page, nil
}

// FetchProcess returns the turn-process sub-rows for one user message
func (s *SQLiteSource) FetchProcess(ctx context.Context, sessionID, userMessageID string) ([]RawRow, error) {
	query := `SELECT ` + rowColumns + `
		FROM messages
		WHERE session_id = ? AND parent_message_id = ?
		ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, sessionID, userMessageID)
	if err != nil {
		return nil, &FetchError{SessionID: sessionID, Op: "process", Err: err}
	}
	defer rows.Close()

	procs, err := scanRows(rows)
	if err != nil {
		return nil, &FetchError{SessionID: sessionID, Op: "process", Err: err}
	}
	return procs, nil
}

// ListSessions returns per-session aggregates over base rows, newest first
func (s *SQLiteSource) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	query := `SELECT session_id, COUNT(*), MIN(created_at), MAX(created_at)
		FROM messages
		WHERE parent_message_id IS NULL OR parent_message_id = ''
		GROUP BY session_id
		ORDER BY MAX(created_at) DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.MessageCount, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// InsertRow stores a raw row; used by ingestion tooling and tests
func (s *SQLiteSource) InsertRow(ctx context.Context, row *RawRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (`+rowColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.SessionID, row.Role, row.Content, row.Summary,
		row.ToolCallID, row.Reasoning, nullableJSON(row.Metadata),
		nullableJSON(row.ToolCalls), row.ParentMessageID, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert row %s: %w", row.ID, err)
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]RawRow, error) {
	var out []RawRow
	for rows.Next() {
		var row RawRow
		var content, summary, toolCallID, reasoning, metadata, toolCalls, parent sql.NullString
		if err := rows.Scan(
			&row.ID, &row.SessionID, &row.Role, &content, &summary,
			&toolCallID, &reasoning, &metadata, &toolCalls, &parent,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		row.Content = content.String
		row.Summary = summary.String
		row.ToolCallID = toolCallID.String
		row.Reasoning = reasoning.String
		row.ParentMessageID = parent.String
		if metadata.Valid && metadata.String != "" {
			row.Metadata = json.RawMessage(metadata.String)
		}
		if toolCalls.Valid && toolCalls.String != "" {
			row.ToolCalls = json.RawMessage(toolCalls.String)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func reverseRows(rows []RawRow) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
