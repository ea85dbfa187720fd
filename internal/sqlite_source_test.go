package internal

import (
	"context"
	"testing"

	"github.com/leeoohoo/chatos/testutil"
)

func seedSession(t *testing.T, source *SQLiteSource) {
	t.Helper()
	ctx := context.Background()
	rows := []RawRow{
		{ID: "m1", SessionID: "s1", Role: RoleUser, Content: "first", CreatedAt: 1000},
		{ID: "m2", SessionID: "s1", Role: RoleAssistant, Content: "second", CreatedAt: 2000},
		{ID: "m3", SessionID: "s1", Role: RoleUser, Content: "third", CreatedAt: 3000},
		{ID: "m4", SessionID: "s1", Role: RoleAssistant, Content: "fourth", CreatedAt: 4000},
		{ID: "p1", SessionID: "s1", Role: RoleAssistant, Content: "step", ParentMessageID: "m3", CreatedAt: 3100},
		{ID: "p2", SessionID: "s1", Role: RoleAssistant, Content: "step2", ParentMessageID: "m3", CreatedAt: 3200},
		{ID: "x1", SessionID: "s2", Role: RoleUser, Content: "other", CreatedAt: 5000},
	}
	for i := range rows {
		if err := source.InsertRow(ctx, &rows[i]); err != nil {
			t.Fatalf("InsertRow(%s): %v", rows[i].ID, err)
		}
	}
}

func newTestSource(t *testing.T) *SQLiteSource {
	t.Helper()
	db := testutil.CreateInMemoryDB(t)
	t.Cleanup(func() { _ = db.Close() })
	source := NewSQLiteSource(db)
	if err := source.EnsureSchema(); err != nil {
		t.Fatalf("EnsureSchema(): %v", err)
	}
	seedSession(t, source)
	return source
}

func TestFetchPageOrdering(t *testing.T) {
	source := newTestSource(t)

	// Newest page, delivered oldest-to-newest.
	page, err := source.FetchPage(context.Background(), "s1", 2, 0)
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	if len(page) != 2 || page[0].ID != "m3" || page[1].ID != "m4" {
		t.Errorf("page = %v", rawIDs(page))
	}
}

func TestFetchPageOffsetSkipsBaseRows(t *testing.T) {
	source := newTestSource(t)

	page, err := source.FetchPage(context.Background(), "s1", 2, 2)
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	if len(page) != 2 || page[0].ID != "m1" || page[1].ID != "m2" {
		t.Errorf("page = %v", rawIDs(page))
	}
}

func TestFetchPageExcludesProcessRows(t *testing.T) {
	source := newTestSource(t)

	page, err := source.FetchPage(context.Background(), "s1", 10, 0)
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	for _, row := range page {
		if row.ParentMessageID != "" {
			t.Errorf("process row %s leaked into the base page", row.ID)
		}
	}
	if len(page) != 4 {
		t.Errorf("got %d base rows, want 4: %v", len(page), rawIDs(page))
	}
}

func TestFetchPageShortPage(t *testing.T) {
	source := newTestSource(t)

	page, err := source.FetchPage(context.Background(), "s1", 10, 2)
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected short page of 2, got %d", len(page))
	}
}

func TestFetchProcess(t *testing.T) {
	source := newTestSource(t)

	rows, err := source.FetchProcess(context.Background(), "s1", "m3")
	if err != nil {
		t.Fatalf("FetchProcess() error: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != "p1" || rows[1].ID != "p2" {
		t.Errorf("process rows = %v", rawIDs(rows))
	}
}

func TestFetchProcessEmpty(t *testing.T) {
	source := newTestSource(t)

	rows, err := source.FetchProcess(context.Background(), "s1", "m1")
	if err != nil {
		t.Fatalf("FetchProcess() error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no process rows, got %v", rawIDs(rows))
	}
}

func TestListSessions(t *testing.T) {
	source := newTestSource(t)

	infos, err := source.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d sessions, want 2", len(infos))
	}
	// Newest activity first.
	if infos[0].ID != "s2" || infos[1].ID != "s1" {
		t.Errorf("session order = %s, %s", infos[0].ID, infos[1].ID)
	}
	if infos[1].MessageCount != 4 {
		t.Errorf("s1 base message count = %d, want 4 (process rows excluded)", infos[1].MessageCount)
	}
}

func TestInsertRowRoundTrip(t *testing.T) {
	source := newTestSource(t)
	ctx := context.Background()

	row := RawRow{
		ID: "meta1", SessionID: "s3", Role: RoleAssistant,
		Content:   "with metadata",
		Metadata:  []byte(`{"status":"streaming"}`),
		ToolCalls: []byte(`[{"id":"c1","name":"search"}]`),
		CreatedAt: 6000,
	}
	if err := source.InsertRow(ctx, &row); err != nil {
		t.Fatalf("InsertRow(): %v", err)
	}

	page, err := source.FetchPage(ctx, "s3", 10, 0)
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("got %d rows, want 1", len(page))
	}
	got := page[0]
	if metaString(got.DecodeMetadata(), "status") != "streaming" {
		t.Errorf("metadata did not round-trip: %s", got.Metadata)
	}
	if len(decodeLooseArray(got.ID, "toolCalls", got.ToolCalls)) != 1 {
		t.Errorf("tool calls did not round-trip: %s", got.ToolCalls)
	}
}

func rawIDs(rows []RawRow) []string {
	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	return ids
}
