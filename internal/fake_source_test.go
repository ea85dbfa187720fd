package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// fakeSource is a scripted MessageSource for tests. Pages are keyed by
// offset; every fetch is recorded.
type fakeSource struct {
	mu           sync.Mutex
	pages        map[int][]RawRow
	process      map[string][]RawRow
	processErr   error
	pageErr      error
	pageCalls    []int
	processCalls []string
	blockPage    chan struct{} // when set, FetchPage waits on it
	blockProcess chan struct{} // when set, FetchProcess waits on it
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages:   make(map[int][]RawRow),
		process: make(map[string][]RawRow),
	}
}

func (f *fakeSource) FetchPage(ctx context.Context, sessionID string, limit, offset int) ([]RawRow, error) {
	f.mu.Lock()
	f.pageCalls = append(f.pageCalls, offset)
	block := f.blockPage
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	page := f.pages[offset]
	if len(page) > limit {
		page = page[len(page)-limit:]
	}
	return append([]RawRow(nil), page...), nil
}

func (f *fakeSource) FetchProcess(ctx context.Context, sessionID, userMessageID string) ([]RawRow, error) {
	f.mu.Lock()
	f.processCalls = append(f.processCalls, userMessageID)
	block := f.blockProcess
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processErr != nil {
		return nil, f.processErr
	}
	rows, ok := f.process[userMessageID]
	if !ok {
		return nil, errors.New("no process rows scripted")
	}
	return append([]RawRow(nil), rows...), nil
}

func (f *fakeSource) processCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.processCalls)
}

func (f *fakeSource) pageCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pageCalls)
}

// Row builders for tests.

func userRow(id string, at int64) RawRow {
	return RawRow{ID: id, SessionID: "s1", Role: RoleUser, Content: "u:" + id, CreatedAt: at}
}

func assistantRow(id string, at int64) RawRow {
	return RawRow{ID: id, SessionID: "s1", Role: RoleAssistant, Content: "a:" + id, CreatedAt: at}
}

func assistantRowWithCalls(id string, at int64, toolCalls string) RawRow {
	row := assistantRow(id, at)
	row.ToolCalls = []byte(toolCalls)
	return row
}

func toolRow(id, callID, content string, at int64) RawRow {
	return RawRow{ID: id, SessionID: "s1", Role: RoleTool, ToolCallID: callID, Content: content, CreatedAt: at}
}

func summaryRow(id, text string, at int64) RawRow {
	return RawRow{
		ID:        id,
		SessionID: "s1",
		Role:      RoleSystem,
		Summary:   text,
		Metadata:  []byte(`{"type":"session_summary"}`),
		CreatedAt: at,
	}
}

func messageIDs(messages []NormalizedMessage) []string {
	ids := make([]string, len(messages))
	for i := range messages {
		ids[i] = messages[i].ID
	}
	return ids
}

func sameIDs(got []NormalizedMessage, want ...string) error {
	ids := messageIDs(got)
	if len(ids) != len(want) {
		return fmt.Errorf("got %d messages %v, want %d %v", len(ids), ids, len(want), want)
	}
	for i := range ids {
		if ids[i] != want[i] {
			return fmt.Errorf("message %d = %s, want %s (full: %v)", i, ids[i], want[i], ids)
		}
	}
	return nil
}
