package internal

import "context"

// MessageSource is the paging store the reconciler reads from.
//
// FetchPage returns base rows (rows not derived from a turn-process cache)
// oldest-to-newest within the page; offset counts base rows from the newest
// backward, so offset 0 is the most recent page. A page shorter than limit
// means no older data remains. FetchProcess returns the turn-process
// sub-rows owned by one user message, oldest first.
type MessageSource interface {
	FetchPage(ctx context.Context, sessionID string, limit, offset int) ([]RawRow, error)
	FetchProcess(ctx context.Context, sessionID, userMessageID string) ([]RawRow, error)
}
