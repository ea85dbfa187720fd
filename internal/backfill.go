package internal

import "context"

// backfillBudget caps the extra older-page fetches made to resolve dangling
// tool-result references on a first load.
const backfillBudget = 4

// Loader pages the message source and normalizes the results
type Loader struct {
	source     MessageSource
	normalizer *Normalizer
}

// NewLoader creates a new Loader over a message source
func NewLoader(source MessageSource) *Loader {
	return &Loader{source: source, normalizer: NewNormalizer()}
}

// LoadResult carries one load's rows and paging state. Rows are deduplicated
// by id and ordered oldest-to-newest; Messages is their normalized form.
type LoadResult struct {
	Rows     []RawRow
	Messages []NormalizedMessage
	HasMore  bool
}

// Load fetches the newest page for a session. When tool-result rows
// reference calls whose assistant row was paged out, it walks strictly older
// pages, deduplicated against everything already fetched, until the
// references resolve, the source runs dry, or the budget is spent.
// Exhaustion is a degraded but valid result, never an error: downstream
// rendering shows the call without a result.
func (l *Loader) Load(ctx context.Context, sessionID string, limit int) (*LoadResult, error) {
	page, err := l.source.FetchPage(ctx, sessionID, limit, 0)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	rows := dedupeRows(page, seen)
	offset := len(page)
	hasMore := len(page) == limit

	for attempt := 0; attempt < backfillBudget; attempt++ {
		missing := DanglingToolCallIDs(rows)
		if len(missing) == 0 {
			break
		}
		if !hasMore {
			LogDebug("session %s: %d tool result(s) unresolved, source exhausted", sessionID, len(missing))
			break
		}

		older, err := l.source.FetchPage(ctx, sessionID, limit, offset)
		if err != nil {
			return nil, err
		}
		if len(older) == 0 {
			hasMore = false
			LogDebug("session %s: %d tool result(s) unresolved, source exhausted", sessionID, len(missing))
			break
		}

		offset += len(older)
		hasMore = len(older) == limit
		rows = append(dedupeRows(older, seen), rows...)
	}

	if missing := DanglingToolCallIDs(rows); len(missing) > 0 {
		LogDebug("session %s: backfill budget spent with %d unresolved tool result(s)", sessionID, len(missing))
	}

	return &LoadResult{Rows: rows, Messages: l.normalizer.Normalize(rows), HasMore: hasMore}, nil
}

// LoadMore fetches exactly one older page at the given base-row offset. No
// backfill search is performed; rows already held (by id, via seen) are
// dropped.
func (l *Loader) LoadMore(ctx context.Context, sessionID string, limit, offset int, seen map[string]bool) (*LoadResult, error) {
	page, err := l.source.FetchPage(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}

	rows := dedupeRows(page, seen)
	return &LoadResult{
		Rows:     rows,
		Messages: l.normalizer.Normalize(rows),
		HasMore:  len(page) == limit,
	}, nil
}

// dedupeRows returns the rows whose ids are not yet in seen, adding them
func dedupeRows(rows []RawRow, seen map[string]bool) []RawRow {
	fresh := make([]RawRow, 0, len(rows))
	for _, row := range rows {
		if seen[row.ID] {
			continue
		}
		seen[row.ID] = true
		fresh = append(fresh, row)
	}
	return fresh
}
