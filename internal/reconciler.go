package internal

import (
	"context"
	"sync"
	"time"
)

// Reconciler owns the timeline for the session on screen. It loads pages
// through the backfill-aware loader, maintains the per-user-message
// turn-process cache, and keeps the rendered list spliced in the shared
// state store. Each public action suspends only at its fetch boundary and
// lands a single atomic mutation when it resumes.
type Reconciler struct {
	source     MessageSource
	loader     *Loader
	normalizer *Normalizer
	store      *StateStore

	mu      sync.Mutex
	session string
	gen     uint64 // bumped on every Load; stale responses check it
	rows    []RawRow
	seen    map[string]bool
}

// NewReconciler creates a reconciler writing into store
func NewReconciler(source MessageSource, store *StateStore) *Reconciler {
	return &Reconciler{
		source:     source,
		loader:     NewLoader(source),
		normalizer: NewNormalizer(),
		store:      store,
		seen:       make(map[string]bool),
	}
}

// Store returns the shared state store the reconciler writes into
func (r *Reconciler) Store() *StateStore {
	return r.store
}

// Load replaces the timeline with the session's newest page, backfilling
// older pages as needed to resolve tool-result references. This is the only
// point where the turn-process cache is cleared.
func (r *Reconciler) Load(ctx context.Context, sessionID string, limit int) ([]NormalizedMessage, error) {
	r.mu.Lock()
	r.session = sessionID
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	res, err := r.loader.Load(ctx, sessionID, limit)

	// Holding the lock across the mutation makes the staleness check and the
	// state write atomic: a response from an abandoned Load, success or
	// failure, is dropped before it can touch state.
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		// another Load started while this one was in flight
		return nil, nil
	}
	if err != nil {
		r.store.Mutate(func(s *TimelineState) {
			s.LastError = err.Error()
		})
		return nil, err
	}
	r.rows = res.Rows
	r.seen = rowIDSet(res.Rows)

	r.store.Mutate(func(s *TimelineState) {
		*s = newTimelineState(sessionID)
		s.Messages = res.Messages
		s.HasMore = res.HasMore
		s.Rendered = Splice(s.Messages, s.ProcessCache, s.ProcessState)
	})
	return res.Messages, nil
}

// LoadMore prepends the next older page of base messages. The offset counts
// only base rows, so pagination stays stable however many process
// sub-messages are spliced into the rendered list. No backfill search is
// performed for older pages.
func (r *Reconciler) LoadMore(ctx context.Context, limit int) ([]NormalizedMessage, error) {
	r.mu.Lock()
	sessionID := r.session
	gen := r.gen
	seen := copyIDSet(r.seen)
	r.mu.Unlock()
	if sessionID == "" {
		return nil, nil
	}

	state := r.store.Read()
	if !state.HasMore {
		return nil, nil
	}
	offset := CountBaseMessages(state.Rendered)

	res, err := r.loader.LoadMore(ctx, sessionID, limit, offset, seen)

	// Same atomicity discipline as Load: the generation is re-checked under
	// the lock that also covers the mutation, so a page or failure landing
	// after a reload cannot touch the newer state.
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		// session reloaded while the fetch was in flight; drop the page
		return nil, nil
	}
	if err != nil {
		r.store.Mutate(func(s *TimelineState) {
			s.LastError = err.Error()
		})
		return nil, err
	}
	r.rows = append(res.Rows, r.rows...)
	for _, row := range res.Rows {
		r.seen[row.ID] = true
	}
	// renormalize the whole held set so results that were dangling before
	// this page arrived pair up with their calls
	combined := r.normalizer.Normalize(r.rows)

	r.store.Mutate(func(s *TimelineState) {
		s.Messages = combined
		s.HasMore = res.HasMore
		s.Rendered = Splice(s.Messages, s.ProcessCache, s.ProcessState)
	})
	return res.Messages, nil
}

// Toggle flips the expand/collapse state of one user message's turn process.
//
// Collapsing, and expanding an already-loaded process, are pure state flips.
// An unloaded process populates synchronously when the user message carries
// inline process rows; otherwise the remote fetch runs, guarded by an
// in-flight marker claimed inside a single mutation so two racing toggles
// cannot both issue it. A toggle while loading is a no-op. A fetch failure
// falls back to collapsed+unloaded with the error surfaced on state rather
// than returned; a response landing after a session switch is discarded.
func (r *Reconciler) Toggle(ctx context.Context, userMessageID string) error {
	r.mu.Lock()
	sessionID := r.session
	r.mu.Unlock()
	if sessionID == "" {
		return nil
	}

	needFetch := false
	r.store.Mutate(func(s *TimelineState) {
		if s.SessionID != sessionID {
			return
		}
		st := s.ProcessState[userMessageID]
		switch {
		case st.Loading:
			// the in-flight request owns the next transition

		case st.Expanded:
			st.Expanded = false
			s.ProcessState[userMessageID] = st
			s.Rendered = Splice(s.Messages, s.ProcessCache, s.ProcessState)

		case st.Loaded:
			st.Expanded = true
			s.ProcessState[userMessageID] = st
			s.Rendered = Splice(s.Messages, s.ProcessCache, s.ProcessState)

		default:
			if inline := inlineProcessRowsFor(s.Messages, userMessageID); len(inline) > 0 {
				s.ProcessCache[userMessageID] = normalizeProcessRows(r.normalizer, sessionID, userMessageID, inline)
				s.ProcessState[userMessageID] = TurnProcessState{Expanded: true, Loaded: true}
				s.Rendered = Splice(s.Messages, s.ProcessCache, s.ProcessState)
			} else {
				st.Loading = true
				s.ProcessState[userMessageID] = st
				needFetch = true
			}
		}
	})
	if !needFetch {
		return nil
	}

	rows, err := r.source.FetchProcess(ctx, sessionID, userMessageID)

	r.store.Mutate(func(s *TimelineState) {
		if s.SessionID != sessionID {
			// stale response: the session moved on while we were fetching
			return
		}
		st := s.ProcessState[userMessageID]
		st.Loading = false
		if err != nil {
			st.Expanded = false
			s.ProcessState[userMessageID] = st
			s.LastError = (&ProcessLoadError{SessionID: sessionID, UserMessageID: userMessageID, Err: err}).Error()
			s.Rendered = Splice(s.Messages, s.ProcessCache, s.ProcessState)
			return
		}
		s.ProcessCache[userMessageID] = normalizeProcessRows(r.normalizer, sessionID, userMessageID, rows)
		st.Loaded = true
		st.Expanded = true
		s.ProcessState[userMessageID] = st
		s.LastError = ""
		s.Rendered = Splice(s.Messages, s.ProcessCache, s.ProcessState)
	})
	return nil
}

// SessionDocument packages the current rendered timeline for export
func (r *Reconciler) SessionDocument() *Session {
	state := r.store.Read()
	doc := &Session{
		ID:       state.SessionID,
		Messages: state.Rendered,
		Metadata: SessionMetadata{MessageCount: len(state.Rendered)},
	}
	if len(state.Rendered) > 0 {
		doc.Metadata.CreatedAt = state.Rendered[0].GetCreatedAt().Format(time.RFC3339)
		doc.Metadata.UpdatedAt = state.Rendered[len(state.Rendered)-1].GetCreatedAt().Format(time.RFC3339)
	}
	return doc
}

func rowIDSet(rows []RawRow) map[string]bool {
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		seen[row.ID] = true
	}
	return seen
}

func copyIDSet(seen map[string]bool) map[string]bool {
	out := make(map[string]bool, len(seen))
	for id := range seen {
		out[id] = true
	}
	return out
}
