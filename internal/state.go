package internal

import "sync"

// TimelineState is the shared state held for the session currently on
// screen: the base messages, the rendered (spliced) list, paging state, and
// the per-user-message turn-process cache.
type TimelineState struct {
	SessionID    string
	Messages     []NormalizedMessage // base rows only, oldest first
	Rendered     []NormalizedMessage // Messages with expanded process rows spliced in
	HasMore      bool
	LastError    string
	ProcessCache map[string][]NormalizedMessage // keyed by owning user message id
	ProcessState map[string]TurnProcessState
}

// newTimelineState returns a fresh state for a session. Switching sessions
// through here is the only point where the process cache is invalidated.
func newTimelineState(sessionID string) TimelineState {
	return TimelineState{
		SessionID:    sessionID,
		ProcessCache: make(map[string][]NormalizedMessage),
		ProcessState: make(map[string]TurnProcessState),
	}
}

// StateStore owns a TimelineState behind a serialized mutation primitive.
// Mutations from different in-flight actions are applied one at a time, in
// completion order, never interleaved mid-mutation.
type StateStore struct {
	mu    sync.Mutex
	state TimelineState
}

// NewStateStore creates an empty store
func NewStateStore() *StateStore {
	return &StateStore{state: newTimelineState("")}
}

// Read returns a snapshot of the current state. Slices and maps are shared
// with the store; callers must treat them as read-only.
func (s *StateStore) Read() TimelineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mutate applies fn to the state atomically
func (s *StateStore) Mutate(fn func(*TimelineState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}
