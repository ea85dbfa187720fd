package internal

import (
	"sync"
	"testing"
)

func TestStateStoreReadMutate(t *testing.T) {
	store := NewStateStore()

	store.Mutate(func(s *TimelineState) {
		*s = newTimelineState("s1")
		s.HasMore = true
	})

	state := store.Read()
	if state.SessionID != "s1" {
		t.Errorf("SessionID = %q, want s1", state.SessionID)
	}
	if !state.HasMore {
		t.Error("HasMore lost across Mutate/Read")
	}
	if state.ProcessCache == nil || state.ProcessState == nil {
		t.Error("fresh state should have initialized maps")
	}
}

func TestStateStoreMutationsSerialize(t *testing.T) {
	store := NewStateStore()
	store.Mutate(func(s *TimelineState) { *s = newTimelineState("s1") })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Mutate(func(s *TimelineState) {
				s.Messages = append(s.Messages, NormalizedMessage{ID: "x"})
			})
		}()
	}
	wg.Wait()

	if got := len(store.Read().Messages); got != 50 {
		t.Errorf("expected 50 appends to survive, got %d", got)
	}
}

func TestNewTimelineStateResetsEverything(t *testing.T) {
	store := NewStateStore()
	store.Mutate(func(s *TimelineState) {
		*s = newTimelineState("s1")
		s.ProcessCache["u1"] = []NormalizedMessage{{ID: "p1"}}
		s.ProcessState["u1"] = TurnProcessState{Expanded: true, Loaded: true}
		s.LastError = "old"
	})

	store.Mutate(func(s *TimelineState) { *s = newTimelineState("s2") })

	state := store.Read()
	if len(state.ProcessCache) != 0 || len(state.ProcessState) != 0 {
		t.Error("switching sessions must clear the process cache")
	}
	if state.LastError != "" {
		t.Error("switching sessions must clear the last error")
	}
}
