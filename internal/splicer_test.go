package internal

import "testing"

func baseMessages() []NormalizedMessage {
	return []NormalizedMessage{
		{ID: "u1", Role: RoleUser},
		{ID: "a1", Role: RoleAssistant},
		{ID: "u2", Role: RoleUser},
		{ID: "a2", Role: RoleAssistant},
	}
}

func processMessage(id, parent string) NormalizedMessage {
	return NormalizedMessage{
		ID:       id,
		Role:     RoleAssistant,
		Metadata: MessageMetadata{ParentMessageID: parent},
	}
}

func TestSpliceInsertsExpandedProcess(t *testing.T) {
	cache := map[string][]NormalizedMessage{
		"u1": {processMessage("p1", "u1"), processMessage("p2", "u1")},
	}
	states := map[string]TurnProcessState{
		"u1": {Expanded: true, Loaded: true},
	}

	out := Splice(baseMessages(), cache, states)
	if err := sameIDs(out, "u1", "p1", "p2", "a1", "u2", "a2"); err != nil {
		t.Fatal(err)
	}
}

func TestSpliceCollapsedPassThrough(t *testing.T) {
	cache := map[string][]NormalizedMessage{
		"u1": {processMessage("p1", "u1")},
	}
	states := map[string]TurnProcessState{
		"u1": {Expanded: false, Loaded: true},
	}

	out := Splice(baseMessages(), cache, states)
	if err := sameIDs(out, "u1", "a1", "u2", "a2"); err != nil {
		t.Fatal(err)
	}
}

func TestSpliceIdempotent(t *testing.T) {
	cache := map[string][]NormalizedMessage{
		"u1": {processMessage("p1", "u1")},
		"u2": {processMessage("p2", "u2")},
	}
	states := map[string]TurnProcessState{
		"u1": {Expanded: true, Loaded: true},
		"u2": {Expanded: true, Loaded: true},
	}

	once := Splice(baseMessages(), cache, states)
	twice := Splice(once, cache, states)
	if err := sameIDs(twice, messageIDs(once)...); err != nil {
		t.Fatalf("second application changed the list: %v", err)
	}
}

func TestSpliceDropsStaleProcessRows(t *testing.T) {
	// A previously spliced row whose turn is now collapsed must disappear.
	input := []NormalizedMessage{
		{ID: "u1", Role: RoleUser},
		processMessage("p1", "u1"),
		{ID: "a1", Role: RoleAssistant},
	}

	out := Splice(input, map[string][]NormalizedMessage{}, map[string]TurnProcessState{})
	if err := sameIDs(out, "u1", "a1"); err != nil {
		t.Fatal(err)
	}
}

func TestSpliceExpandedWithoutCache(t *testing.T) {
	states := map[string]TurnProcessState{
		"u1": {Expanded: true},
	}
	out := Splice(baseMessages(), map[string][]NormalizedMessage{}, states)
	if err := sameIDs(out, "u1", "a1", "u2", "a2"); err != nil {
		t.Fatal(err)
	}
}

func TestCountBaseMessages(t *testing.T) {
	messages := []NormalizedMessage{
		{ID: "u1", Role: RoleUser},
		processMessage("p1", "u1"),
		processMessage("p2", "u1"),
		{ID: "a1", Role: RoleAssistant},
	}
	if got := CountBaseMessages(messages); got != 2 {
		t.Errorf("CountBaseMessages() = %d, want 2", got)
	}
}
