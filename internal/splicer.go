package internal

// Splice applies the turn-process cache and state onto a base message list:
// every user message whose state is expanded gets its cached sub-messages
// inserted immediately after it, in cache order. All other rows pass through
// unchanged in their original relative order.
//
// Process-derived rows already present in the input are dropped before
// re-insertion, so applying Splice to its own output with unchanged cache
// and state yields an identical list.
func Splice(base []NormalizedMessage, cache map[string][]NormalizedMessage, states map[string]TurnProcessState) []NormalizedMessage {
	out := make([]NormalizedMessage, 0, len(base))
	for _, msg := range base {
		if !msg.IsBase() {
			// re-inserted below, next to its owner, if still expanded
			continue
		}
		out = append(out, msg)
		if msg.Role != RoleUser {
			continue
		}
		if !states[msg.ID].Expanded {
			continue
		}
		out = append(out, cache[msg.ID]...)
	}
	return out
}

// CountBaseMessages counts rows not derived from a turn-process cache.
// Pagination offsets use this count so the math stays stable as the visible
// list grows with spliced sub-messages.
func CountBaseMessages(messages []NormalizedMessage) int {
	count := 0
	for i := range messages {
		if messages[i].IsBase() {
			count++
		}
	}
	return count
}
