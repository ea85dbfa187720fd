package internal

// TurnProcessState tracks the expand/collapse lifecycle of one user
// message's turn process. The zero value is the initial state:
// collapsed and unloaded.
//
//	collapsed+unloaded -> loading -> expanded+loaded <-> collapsed+loaded
//
// A failed load falls back to collapsed+unloaded and may be retried. Once
// loaded, toggling never refetches; the cache lives until the session's
// messages are reloaded from scratch.
type TurnProcessState struct {
	Expanded bool
	Loaded   bool
	Loading  bool
}

// normalizeProcessRows normalizes turn-process sub-rows fetched (or embedded
// inline) for one user message, tagging each with its owner so spliced rows
// are excluded from base-row accounting.
func normalizeProcessRows(n *Normalizer, sessionID, userMessageID string, rows []RawRow) []NormalizedMessage {
	tagged := make([]RawRow, len(rows))
	copy(tagged, rows)
	for i := range tagged {
		if tagged[i].SessionID == "" {
			tagged[i].SessionID = sessionID
		}
		tagged[i].ParentMessageID = userMessageID
	}

	msgs := n.Normalize(tagged)
	for i := range msgs {
		msgs[i].Metadata.ParentMessageID = userMessageID
	}
	return msgs
}

// inlineProcessRowsFor returns the process rows embedded in the given user
// message's metadata, or nil when the message has none (or is not present).
func inlineProcessRowsFor(messages []NormalizedMessage, userMessageID string) []RawRow {
	for i := range messages {
		msg := &messages[i]
		if msg.ID != userMessageID || msg.Role != RoleUser {
			continue
		}
		return msg.Metadata.ProcessMessages
	}
	return nil
}
