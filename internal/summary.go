package internal

import "strings"

// ContextSummaryHeader prefixes folded summary text so an existing folded
// segment on the target can be recognized and replaced instead of duplicated.
const ContextSummaryHeader = "Context summary:\n"

// sessionSummaryType marks a standalone summary row in its metadata
const sessionSummaryType = "session_summary"

// foldSummaries is the post-pass over the already-normalized list: each
// session-summary row contributes its text as a thinking segment on the
// nearest following assistant message, falling back to the nearest preceding
// one. The summary row itself is marked hidden and stays in place, so the
// pass never changes the collection's length. rows is the raw input the list
// was normalized from, index-aligned with messages.
func foldSummaries(rows []RawRow, messages []NormalizedMessage) {
	for i := range messages {
		row := &rows[i]
		meta := row.DecodeMetadata()
		if metaString(meta, "type") != sessionSummaryType {
			continue
		}

		messages[i].Metadata.Hidden = true

		text := row.Summary
		if text == "" {
			text = row.Content
		}
		if text == "" {
			continue
		}

		target := nearestAssistant(messages, i)
		if target < 0 {
			// No assistant neighbor in either direction: the row stays
			// hidden and the fold is skipped.
			LogDebug("summary row %s has no assistant neighbor, fold skipped", row.ID)
			continue
		}

		setContextSummarySegment(&messages[target], ContextSummaryHeader+text)
	}
}

// nearestAssistant finds the fold target for the summary row at index i:
// the first assistant message after it, else the last one before it.
func nearestAssistant(messages []NormalizedMessage, i int) int {
	for j := i + 1; j < len(messages); j++ {
		if messages[j].Role == RoleAssistant {
			return j
		}
	}
	for j := i - 1; j >= 0; j-- {
		if messages[j].Role == RoleAssistant {
			return j
		}
	}
	return -1
}

// setContextSummarySegment appends a context-summary thinking segment to the
// message, replacing an existing one rather than duplicating it.
func setContextSummarySegment(msg *NormalizedMessage, content string) {
	for i, seg := range msg.Metadata.ContentSegments {
		if seg.Type == SegmentThinking && strings.HasPrefix(seg.Content, ContextSummaryHeader) {
			msg.Metadata.ContentSegments[i].Content = content
			return
		}
	}
	msg.Metadata.ContentSegments = append(msg.Metadata.ContentSegments, ContentSegment{
		Type:    SegmentThinking,
		Content: content,
	})
}
