package internal

// buildContentSegments assembles the ordered segment list for a message:
// at most one thinking segment, at most one text segment, then one tool_call
// segment per resolved call, in resolution order.
func buildContentSegments(reasoning, content string, calls []ToolCall) []ContentSegment {
	segments := make([]ContentSegment, 0, len(calls)+2)

	if reasoning != "" {
		segments = append(segments, ContentSegment{Type: SegmentThinking, Content: reasoning})
	}
	if content != "" {
		segments = append(segments, ContentSegment{Type: SegmentText, Content: content})
	}
	for _, call := range calls {
		segments = append(segments, ContentSegment{Type: SegmentToolCall, ToolCallID: call.ID})
	}

	return segments
}
