package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/leeoohoo/chatos/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	messages := visibleMessages(session)

	// Header
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", session.ID)
	if session.Metadata.CreatedAt != "" {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", session.Metadata.CreatedAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range messages {
		_, _ = fmt.Fprintf(w, "**%s:** (%s)\n\n", msg.Role, msg.GetCreatedAt().Format("2006-01-02 15:04:05"))

		e.writeSegments(w, &msg)
		e.writeAttachments(w, &msg)

		if i < len(messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// writeSegments renders the message's ordered content segments
func (e *MarkdownExporter) writeSegments(w io.Writer, msg *internal.NormalizedMessage) {
	segments := msg.Metadata.ContentSegments
	if len(segments) == 0 {
		if msg.Content != "" {
			_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(msg.Content))
		}
		return
	}

	calls := make(map[string]internal.ToolCall, len(msg.Metadata.ToolCalls))
	for _, call := range msg.Metadata.ToolCalls {
		calls[call.ID] = call
	}

	for _, seg := range segments {
		switch seg.Type {
		case internal.SegmentThinking:
			_, _ = fmt.Fprintf(w, "> %s\n\n", strings.ReplaceAll(seg.Content, "\n", "\n> "))
		case internal.SegmentText:
			_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(seg.Content))
		case internal.SegmentToolCall:
			call, ok := calls[seg.ToolCallID]
			if !ok {
				continue
			}
			status := "…"
			if call.Error != "" {
				status = "✗"
			} else if call.Completed {
				status = "✓"
			}
			_, _ = fmt.Fprintf(w, "`%s %s`\n\n", status, call.Name)
			if call.Result != "" {
				_, _ = fmt.Fprintf(w, "```\n%s\n```\n\n", call.Result)
			} else if call.Error != "" {
				_, _ = fmt.Fprintf(w, "```\n%s\n```\n\n", call.Error)
			}
		}
	}
}

// writeAttachments lists the message's typed attachments
func (e *MarkdownExporter) writeAttachments(w io.Writer, msg *internal.NormalizedMessage) {
	for _, att := range msg.Metadata.Attachments {
		name := att.Name
		if name == "" {
			name = att.ID
		}
		if att.URL != "" {
			_, _ = fmt.Fprintf(w, "- [%s] [%s](%s)\n", att.Type, name, att.URL)
		} else {
			_, _ = fmt.Fprintf(w, "- [%s] %s\n", att.Type, name)
		}
	}
	if len(msg.Metadata.Attachments) > 0 {
		_, _ = fmt.Fprintf(w, "\n")
	}
}

// escapeMarkdown escapes markdown special characters outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
