package internal

import "time"

// SegmentType identifies a content segment variant
type SegmentType string

const (
	SegmentThinking SegmentType = "thinking"
	SegmentText     SegmentType = "text"
	SegmentToolCall SegmentType = "tool_call"
)

// ContentSegment is one ordered piece of a message's display content.
// A message carries at most one thinking segment, at most one text segment,
// then tool_call segments in resolution order.
type ContentSegment struct {
	Type       SegmentType `json:"type"`
	Content    string      `json:"content,omitempty"`
	ToolCallID string      `json:"toolCallId,omitempty"`
}

// ToolCall represents a resolved tool invocation on an assistant message
type ToolCall struct {
	ID          string      `json:"id"`
	MessageID   string      `json:"messageId"`
	Name        string      `json:"name"`
	Arguments   interface{} `json:"arguments,omitempty"`
	Result      string      `json:"result,omitempty"`
	FinalResult string      `json:"finalResult,omitempty"`
	StreamLog   string      `json:"streamLog,omitempty"`
	Completed   bool        `json:"completed"`
	Error       string      `json:"error,omitempty"`
	CreatedAt   int64       `json:"createdAt,omitempty"`
}

// AttachmentType classifies a normalized attachment
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentAudio AttachmentType = "audio"
	AttachmentFile  AttachmentType = "file"
)

// Attachment represents a typed attachment descriptor
type Attachment struct {
	ID        string         `json:"id"`
	MessageID string         `json:"messageId"`
	Type      AttachmentType `json:"type"`
	Name      string         `json:"name,omitempty"`
	URL       string         `json:"url,omitempty"`
	Size      int64          `json:"size,omitempty"`
	MimeType  string         `json:"mimeType,omitempty"`
}

// MessageMetadata carries the structured parts of a normalized message.
// Extra holds unrecognized metadata keys passed through from the raw row.
type MessageMetadata struct {
	Attachments     []Attachment           `json:"attachments,omitempty"`
	ToolCalls       []ToolCall             `json:"toolCalls,omitempty"`
	ContentSegments []ContentSegment       `json:"contentSegments"`
	Hidden          bool                   `json:"hidden,omitempty"`
	ParentMessageID string                 `json:"parentMessageId,omitempty"`
	ProcessMessages []RawRow               `json:"processMessages,omitempty"`
	Extra           map[string]interface{} `json:"extra,omitempty"`
}

// NormalizedMessage is a display-ready message produced by the pipeline
type NormalizedMessage struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"sessionId"`
	Role       string          `json:"role"`
	Content    string          `json:"content"`
	RawContent string          `json:"rawContent,omitempty"`
	Status     string          `json:"status,omitempty"`
	CreatedAt  int64           `json:"createdAt"`
	UpdatedAt  int64           `json:"updatedAt,omitempty"`
	ToolCallID string          `json:"toolCallId,omitempty"`
	Metadata   MessageMetadata `json:"metadata"`
}

// IsBase reports whether the message is a base row, i.e. not derived from an
// expanded turn-process cache. Pagination offsets count only base rows.
func (m *NormalizedMessage) IsBase() bool {
	return m.Metadata.ParentMessageID == ""
}

// GetCreatedAt returns a time.Time from the created-at timestamp
func (m *NormalizedMessage) GetCreatedAt() time.Time {
	return time.Unix(0, m.CreatedAt*int64(time.Millisecond))
}
