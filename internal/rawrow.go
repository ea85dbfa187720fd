package internal

import (
	"encoding/json"
	"time"
)

// Role values stored on raw rows.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// RawRow represents a persisted chat turn record as returned by the message
// source. Rows are immutable once fetched.
type RawRow struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"sessionId"`
	Role            string          `json:"role"`
	Content         string          `json:"content,omitempty"`
	Summary         string          `json:"summary,omitempty"`
	ToolCallID      string          `json:"toolCallId,omitempty"`
	Reasoning       string          `json:"reasoning,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	ToolCalls       json.RawMessage `json:"toolCalls,omitempty"`
	ParentMessageID string          `json:"parentMessageId,omitempty"`
	CreatedAt       int64           `json:"createdAt"` // unix milliseconds
}

// GetCreatedAt returns a time.Time from the created-at timestamp
func (r *RawRow) GetCreatedAt() time.Time {
	return time.Unix(0, r.CreatedAt*int64(time.Millisecond))
}

// DecodeMetadata decodes the row's metadata field. The source persists it
// either as a JSON object or as a JSON string containing an encoded object.
// Malformed input yields an empty map, never an error.
func (r *RawRow) DecodeMetadata() map[string]interface{} {
	meta := decodeLooseObject(r.ID, "metadata", r.Metadata)
	if meta == nil {
		return map[string]interface{}{}
	}
	return meta
}

// decodeLooseObject decodes raw JSON that may be an object or a
// string-encoded object. Returns nil when the field is absent.
func decodeLooseObject(rowID, field string, raw json.RawMessage) map[string]interface{} {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	data := unquoteRaw(raw)
	if data == nil {
		LogWarn("row %s: malformed %s string, substituting empty object", rowID, field)
		return map[string]interface{}{}
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		LogWarn("row %s: malformed %s payload, substituting empty object: %v", rowID, field, err)
		return map[string]interface{}{}
	}
	return obj
}

// decodeLooseArray decodes raw JSON that may be an array or a string-encoded
// array. Malformed input yields nil.
func decodeLooseArray(rowID, field string, raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	data := unquoteRaw(raw)
	if data == nil {
		LogWarn("row %s: malformed %s string, ignoring", rowID, field)
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		LogWarn("row %s: malformed %s payload, ignoring: %v", rowID, field, err)
		return nil
	}
	return entries
}

// unquoteRaw unwraps one level of string encoding: `"{\"a\":1}"` becomes
// `{"a":1}`. Non-string input passes through unchanged. Returns nil when the
// input is a string but not valid JSON text.
func unquoteRaw(raw json.RawMessage) []byte {
	trimmed := trimSpaceBytes(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return raw
	}
	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return nil
	}
	return []byte(inner)
}

func trimSpaceBytes(b []byte) []byte {
	start := 0
	for start < len(b) && isJSONSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isJSONSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// metaString reads a string-valued key from decoded metadata
func metaString(meta map[string]interface{}, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

// metaBool reads a bool-valued key from decoded metadata
func metaBool(meta map[string]interface{}, key string) bool {
	if v, ok := meta[key].(bool); ok {
		return v
	}
	return false
}
