package internal

import "encoding/json"

// Normalizer turns raw persisted rows into display-ready messages
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// knownMetaKeys are the metadata keys lifted into structured fields.
// Everything else passes through untouched in Extra.
var knownMetaKeys = map[string]bool{
	"attachments":     true,
	"toolCalls":       true,
	"isError":         true,
	"hidden":          true,
	"processMessages": true,
	"status":          true,
	"updatedAt":       true,
	"parentMessageId": true,
}

// Normalize converts raw rows into normalized messages. The result preserves
// the input's total order and length; malformed payloads recover locally and
// never abort the batch. Running the output back through produces the same
// messages (tool call ids are synthesized deterministically).
func (n *Normalizer) Normalize(rows []RawRow) []NormalizedMessage {
	resolver := NewToolCallResolver(rows)

	messages := make([]NormalizedMessage, 0, len(rows))
	for i := range rows {
		messages = append(messages, n.normalizeRow(&rows[i], resolver))
	}

	foldSummaries(rows, messages)
	return messages
}

// normalizeRow builds one normalized message from a raw row
func (n *Normalizer) normalizeRow(row *RawRow, resolver *ToolCallResolver) NormalizedMessage {
	meta := row.DecodeMetadata()

	var calls []ToolCall
	if row.Role == RoleAssistant {
		calls = resolver.Resolve(row, meta)
	}

	parent := row.ParentMessageID
	if parent == "" {
		parent = metaString(meta, "parentMessageId")
	}

	status := metaString(meta, "status")
	if status == "" {
		status = "completed"
	}

	return NormalizedMessage{
		ID:         row.ID,
		SessionID:  row.SessionID,
		Role:       row.Role,
		Content:    row.Content,
		RawContent: row.Content,
		Status:     status,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  metaInt64(meta, "updatedAt"),
		ToolCallID: row.ToolCallID,
		Metadata: MessageMetadata{
			Attachments:     normalizeAttachments(row, meta),
			ToolCalls:       calls,
			ContentSegments: buildContentSegments(row.Reasoning, row.Content, calls),
			Hidden:          metaBool(meta, "hidden"),
			ParentMessageID: parent,
			ProcessMessages: inlineProcessRows(row, meta),
			Extra:           extraMeta(meta),
		},
	}
}

// inlineProcessRows extracts turn-process sub-rows embedded in a user
// message's metadata at fetch time. They let a toggle populate the process
// cache without a network round trip.
func inlineProcessRows(row *RawRow, meta map[string]interface{}) []RawRow {
	v, ok := meta["processMessages"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var rows []RawRow
	if err := json.Unmarshal(data, &rows); err != nil {
		LogWarn("row %s: malformed processMessages list, ignoring", row.ID)
		return nil
	}
	for i := range rows {
		if rows[i].SessionID == "" {
			rows[i].SessionID = row.SessionID
		}
		rows[i].ParentMessageID = row.ID
	}
	return rows
}

// extraMeta returns the passthrough metadata keys, nil when none remain
func extraMeta(meta map[string]interface{}) map[string]interface{} {
	var extra map[string]interface{}
	for k, v := range meta {
		if knownMetaKeys[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]interface{})
		}
		extra[k] = v
	}
	return extra
}

// metaInt64 reads a numeric key from decoded metadata
func metaInt64(meta map[string]interface{}, key string) int64 {
	switch v := meta[key].(type) {
	case float64:
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
