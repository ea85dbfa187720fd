package internal

import (
	"encoding/json"
	"fmt"
)

// toolResult holds a tool-role row's payload, indexed by tool call id
type toolResult struct {
	Content string
	IsError bool
}

// ToolCallResolver matches tool-result rows to tool-call entries on
// assistant rows
type ToolCallResolver struct {
	results map[string]toolResult
}

// NewToolCallResolver indexes every tool-role row in the batch
func NewToolCallResolver(rows []RawRow) *ToolCallResolver {
	results := make(map[string]toolResult)
	for i := range rows {
		row := &rows[i]
		if row.Role != RoleTool || row.ToolCallID == "" {
			continue
		}
		meta := row.DecodeMetadata()
		results[row.ToolCallID] = toolResult{
			Content: row.Content,
			IsError: metaBool(meta, "isError"),
		}
	}
	return &ToolCallResolver{results: results}
}

// Resolve returns the normalized tool calls for an assistant row in raw entry
// order. meta is the row's already-decoded metadata. The tool-result index
// supplies result/error only when the raw entry omits them.
func (r *ToolCallResolver) Resolve(row *RawRow, meta map[string]interface{}) []ToolCall {
	entries := rawToolCallEntries(row, meta)
	if len(entries) == 0 {
		return nil
	}

	calls := make([]ToolCall, 0, len(entries))
	for i, entry := range entries {
		call, ok := decodeToolCallEntry(row.ID, i, entry)
		if !ok {
			continue
		}
		call.MessageID = row.ID
		if call.CreatedAt == 0 {
			call.CreatedAt = row.CreatedAt
		}
		if res, found := r.results[call.ID]; found {
			if call.Result == "" {
				call.Result = res.Content
			}
			if res.IsError && call.Error == "" {
				call.Error = res.Content
			}
			call.Completed = true
		}
		calls = append(calls, call)
	}
	return calls
}

// rawToolCallEntries extracts the raw tool call list for an assistant row:
// the top-level toolCalls field wins, metadata.toolCalls is the fallback.
func rawToolCallEntries(row *RawRow, meta map[string]interface{}) []json.RawMessage {
	if entries := decodeLooseArray(row.ID, "toolCalls", row.ToolCalls); len(entries) > 0 {
		return entries
	}

	v, ok := meta["toolCalls"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		LogWarn("row %s: metadata.toolCalls is not a list, ignoring", row.ID)
		return nil
	}
	return entries
}

// rawToolCallEntry covers both persisted shapes: the function-call shape
// {id, function:{name, arguments}} and the flat shape
// {id|tool_call_id, name|tool_name, arguments|args, result, error, ...}.
type rawToolCallEntry struct {
	ID          string           `json:"id"`
	ToolCallID  string           `json:"tool_call_id"`
	Function    *rawFunctionCall `json:"function"`
	Name        string           `json:"name"`
	ToolName    string           `json:"tool_name"`
	Arguments   json.RawMessage  `json:"arguments"`
	Args        json.RawMessage  `json:"args"`
	Result      string           `json:"result"`
	FinalResult string           `json:"finalResult"`
	Error       string           `json:"error"`
	Completed   bool             `json:"completed"`
	StreamLog   string           `json:"streamLog"`
	CreatedAt   int64            `json:"createdAt"`
}

type rawFunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// decodeToolCallEntry normalizes one raw tool call entry. Entries matching
// neither shape (no resolvable name) are skipped with a warning.
func decodeToolCallEntry(messageID string, ordinal int, raw json.RawMessage) (ToolCall, bool) {
	var entry rawToolCallEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		LogWarn("row %s: malformed tool call entry %d, skipping: %v", messageID, ordinal, err)
		return ToolCall{}, false
	}

	call := ToolCall{
		ID:          entry.ID,
		Result:      entry.Result,
		FinalResult: entry.FinalResult,
		Error:       entry.Error,
		Completed:   entry.Completed,
		StreamLog:   entry.StreamLog,
		CreatedAt:   entry.CreatedAt,
	}

	if entry.Function != nil {
		call.Name = entry.Function.Name
		call.Arguments = decodeArguments(messageID, entry.Function.Arguments)
	} else {
		call.Name = entry.Name
		if call.Name == "" {
			call.Name = entry.ToolName
		}
		args := entry.Arguments
		if len(args) == 0 {
			args = entry.Args
		}
		call.Arguments = decodeArguments(messageID, args)
	}

	if call.Name == "" {
		LogWarn("row %s: tool call entry %d matches no known shape, skipping", messageID, ordinal)
		return ToolCall{}, false
	}

	if call.ID == "" {
		call.ID = entry.ToolCallID
	}
	if call.ID == "" {
		call.ID = synthToolCallID(messageID, ordinal)
	}
	return call, true
}

// synthToolCallID generates an id for a tool call entry that carries none.
// It is a pure function of (message id, ordinal) so normalization stays
// reproducible.
func synthToolCallID(messageID string, ordinal int) string {
	return fmt.Sprintf("%s-tool-%d", messageID, ordinal)
}

// decodeArguments parses tool call arguments. Strings are JSON-decoded one
// level; a string that fails to decode is kept verbatim.
func decodeArguments(messageID string, raw json.RawMessage) interface{} {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		LogWarn("row %s: malformed tool call arguments, keeping raw: %v", messageID, err)
		return string(raw)
	}

	if s, ok := v.(string); ok {
		var inner interface{}
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return s
		}
		return inner
	}
	return v
}

// DanglingToolCallIDs returns the tool-result ids in rows that resolve to no
// tool call on any assistant row. The backfill fetcher uses this to decide
// whether older pages are needed.
func DanglingToolCallIDs(rows []RawRow) []string {
	known := make(map[string]bool)
	for i := range rows {
		row := &rows[i]
		if row.Role != RoleAssistant {
			continue
		}
		meta := row.DecodeMetadata()
		for j, entry := range rawToolCallEntries(row, meta) {
			if call, ok := decodeToolCallEntry(row.ID, j, entry); ok {
				known[call.ID] = true
			}
		}
	}

	var missing []string
	seen := make(map[string]bool)
	for i := range rows {
		row := &rows[i]
		if row.Role != RoleTool || row.ToolCallID == "" {
			continue
		}
		if !known[row.ToolCallID] && !seen[row.ToolCallID] {
			seen[row.ToolCallID] = true
			missing = append(missing, row.ToolCallID)
		}
	}
	return missing
}
