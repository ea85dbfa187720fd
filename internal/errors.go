package internal

import "fmt"

// FetchError represents errors talking to the message source
type FetchError struct {
	SessionID string
	Op        string // "page", "process"
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error: %s [%s]: %v", e.Op, e.SessionID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError represents errors decoding raw row payloads
type DecodeError struct {
	MessageID string
	Field     string // "metadata", "toolCalls", "arguments"
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error [%s] %s: %v", e.MessageID, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ProcessLoadError represents errors loading turn-process sub-messages
type ProcessLoadError struct {
	SessionID     string
	UserMessageID string
	Err           error
}

func (e *ProcessLoadError) Error() string {
	return fmt.Sprintf("process load error [%s/%s]: %v", e.SessionID, e.UserMessageID, e.Err)
}

func (e *ProcessLoadError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
