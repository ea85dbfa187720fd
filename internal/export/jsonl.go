package export

import (
	"encoding/json"
	"io"

	"github.com/leeoohoo/chatos/internal"
)

// JSONLExporter exports sessions as one JSON message per line
type JSONLExporter struct{}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, msg := range visibleMessages(session) {
		if err := enc.Encode(&msg); err != nil {
			return err
		}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
