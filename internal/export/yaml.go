package export

import (
	"io"

	"github.com/leeoohoo/chatos/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports sessions in YAML format
type YAMLExporter struct{}

// Export exports a session to YAML format
func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	out := *session
	out.Messages = visibleMessages(session)
	out.Metadata.MessageCount = len(out.Messages)

	enc := yaml.NewEncoder(w)
	defer enc.Close()

	return enc.Encode(&out)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
