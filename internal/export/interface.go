package export

import (
	"fmt"
	"io"

	"github.com/leeoohoo/chatos/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(session *internal.Session, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// visibleMessages filters out rows folded away by the pipeline. Folding is
// count-preserving upstream; the export layer is where hidden rows drop out.
func visibleMessages(session *internal.Session) []internal.NormalizedMessage {
	visible := make([]internal.NormalizedMessage, 0, len(session.Messages))
	for _, msg := range session.Messages {
		if msg.Metadata.Hidden {
			continue
		}
		visible = append(visible, msg)
	}
	return visible
}
