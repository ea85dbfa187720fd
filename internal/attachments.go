package internal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawAttachment is the descriptor shape found in message metadata
type rawAttachment struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Preview  string  `json:"preview"`
	Size     float64 `json:"size"`
	MimeType string  `json:"mimeType"`
	Type     string  `json:"type"`
}

// normalizeAttachments classifies the raw attachment descriptors on a row.
// Absent or empty input yields nil so the attachments key is omitted.
func normalizeAttachments(row *RawRow, meta map[string]interface{}) []Attachment {
	v, ok := meta["attachments"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var raws []rawAttachment
	if err := json.Unmarshal(data, &raws); err != nil {
		LogWarn("row %s: malformed attachments list, ignoring", row.ID)
		return nil
	}
	if len(raws) == 0 {
		return nil
	}

	attachments := make([]Attachment, 0, len(raws))
	for i, raw := range raws {
		url := raw.URL
		if url == "" {
			url = raw.Preview
		}
		id := raw.ID
		if id == "" {
			id = fmt.Sprintf("%s-att-%d", row.ID, i)
		}
		attachments = append(attachments, Attachment{
			ID:        id,
			MessageID: row.ID,
			Type:      classifyAttachment(raw.MimeType, raw.Type, url),
			Name:      raw.Name,
			URL:       url,
			Size:      int64(raw.Size),
			MimeType:  raw.MimeType,
		})
	}
	return attachments
}

// classifyAttachment applies the typing rule: image requires a url/preview,
// image or audio mime without one downgrades to file.
func classifyAttachment(mime, declared, url string) AttachmentType {
	if url != "" {
		switch {
		case strings.HasPrefix(mime, "image/"):
			return AttachmentImage
		case strings.HasPrefix(mime, "audio/"):
			return AttachmentAudio
		}
		if mime == "" {
			switch declared {
			case "image":
				return AttachmentImage
			case "audio":
				return AttachmentAudio
			}
		}
	}
	return AttachmentFile
}
