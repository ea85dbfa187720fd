package internal

import (
	"encoding/json"
	"testing"
)

func TestClassifyAttachment(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		declared string
		url      string
		want     AttachmentType
	}{
		{"image mime with url", "image/png", "", "https://x/img.png", AttachmentImage},
		{"image mime without url downgrades", "image/png", "image", "", AttachmentFile},
		{"audio mime with url", "audio/mpeg", "", "https://x/a.mp3", AttachmentAudio},
		{"audio mime without url downgrades", "audio/mpeg", "", "", AttachmentFile},
		{"no mime honors declared image", "", "image", "https://x/img", AttachmentImage},
		{"no mime honors declared audio", "", "audio", "https://x/a", AttachmentAudio},
		{"declared image without url downgrades", "", "image", "", AttachmentFile},
		{"pdf is a file", "application/pdf", "", "https://x/doc.pdf", AttachmentFile},
		{"nothing known", "", "", "", AttachmentFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyAttachment(tt.mime, tt.declared, tt.url); got != tt.want {
				t.Errorf("classifyAttachment(%q, %q, %q) = %s, want %s", tt.mime, tt.declared, tt.url, got, tt.want)
			}
		})
	}
}

func TestNormalizeAttachments(t *testing.T) {
	row := RawRow{
		ID:        "m1",
		SessionID: "s1",
		Role:      RoleUser,
		Metadata: json.RawMessage(`{"attachments":[
			{"id":"att1","name":"shot.png","url":"https://x/shot.png","mimeType":"image/png","size":2048},
			{"name":"notes.txt","preview":"https://x/notes.txt","mimeType":"text/plain"}
		]}`),
	}

	attachments := normalizeAttachments(&row, row.DecodeMetadata())
	if len(attachments) != 2 {
		t.Fatalf("got %d attachments, want 2", len(attachments))
	}

	first := attachments[0]
	if first.ID != "att1" || first.Type != AttachmentImage || first.Size != 2048 {
		t.Errorf("first attachment = %+v", first)
	}
	if first.MessageID != "m1" {
		t.Errorf("first attachment MessageID = %q, want m1", first.MessageID)
	}

	second := attachments[1]
	if second.ID != "m1-att-1" {
		t.Errorf("synthesized id = %q, want m1-att-1", second.ID)
	}
	if second.URL != "https://x/notes.txt" {
		t.Errorf("preview should back-fill url, got %q", second.URL)
	}
	if second.Type != AttachmentFile {
		t.Errorf("second attachment type = %s, want file", second.Type)
	}
}

func TestNormalizeAttachmentsAbsent(t *testing.T) {
	tests := []struct {
		name string
		meta string
	}{
		{"no metadata", ``},
		{"no attachments key", `{"status":"completed"}`},
		{"empty list", `{"attachments":[]}`},
		{"malformed list", `{"attachments":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := RawRow{ID: "m1"}
			if tt.meta != "" {
				row.Metadata = json.RawMessage(tt.meta)
			}
			if got := normalizeAttachments(&row, row.DecodeMetadata()); got != nil {
				t.Errorf("expected nil attachments, got %+v", got)
			}
		})
	}
}
