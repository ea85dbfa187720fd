package internal

// Session represents a reconciled session timeline in document form, the
// shape consumed by the export package and the CLI.
type Session struct {
	ID       string              `json:"id"`
	Messages []NormalizedMessage `json:"messages"`
	Metadata SessionMetadata     `json:"metadata,omitempty"`
}

// SessionMetadata contains additional session information
type SessionMetadata struct {
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
	MessageCount int    `json:"message_count"`
	Name         string `json:"name,omitempty"`
}

// SessionInfo is a listing entry derived from the message store
type SessionInfo struct {
	ID           string
	MessageCount int
	CreatedAt    int64
	UpdatedAt    int64
}
