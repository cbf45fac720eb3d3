// File: internal/domain/conversation.go
package domain

import "time"

// Message roles. The backend only ever speaks as "assistant".
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Source is one retrieved passage attached to an assistant answer.
type Source struct {
	ChunkID string `json:"chunk_id"`
	Text    string `json:"text"`
}

// Message is a single entry in a conversation. Messages are immutable
// once created; conversations only ever append.
type Message struct {
	ID              string    `json:"id"`
	Role            string    `json:"role"` // "user" or "assistant"
	Content         string    `json:"content"`
	Timestamp       time.Time `json:"timestamp"`
	Sources         []Source  `json:"sources,omitempty"`
	ExpandedQueries []string  `json:"expanded_queries,omitempty"`
}

// Conversation represents a single chat thread. The title is derived
// from the first user message, never user-authored.
type Conversation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Messages    []Message `json:"messages"`
	LastUpdated time.Time `json:"lastUpdated"`
}
