package domain

import "time"

// Role identifies who authored a chat message or memory turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of the append-only chat history. Metadata carries
// the substitutions attached to an assistant answer.
type ChatMessage struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  []Substitution `json:"metadata,omitempty"`
}

// HasMetadata reports whether structured substitutions are attached.
func (m ChatMessage) HasMetadata() bool {
	return m.Metadata != nil
}

// ConversationalContext is the per-turn snapshot used to summarize prior
// results back into later prompts.
type ConversationalContext struct {
	Request       string         `json:"richiesta"`
	Substitutions []Substitution `json:"sostituzioni"`
	GeneratedCode string         `json:"codice_generato,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}
