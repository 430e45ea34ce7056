package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conversation bundles the state of one chat. It is created on the first
// turn (or by the setup wizard) and passed explicitly to every operation.
type Conversation struct {
	ID        string
	Store     *Store
	Memory    *Memory
	StartedAt time.Time
}

// NewConversation creates an isolated conversation with a fresh ID.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		Store:     NewStore(),
		Memory:    NewMemory(),
		StartedAt: time.Now(),
	}
}

// Reset tears down everything the user can clear: configuration, chat
// history and memory. Metrics survive.
func (c *Conversation) Reset() {
	c.Store.Reset()
	c.Memory.ClearAll()
}

// Registry isolates conversations by ID when a process serves several.
type Registry struct {
	mu    sync.RWMutex
	convs map[string]*Conversation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{convs: make(map[string]*Conversation)}
}

// Open creates and registers a new conversation.
func (r *Registry) Open() *Conversation {
	c := NewConversation()
	r.mu.Lock()
	r.convs[c.ID] = c
	r.mu.Unlock()
	return c
}

// Get returns the conversation registered under id.
func (r *Registry) Get(id string) (*Conversation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.convs[id]
	return c, ok
}

// Close forgets the conversation registered under id.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	delete(r.convs, id)
	r.mu.Unlock()
}

// Len returns the number of open conversations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.convs)
}
