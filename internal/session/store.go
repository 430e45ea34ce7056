// Package session holds per-conversation state: the setup configuration,
// the chat history, running metrics and the conversation memory.
// Nothing here is shared between conversations.
package session

import (
	"time"

	"github.com/alexanderramin/elfshift/internal/domain"
)

// Store keeps the configuration, chat history and metrics of one
// conversation. It has a single writer and does no locking.
type Store struct {
	config   *domain.Configuration
	messages []domain.ChatMessage
	metrics  domain.SystemMetrics
	now      func() time.Time
}

// NewStore creates an empty, unconfigured store.
func NewStore() *Store {
	return newStoreWithClock(time.Now)
}

func newStoreWithClock(now func() time.Time) *Store {
	return &Store{now: now, metrics: domain.SystemMetrics{LastUpdated: now()}}
}

// IsConfigured reports whether setup has completed.
func (s *Store) IsConfigured() bool {
	return s.config != nil
}

// Setup validates fields and stores the configuration. On error the store
// is left unchanged.
func (s *Store) Setup(fields domain.SetupFields) error {
	cfg, err := domain.NewConfiguration(fields, s.now())
	if err != nil {
		return err
	}
	s.config = cfg
	return nil
}

// Configuration returns a copy of the active configuration.
func (s *Store) Configuration() (domain.Configuration, bool) {
	if s.config == nil {
		return domain.Configuration{}, false
	}
	return *s.config, true
}

// Get returns the configuration value stored under key, or def when the
// store is unconfigured or the key is unknown.
func (s *Store) Get(key string, def any) any {
	if s.config == nil {
		return def
	}
	if v, ok := s.config.Fields()[key]; ok {
		return v
	}
	return def
}

// GetString is Get for text fields.
func (s *Store) GetString(key, def string) string {
	if v, ok := s.Get(key, def).(string); ok {
		return v
	}
	return def
}

// GetAll returns every stored value: configuration keys, messages and metrics.
func (s *Store) GetAll() map[string]any {
	all := map[string]any{
		"configured": s.IsConfigured(),
		"messages":   s.Messages(),
		"metrics":    s.metrics,
	}
	if s.config != nil {
		for k, v := range s.config.Fields() {
			all[k] = v
		}
	}
	return all
}

// Reset clears the configuration and the chat history. Metrics keep
// accumulating across resets.
func (s *Store) Reset() {
	s.config = nil
	s.messages = nil
}

// AddMessage appends a message to the chat history with the current time.
func (s *Store) AddMessage(role domain.Role, content string, metadata []domain.Substitution) {
	s.messages = append(s.messages, domain.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
		Metadata:  metadata,
	})
}

// Messages returns a copy of the chat history in insertion order.
func (s *Store) Messages() []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// UpdateMetrics records one completed turn.
func (s *Store) UpdateMetrics(count int, duration time.Duration, cost float64) {
	s.metrics.Record(count, duration, cost, s.now())
}

// Metrics returns the current counters.
func (s *Store) Metrics() domain.SystemMetrics {
	return s.metrics
}
