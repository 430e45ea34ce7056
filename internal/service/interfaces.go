package service

import (
	"context"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/intelligence"
	"github.com/alexanderramin/elfshift/internal/session"
)

// ChatService runs one user turn at a time against a conversation.
type ChatService interface {
	// HandleMessage never returns an error and never panics: every failure
	// is folded into the TurnResult so the caller can go back to input.
	HandleMessage(ctx context.Context, conv *session.Conversation, text string, opts TurnOptions) *TurnResult

	// Explain answers a question about the substitutions held in memory.
	Explain(ctx context.Context, conv *session.Conversation, question string) (*intelligence.Explanation, error)
}

// SnapshotService archives and restores conversation memory.
type SnapshotService interface {
	Save(ctx context.Context, conv *session.Conversation, name string) (*domain.Snapshot, error)
	Load(ctx context.Context, conv *session.Conversation, name string) (*domain.Snapshot, error)
	Get(ctx context.Context, name string) (*domain.Snapshot, error)
	List(ctx context.Context) ([]*domain.Snapshot, error)
	Delete(ctx context.Context, name string) error
}

// TemplateService exposes the setup presets.
type TemplateService interface {
	List(ctx context.Context) ([]domain.Template, error)
	Get(ctx context.Context, name string) (*domain.Template, error)
}
