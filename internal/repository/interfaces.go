package repository

import (
	"context"

	"github.com/alexanderramin/elfshift/internal/domain"
)

// SnapshotRepo persists conversation snapshots and their substitution rows.
type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.Snapshot) error
	GetByName(ctx context.Context, name string) (*domain.Snapshot, error)
	List(ctx context.Context) ([]*domain.Snapshot, error)
	Delete(ctx context.Context, name string) error
}
