package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/elfshift/internal/db"
	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/repository"
	"github.com/alexanderramin/elfshift/internal/session"
	"github.com/google/uuid"
)

// ErrSnapshotNotFound indicates no snapshot carries the requested name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

type snapshotService struct {
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
	now       func() time.Time
	observer  UseCaseObserver
}

func NewSnapshotService(snapshots repository.SnapshotRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SnapshotService {
	return &snapshotService{
		snapshots: snapshots,
		uow:       uow,
		now:       func() time.Time { return time.Now().UTC() },
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Save archives the conversation's turn log and accumulated substitutions.
// An existing snapshot with the same name is replaced atomically.
func (s *snapshotService) Save(ctx context.Context, conv *session.Conversation, name string) (snap *domain.Snapshot, err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "snapshot-save", startedAt, err, snap)
	}()

	now := s.now()
	if name == "" {
		name = domain.DefaultSnapshotName(now)
	}
	if err := domain.ValidateSnapshotName(name); err != nil {
		return nil, err
	}

	memoryJSON, err := conv.Memory.ExportMemory()
	if err != nil {
		return nil, fmt.Errorf("exporting memory: %w", err)
	}

	snap = &domain.Snapshot{
		ID:            uuid.New().String(),
		Name:          name,
		Template:      conv.Store.GetString("template", ""),
		FileName:      conv.Store.GetString("file_name", ""),
		LastRequest:   conv.Memory.LastRequest(),
		MemoryJSON:    memoryJSON,
		TurnCount:     conv.Memory.ConversationLength(),
		Substitutions: conv.Memory.LastSubstitutions(),
		CreatedAt:     now,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)
		if err := txSnapshots.Delete(ctx, name); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return txSnapshots.Create(ctx, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("saving snapshot %q: %w", name, err)
	}
	return snap, nil
}

// Load replaces the conversation's memory with the named snapshot. The
// session configuration and metrics are left alone.
func (s *snapshotService) Load(ctx context.Context, conv *session.Conversation, name string) (snap *domain.Snapshot, err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "snapshot-load", startedAt, err, snap)
	}()

	snap, err = s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := conv.Memory.ImportMemory(snap.MemoryJSON); err != nil {
		return nil, fmt.Errorf("restoring snapshot %q: %w", name, err)
	}
	conv.Memory.RestoreSubstitutions(snap.LastRequest, snap.Substitutions, snap.CreatedAt)
	return snap, nil
}

func (s *snapshotService) Get(ctx context.Context, name string) (*domain.Snapshot, error) {
	snap, err := s.snapshots.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%q: %w", name, ErrSnapshotNotFound)
		}
		return nil, err
	}
	return snap, nil
}

func (s *snapshotService) List(ctx context.Context) ([]*domain.Snapshot, error) {
	return s.snapshots.List(ctx)
}

func (s *snapshotService) Delete(ctx context.Context, name string) error {
	if err := s.snapshots.Delete(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%q: %w", name, ErrSnapshotNotFound)
		}
		return err
	}
	return nil
}

func (s *snapshotService) observe(ctx context.Context, name string, startedAt time.Time, err error, snap *domain.Snapshot) {
	fields := map[string]any{}
	if snap != nil {
		fields["snapshot"] = snap.Name
		fields["substitutions"] = len(snap.Substitutions)
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
