package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/elfshift/internal/db"
	"github.com/alexanderramin/elfshift/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo. Create writes several rows;
// run it inside a UnitOfWork to keep them atomic.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(db db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: db}
}

func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.Snapshot) error {
	query := `INSERT INTO snapshots (id, name, template, file_name, last_request, memory_json, turn_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Template,
		s.FileName,
		s.LastRequest,
		s.MemoryJSON,
		s.TurnCount,
		s.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	rowQuery := `INSERT INTO snapshot_substitutions
		(snapshot_id, position, giorno, ora, reparto, assente, cappello_assente, sostituto, regola_applicata, reasoning)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, sub := range s.Substitutions {
		_, err := r.db.ExecContext(ctx, rowQuery,
			s.ID, i,
			sub.Day, sub.Hour, sub.Department, sub.Absent,
			nullableString(sub.AbsentHat),
			sub.Substitute, sub.AppliedRule, sub.Reasoning,
		)
		if err != nil {
			return fmt.Errorf("inserting snapshot substitution %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteSnapshotRepo) GetByName(ctx context.Context, name string) (*domain.Snapshot, error) {
	query := `SELECT id, name, template, file_name, last_request, memory_json, turn_count, created_at
		FROM snapshots WHERE name = ?`
	s, err := r.scanSnapshot(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, err
	}

	subs, err := r.listSubstitutions(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Substitutions = subs
	return s, nil
}

// List returns snapshot headers newest first. Substitution rows are not loaded.
func (r *SQLiteSnapshotRepo) List(ctx context.Context) ([]*domain.Snapshot, error) {
	query := `SELECT id, name, template, file_name, last_request, memory_json, turn_count, created_at
		FROM snapshots ORDER BY created_at DESC, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.Snapshot
	for rows.Next() {
		s, err := r.scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return out, nil
}

func (r *SQLiteSnapshotRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("snapshot %q: %w", name, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) listSubstitutions(ctx context.Context, snapshotID string) ([]domain.Substitution, error) {
	query := `SELECT giorno, ora, reparto, assente, cappello_assente, sostituto, regola_applicata, reasoning
		FROM snapshot_substitutions WHERE snapshot_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot substitutions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Substitution
	for rows.Next() {
		var s domain.Substitution
		var hat sql.NullString
		if err := rows.Scan(&s.Day, &s.Hour, &s.Department, &s.Absent, &hat, &s.Substitute, &s.AppliedRule, &s.Reasoning); err != nil {
			return nil, fmt.Errorf("scanning snapshot substitution: %w", err)
		}
		s.AbsentHat = stringPtr(hat)
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot substitutions: %w", err)
	}
	return subs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteSnapshotRepo) scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var createdAt string
	err := row.Scan(&s.ID, &s.Name, &s.Template, &s.FileName, &s.LastRequest, &s.MemoryJSON, &s.TurnCount, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	s.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &s, nil
}
