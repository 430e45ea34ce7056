package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/elfshift/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCascadeDelete_SnapshotToSubstitutions verifies that deleting a snapshot
// cascades to its substitution rows.
func TestCascadeDelete_SnapshotToSubstitutions(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSnapshotRepo(db)

	snap := testutil.NewTestSnapshot("martedi",
		testutil.WithSubstitutions(
			testutil.NewTestSubstitution("Scintillino", "Brillastella"),
			testutil.NewTestSubstitution("Fiocco", "Pan di Zenzero"),
		),
	)
	require.NoError(t, repo.Create(ctx, snap))

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snapshot_substitutions WHERE snapshot_id = ?`, snap.ID).Scan(&count))
	require.Equal(t, 2, count)

	require.NoError(t, repo.Delete(ctx, "martedi"))

	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snapshot_substitutions WHERE snapshot_id = ?`, snap.ID).Scan(&count))
	assert.Zero(t, count, "substitution rows should be cascade-deleted with their snapshot")
}

// TestForeignKey_SubstitutionNeedsSnapshot verifies rows cannot reference a
// missing snapshot.
func TestForeignKey_SubstitutionNeedsSnapshot(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO snapshot_substitutions
		(snapshot_id, position, giorno, ora, reparto, assente, cappello_assente, sostituto, regola_applicata, reasoning)
		VALUES ('missing', 0, 'Lunedì', '1', 'PE', 'A', NULL, 'B', 'r', 'x')`)
	assert.Error(t, err)
}
