package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateSnapshotName(t *testing.T) {
	for _, ok := range []string{"vigilia", "turno_24-12", "a.b", "X1"} {
		assert.NoError(t, ValidateSnapshotName(ok), ok)
	}
	for _, bad := range []string{"", "-lead", "con spazio", "../etc", "è"} {
		err := ValidateSnapshotName(bad)
		assert.ErrorIs(t, err, ErrInvalidConfig, bad)
	}
}

func TestDefaultSnapshotName(t *testing.T) {
	now := time.Date(2025, 12, 24, 8, 30, 5, 0, time.UTC)

	name := DefaultSnapshotName(now)

	assert.Equal(t, "snapshot_20251224_083005", name)
	assert.NoError(t, ValidateSnapshotName(name))
}
