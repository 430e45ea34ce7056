package domain

import (
	"fmt"
	"regexp"
	"time"
)

var snapshotNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// Snapshot is an explicit, user-requested archive of a conversation's turn
// log and accumulated substitutions.
type Snapshot struct {
	ID            string
	Name          string
	Template      string
	FileName      string
	LastRequest   string
	MemoryJSON    string
	TurnCount     int
	Substitutions []Substitution
	CreatedAt     time.Time
}

// ValidateSnapshotName checks that name is usable as a snapshot key.
func ValidateSnapshotName(name string) error {
	if !snapshotNamePattern.MatchString(name) {
		return &FieldError{Field: "name", Reason: fmt.Sprintf("invalid snapshot name %q", name)}
	}
	return nil
}

// DefaultSnapshotName derives a name from the save time.
func DefaultSnapshotName(now time.Time) string {
	return "snapshot_" + now.Format("20060102_150405")
}
