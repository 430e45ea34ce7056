package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// NewTestScheduleFile writes a minimal file that passes the .xlsx signature
// check and returns its path. The sheet itself is never parsed locally.
func NewTestScheduleFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "orario.xlsx")
	data := append([]byte("PK\x03\x04"), []byte("elfshift test workbook")...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write schedule file: %v", err)
	}
	return path
}
