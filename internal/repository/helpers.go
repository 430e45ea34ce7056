package repository

import (
	"database/sql"
	"time"
)

const timeLayout = time.RFC3339Nano

// nullableString converts an optional string to a value suitable for SQLite
// storage. Returns nil (SQL NULL) if the pointer is nil.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// stringPtr converts a scanned sql.NullString back into an optional string.
func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
