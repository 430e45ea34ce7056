package testutil

import (
	"time"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/google/uuid"
)

// FixedNow is the reference clock used across fixtures.
var FixedNow = time.Date(2025, 12, 24, 8, 30, 0, 0, time.UTC)

// Substitution options
type SubstitutionOption func(*domain.Substitution)

func WithHat(hat string) SubstitutionOption {
	return func(s *domain.Substitution) {
		s.AbsentHat = &hat
	}
}

func WithReasoning(r string) SubstitutionOption {
	return func(s *domain.Substitution) {
		s.Reasoning = r
	}
}

func WithSlot(day string, hour int) SubstitutionOption {
	return func(s *domain.Substitution) {
		s.Day = day
		s.Hour = hour
	}
}

func NewTestSubstitution(absent, substitute string, opts ...SubstitutionOption) domain.Substitution {
	s := domain.Substitution{
		Day:         "Lunedì",
		Hour:        4,
		Department:  "PE",
		Absent:      absent,
		Substitute:  substitute,
		AppliedRule: "Ora Jolly",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Snapshot options
type SnapshotOption func(*domain.Snapshot)

func WithSubstitutions(subs ...domain.Substitution) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Substitutions = subs
	}
}

func WithCreatedAt(t time.Time) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.CreatedAt = t
	}
}

func NewTestSnapshot(name string, opts ...SnapshotOption) *domain.Snapshot {
	s := &domain.Snapshot{
		ID:          uuid.New().String(),
		Name:        name,
		Template:    "polo_nord",
		FileName:    "orario.xlsx",
		LastRequest: "Scintillino è malato",
		MemoryJSON:  `{"turns":[]}`,
		CreatedAt:   FixedNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestSetup returns setup fields that pass validation.
func NewTestSetup(filePath string) domain.SetupFields {
	return domain.SetupFields{
		FilePath:  filePath,
		FileName:  "orario.xlsx",
		Structure: "Nome Elfo | Cappello | LUN_1..MAR_6",
		Rules:     "1. Ora Jolly: chi ha Jolly copre per primo.",
		Template:  "polo_nord",
	}
}
