package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/elfshift/internal/domain"
)

// FormatSnapshotList renders archived snapshots, newest first.
func FormatSnapshotList(snaps []*domain.Snapshot) string {
	if len(snaps) == 0 {
		return Dim("No snapshots saved yet. Use /save inside a chat.")
	}
	headers := []string{"NAME", "TEMPLATE", "FILE", "TURNS", "CREATED"}
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			Bold(s.Name),
			s.Template,
			Dim(s.FileName),
			fmt.Sprintf("%d", s.TurnCount),
			HumanTimestamp(s.CreatedAt),
		})
	}
	return RenderBox("Snapshots", RenderTable(headers, rows))
}

// FormatSnapshotShow renders one snapshot with its substitution table.
func FormatSnapshotShow(s *domain.Snapshot) string {
	var b strings.Builder
	const w = 9
	b.WriteString(KeyValue("NAME", w, Bold(s.Name)))
	b.WriteString(KeyValue("TEMPLATE", w, s.Template))
	b.WriteString(KeyValue("FILE", w, s.FileName))
	b.WriteString(KeyValue("TURNS", w, fmt.Sprintf("%d", s.TurnCount)))
	b.WriteString(KeyValue("CREATED", w, HumanTimestamp(s.CreatedAt)))
	if s.LastRequest != "" {
		b.WriteString(KeyValue("REQUEST", w, Truncate(s.LastRequest, 60)))
	}
	b.WriteString("\n")
	b.WriteString(RenderSubstitutions(s.Substitutions))
	return RenderBox("Snapshot", b.String())
}

// FormatSnapshotSaved confirms a /save.
func FormatSnapshotSaved(s *domain.Snapshot) string {
	return Success("💾 Snapshot salvato: ") + Bold(s.Name) +
		Dim(fmt.Sprintf(" (%s)", SubstitutionCount(len(s.Substitutions))))
}

// FormatSnapshotLoaded confirms a /load.
func FormatSnapshotLoaded(s *domain.Snapshot) string {
	return Success("📂 Snapshot caricato: ") + Bold(s.Name) +
		Dim(fmt.Sprintf(" (%s, %s)", SubstitutionCount(len(s.Substitutions)), HumanTimestamp(s.CreatedAt)))
}
