package formatter

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// NoSubstitutionsMessage is shown in place of an empty substitution table.
const NoSubstitutionsMessage = "Nessuna sostituzione necessaria."

var substitutionHeaders = []string{"Giorno", "Ora", "Reparto", "Assente", "Sostituto", "Regola"}

// RenderTable renders a rounded-border table with styled headers. Cell text
// may already carry ANSI styling.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render() + "\n"
}

// HourLabel renders an hour slot the way the schedule spreadsheets do ("4^").
func HourLabel(hour int) string {
	return fmt.Sprintf("%d^", hour)
}

// SubstitutionRows converts substitutions into table rows. The absent
// worker's hat, when known, is appended in parentheses.
func SubstitutionRows(subs []domain.Substitution) [][]string {
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		absent := s.Absent
		if hat := s.HatLabel(); hat != "" {
			absent += " (" + hat + ")"
		}
		rows = append(rows, []string{
			s.Day,
			HourLabel(s.Hour),
			s.Department,
			absent,
			StyleBold.Render(s.Substitute),
			RuleStyle(s.AppliedRule).Render(s.AppliedRule),
		})
	}
	return rows
}

// RenderSubstitutions renders the Giorno|Ora|Reparto|Assente|Sostituto|Regola
// table, or NoSubstitutionsMessage when subs is empty.
func RenderSubstitutions(subs []domain.Substitution) string {
	if len(subs) == 0 {
		return Dim(NoSubstitutionsMessage) + "\n"
	}
	return RenderTable(substitutionHeaders, SubstitutionRows(subs))
}

// SubstitutionCount renders "N sostituzioni" with the right singular form.
func SubstitutionCount(n int) string {
	if n == 1 {
		return "1 sostituzione"
	}
	return strconv.Itoa(n) + " sostituzioni"
}
