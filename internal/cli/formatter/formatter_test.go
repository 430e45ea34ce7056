package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/intelligence"
	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func hat(s string) *string { return &s }

func TestRenderSubstitutions_Empty(t *testing.T) {
	out := stripANSI(RenderSubstitutions(nil))
	assert.Contains(t, out, NoSubstitutionsMessage)
	assert.NotContains(t, out, "Giorno")
}

func TestRenderSubstitutions_Rows(t *testing.T) {
	subs := []domain.Substitution{{
		Day: "Lunedì", Hour: 4, Department: "PE", Absent: "Scintillino",
		AbsentHat: hat("Rosso"), Substitute: "Brillastella", AppliedRule: "Ora Jolly",
	}}
	out := stripANSI(RenderSubstitutions(subs))
	for _, want := range []string{"Giorno", "Ora", "Reparto", "Assente", "Sostituto", "Regola",
		"Lunedì", "4^", "PE", "Scintillino (Rosso)", "Brillastella", "Ora Jolly"} {
		assert.Contains(t, out, want)
	}
}

func TestHourLabel(t *testing.T) {
	assert.Equal(t, "4^", HourLabel(4))
	assert.Equal(t, "10^", HourLabel(10))
}

func TestSubstitutionCount(t *testing.T) {
	assert.Equal(t, "1 sostituzione", SubstitutionCount(1))
	assert.Equal(t, "0 sostituzioni", SubstitutionCount(0))
	assert.Equal(t, "3 sostituzioni", SubstitutionCount(3))
}

func TestRuleStyle_UnknownFallsBackToForeground(t *testing.T) {
	assert.Equal(t, StyleGreen.Render("x"), RuleStyle(" ora JOLLY ").Render("x"))
	assert.Equal(t, StyleFg.Render("x"), RuleStyle("Regola Nuova").Render("x"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "Lunedì", Truncate("  Lunedì ", 6))
	assert.Equal(t, "…", Truncate("abc", 1))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2025, 12, 24, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, "--", HumanTimestampFrom(time.Time{}, now))
	assert.Equal(t, "3 minutes ago", HumanTimestampFrom(now.Add(-3*time.Minute), now))
	old := now.AddDate(0, 0, -30)
	assert.Equal(t, old.Local().Format("2 Jan 2006 15:04"), HumanTimestampFrom(old, now))
}

func TestFormatMetrics(t *testing.T) {
	out := stripANSI(FormatMetrics(domain.SystemMetrics{
		TotalRequests: 3, TotalSubstitutions: 7, AvgResponseSeconds: 4, TotalCost: 0.0123,
	}))
	assert.Contains(t, out, "METRICHE")
	assert.Contains(t, out, "4.00s")
	assert.Contains(t, out, "€0.0123")
}

func TestFormatConfig(t *testing.T) {
	out := stripANSI(FormatConfig(domain.Configuration{
		FilePath: "/nonexistent/orario.xlsx", FileName: "orario.xlsx",
		Structure: "Righe: elfi", Rules: "1. Ora Jolly", Template: "polo_nord",
	}))
	assert.Contains(t, out, "orario.xlsx")
	assert.Contains(t, out, "(--)")
	assert.Contains(t, out, "Righe: elfi")
	assert.Contains(t, out, "1. Ora Jolly")
}

func TestFormatUnknownCommand(t *testing.T) {
	out := stripANSI(FormatUnknownCommand("/mertics", []string{"/metrics"}))
	assert.Contains(t, out, "/mertics")
	assert.Contains(t, out, "forse intendevi /metrics?")
	assert.NotContains(t, stripANSI(FormatUnknownCommand("/zzz", nil)), "forse")
}

func TestFormatExplanation_MarksFallback(t *testing.T) {
	out := stripANSI(FormatExplanation(&intelligence.Explanation{Text: "ok", Source: intelligence.SourceDeterministic}))
	assert.Contains(t, out, "SPIEGAZIONE (RIEPILOGO)")
	out = stripANSI(FormatExplanation(&intelligence.Explanation{Text: "ok", Source: intelligence.SourceLLM, Model: "gpt-4o"}))
	assert.Contains(t, out, "SPIEGAZIONE")
	assert.NotContains(t, out, "RIEPILOGO")
	assert.Contains(t, out, "modello: gpt-4o")
}

func TestRenderStory_PlainRendererKeepsText(t *testing.T) {
	out := RenderStory(&StoryRenderer{}, "  C'era una volta  ", "abcd1234")
	assert.Equal(t, "C'era una volta\n"+Dim("storia #abcd1234"), out)
}

func TestFormatSnapshotShow(t *testing.T) {
	snap := &domain.Snapshot{
		Name: "vigilia", Template: "polo_nord", FileName: "orario.xlsx", TurnCount: 4,
		LastRequest: "Scintillino è malato",
		Substitutions: []domain.Substitution{{Day: "Lunedì", Hour: 4, Department: "PE",
			Absent: "Scintillino", Substitute: "Brillastella", AppliedRule: "Ora Jolly"}},
		CreatedAt: time.Now().Add(-time.Hour),
	}
	out := stripANSI(FormatSnapshotShow(snap))
	assert.Contains(t, out, "vigilia")
	assert.Contains(t, out, "Scintillino è malato")
	assert.Contains(t, out, "Brillastella")
}

func TestFormatSnapshotList_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatSnapshotList(nil)), "No snapshots saved yet")
}
