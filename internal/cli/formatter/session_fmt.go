package formatter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/elfshift/internal/domain"
)

// FormatConfig renders the active setup: schedule file, template, structure
// and rules.
func FormatConfig(cfg domain.Configuration) string {
	var b strings.Builder
	const w = 9
	b.WriteString(KeyValue("FILE", w, Bold(cfg.FileName)+" "+Dim("("+FileSize(cfg.FilePath)+")")))
	b.WriteString(KeyValue("PERCORSO", w, Dim(cfg.FilePath)))
	b.WriteString(KeyValue("TEMPLATE", w, cfg.Template))
	b.WriteString(KeyValue("CREATO", w, HumanTimestamp(cfg.CreatedAt)))
	b.WriteString("\n" + Header("Struttura") + "\n")
	b.WriteString(Indent(cfg.Structure, "  ") + "\n")
	b.WriteString("\n" + Header("Regole") + "\n")
	b.WriteString(Indent(cfg.Rules, "  ") + "\n")
	return RenderBox("Configurazione", b.String())
}

// FormatNotConfigured is shown by /config before the wizard has run.
func FormatNotConfigured() string {
	return Warning("⚙️ Nessuna configurazione attiva.") + " " + Dim("Usa /reset per avviare il setup.")
}

// FormatMetrics renders the session counters.
func FormatMetrics(m domain.SystemMetrics) string {
	var b strings.Builder
	const w = 14
	b.WriteString(KeyValue("RICHIESTE", w, fmt.Sprintf("%d", m.TotalRequests)))
	b.WriteString(KeyValue("SOSTITUZIONI", w, fmt.Sprintf("%d", m.TotalSubstitutions)))
	b.WriteString(KeyValue("TEMPO MEDIO", w, Seconds(m.AvgResponseSeconds)))
	b.WriteString(KeyValue("COSTO TOTALE", w, EUR(m.TotalCost)))
	b.WriteString(KeyValue("AGGIORNATO", w, HumanTimestamp(m.LastUpdated)))
	return RenderBox("Metriche", b.String())
}

// FormatSetupSummary confirms a completed wizard run.
func FormatSetupSummary(cfg domain.Configuration) string {
	return Success("✅ Setup completato: ") + Bold(filepath.Base(cfg.FileName)) +
		Dim(" · template "+cfg.Template)
}

// FormatUserLine echoes a user message in the chat transcript.
func FormatUserLine(text string) string {
	return StyleBlue.Render("tu › ") + text
}

// FormatSystemLine renders an informational line in the chat transcript.
func FormatSystemLine(text string) string {
	return Dim("· " + text)
}

// FormatTurnFooter renders the per-turn timing and cost line.
func FormatTurnFooter(count int, seconds, cost float64) string {
	return Dim(fmt.Sprintf("%s · %s · %s", SubstitutionCount(count), Seconds(seconds), EUR(cost)))
}
