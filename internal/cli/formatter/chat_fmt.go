package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/elfshift/internal/intelligence"
)

// CommandInfo describes one chat slash command for /help.
type CommandInfo struct {
	Name    string
	Args    string
	Summary string
}

// FormatChatWelcome is the banner shown when the chat opens.
func FormatChatWelcome(fileName string) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("🎄 Elfshift") + Dim(" · sostituzioni di turno al Polo Nord") + "\n")
	if fileName != "" {
		b.WriteString(Dim("Orario: "+fileName) + "\n")
	}
	b.WriteString(Dim("Descrivi un'assenza (es. \"Scintillino è malato\") oppure /help per i comandi."))
	return b.String()
}

// FormatCommandList renders the slash command table for /help.
func FormatCommandList(cmds []CommandInfo) string {
	width := 0
	for _, c := range cmds {
		if w := len(c.usage()); w > width {
			width = w
		}
	}
	var b strings.Builder
	for _, c := range cmds {
		u := c.usage()
		fmt.Fprintf(&b, "  %s%s  %s\n", StylePurple.Render(u), strings.Repeat(" ", width-len(u)), Dim(c.Summary))
	}
	return RenderBox("Comandi", b.String())
}

func (c CommandInfo) usage() string {
	if c.Args == "" {
		return c.Name
	}
	return c.Name + " " + c.Args
}

// FormatUnknownCommand reports an unrecognized slash command together with
// the closest matches.
func FormatUnknownCommand(name string, suggestions []string) string {
	msg := Warning("Comando sconosciuto: " + name)
	if len(suggestions) > 0 {
		msg += Dim(" · forse intendevi " + strings.Join(suggestions, ", ") + "?")
	}
	return msg
}

// FormatExplanation renders an explainer answer, marking fallback answers.
func FormatExplanation(e *intelligence.Explanation) string {
	if e == nil {
		return ""
	}
	title := "Spiegazione"
	if e.Source == intelligence.SourceDeterministic {
		title += " (riepilogo)"
	}
	body := e.Text
	if e.Model != "" {
		body += "\n\n" + Dim("modello: "+e.Model)
	}
	return RenderBox(title, body)
}
