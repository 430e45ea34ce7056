package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/elfshift/internal/domain"
)

// FormatTemplateList renders a styled template list inside a bordered box.
func FormatTemplateList(templates []domain.Template) string {
	headers := []string{"#", "ID", "NAME", "SOURCE", "DESCRIPTION"}
	rows := make([][]string, 0, len(templates))

	for i, t := range templates {
		rows = append(rows, []string{
			Dim(strconv.Itoa(i + 1)),
			Bold(t.ID),
			t.Name,
			Dim(t.Source),
			Truncate(t.Description, 48),
		})
	}

	return RenderBox("Templates", RenderTable(headers, rows))
}

// FormatTemplateShow renders a template detail card with its structure and
// rules text.
func FormatTemplateShow(t *domain.Template) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(t.Name) + "  " + Dim("("+t.ID+", "+t.Source+")") + "\n")
	if t.Description != "" {
		b.WriteString(Dim(t.Description) + "\n")
	}

	b.WriteString("\n" + Header("Struttura") + "\n")
	b.WriteString(Indent(t.Structure, "  ") + "\n")
	b.WriteString("\n" + Header("Regole") + "\n")
	b.WriteString(Indent(t.Rules, "  ") + "\n")

	return RenderBox("", b.String())
}
