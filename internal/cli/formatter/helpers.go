package formatter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + strings.TrimRight(content, "\n")
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(strings.TrimRight(content, "\n"))
}

// KeyValue renders an aligned "LABEL  value" line.
func KeyValue(label string, width int, value string) string {
	pad := width - lipgloss.Width(label)
	if pad < 0 {
		pad = 0
	}
	return fmt.Sprintf("  %s%s  %s\n", StyleDim.Render(label), strings.Repeat(" ", pad), value)
}

// HumanTimestamp renders t relative to now ("3 minutes ago"), falling back
// to an absolute date for anything older than a week.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

// HumanTimestampFrom is HumanTimestamp with an explicit reference time.
func HumanTimestampFrom(t, now time.Time) string {
	if t.IsZero() {
		return "--"
	}
	diff := now.Sub(t)
	if diff < 0 || diff > 7*24*time.Hour {
		return t.Local().Format("2 Jan 2006 15:04")
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FileSize renders the size of the file at path ("12 kB"), or "--" when it
// cannot be read.
func FileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "--"
	}
	return humanize.Bytes(uint64(info.Size()))
}

// Seconds renders a duration in seconds with two decimals.
func Seconds(sec float64) string {
	return fmt.Sprintf("%.2fs", sec)
}

// EUR renders an amount in euro with four decimals, enough for per-call
// agent costs.
func EUR(amount float64) string {
	return fmt.Sprintf("€%.4f", amount)
}

// Truncate shortens s to at most n visible runes, appending "…".
func Truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if n <= 0 || len(r) <= n {
		return string(r)
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// Indent prefixes every non-empty line of s with prefix.
func Indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
