package formatter

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// StoryRenderer renders narrated stories as terminal markdown. The zero
// value renders plain text.
type StoryRenderer struct {
	renderer *glamour.TermRenderer
}

// NewStoryRenderer builds a renderer wrapping at width columns. A failure to
// build the glamour renderer degrades to plain text.
func NewStoryRenderer(width int) *StoryRenderer {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return &StoryRenderer{}
	}
	return &StoryRenderer{renderer: r}
}

// Render returns the story as styled markdown, or the trimmed input when
// rendering is unavailable or fails.
func (s *StoryRenderer) Render(text string) (out string) {
	text = strings.TrimSpace(text)
	if s == nil || s.renderer == nil || text == "" {
		return text
	}
	defer func() {
		if r := recover(); r != nil {
			out = text
		}
	}()
	rendered, err := s.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(rendered, "\n")
}

// RenderStory renders a narrated story followed by its reference hash.
func RenderStory(r *StoryRenderer, text, hash string) string {
	var b strings.Builder
	b.WriteString(r.Render(text))
	if hash != "" {
		b.WriteString("\n" + Dim("storia #"+hash))
	}
	return b.String()
}
