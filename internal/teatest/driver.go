// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and the returned Cmds are executed inline, so a
// test sees the model exactly as a user would after each key press. Two kinds
// of Cmds need care: cursor blinks and spinner ticks block on timers, and
// chat turns block on the agents. Key presses drain with a short timeout
// that drops the former; Await runs a Cmd with no timeout for the latter.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds Cmd chains that keep producing messages.
const MaxDrainDepth = 100

// keyCmdTimeout separates instant Cmds from timer-driven ones. A cursor
// blink waits ~530ms; anything a key press needs returns in microseconds.
const keyCmdTimeout = 10 * time.Millisecond

// Driver owns a model under test.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg comes out of a Cmd. The bubbletea
	// runtime normally swallows that message, so the driver records it.
	Quitting bool
}

type Option func(*Driver)

// New wraps model. Call DrainInit before the first key press.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0, keyCmdTimeout)
}

// Send feeds msg through Update and drains the result the way a key press
// does. Messages sent after the model quit are dropped.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.drain(d.update(msg), 0, keyCmdTimeout)
}

// Await runs cmd to completion without a timeout and feeds every message
// it yields back through Update. Timer Cmds are dropped so a busy spinner
// does not loop forever.
func (d *Driver) Await(cmd tea.Cmd) {
	d.T.Helper()
	d.drain(cmd, 0, 0)
}

// Submit types text, presses enter and awaits whatever the model hands back.
func (d *Driver) Submit(text string) {
	d.T.Helper()
	d.Type(text)
	d.Await(d.update(tea.KeyMsg{Type: tea.KeyEnter}))
}

// PressEnterAsync presses enter and returns the Cmd unexecuted, so a test
// can look at the model while the work is still pending.
func (d *Driver) PressEnterAsync() tea.Cmd {
	d.T.Helper()
	return d.update(tea.KeyMsg{Type: tea.KeyEnter})
}

func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
}

func (d *Driver) PressUp() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyUp})
}

func (d *Driver) PressDown() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyDown})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) update(msg tea.Msg) tea.Cmd {
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	return cmd
}

// drain executes cmd and recurses into whatever it produces. A zero
// timeout waits for the Cmd however long it takes.
func (d *Driver) drain(cmd tea.Cmd, depth int, timeout time.Duration) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	var msg tea.Msg
	if timeout > 0 {
		msg = execWithTimeout(cmd, timeout)
	} else {
		msg = cmd()
	}

	switch m := msg.(type) {
	case nil, spinner.TickMsg:
		return
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1, timeout)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		d.update(m)
		return
	}
	if isCursorBlink(msg) {
		return
	}
	d.drain(d.update(msg), depth+1, timeout)
}

func execWithTimeout(cmd tea.Cmd, timeout time.Duration) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		return nil
	}
}

// isCursorBlink matches the unexported blink messages of bubbles/cursor.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
