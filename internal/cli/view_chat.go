package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/elfshift/internal/cli/formatter"
	"github.com/alexanderramin/elfshift/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// turnDoneMsg carries a finished chat turn back into the update loop.
type turnDoneMsg struct {
	res *service.TurnResult
}

// commandDoneMsg carries the result of a slow slash command.
type commandDoneMsg struct {
	res commandResult
}

type chatKeyMap struct {
	Send     key.Binding
	Quit     key.Binding
	Prev     key.Binding
	Next     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

var chatKeys = chatKeyMap{
	Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "invia")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "esci")),
	Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "cronologia")),
	Next:     key.NewBinding(key.WithKeys("down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "scorri")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
}

// chatView is the interactive chat. Only one turn runs at a time: input is
// ignored while a turn or a slow command is in flight.
type chatView struct {
	ctx     context.Context
	session *chatSession

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	lines []string
	busy  bool
	ready bool
	width int

	history     []string
	historyIdx  int
	historyPath string

	rerunWizard bool
	quitting    bool
}

func newChatView(ctx context.Context, s *chatSession) *chatView {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.Placeholder = "Scintillino è malato..."
	ti.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	v := &chatView{
		ctx:         ctx,
		session:     s,
		input:       ti,
		spinner:     sp,
		historyPath: s.app.Paths.HistoryFile,
	}
	v.history = loadHistoryFromPath(v.historyPath)
	v.historyIdx = len(v.history)

	fileName := s.conv.Store.GetString("file_name", "")
	v.lines = append(v.lines, formatter.FormatChatWelcome(fileName))
	return v
}

// ── tea.Model interface ──────────────────────────────────────────────────────

func (v *chatView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
		return v, nil

	case turnDoneMsg:
		v.busy = false
		v.appendLine(v.session.renderTurn(msg.res))
		return v, nil

	case commandDoneMsg:
		v.busy = false
		return v.applyCommand(msg.res)

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *chatView) View() string {
	if v.quitting {
		return ""
	}
	var b strings.Builder

	if v.ready {
		b.WriteString(v.viewport.View())
	} else {
		b.WriteString(v.transcript())
	}
	b.WriteString("\n")

	if v.busy {
		b.WriteString(v.spinner.View() + " " + formatter.Dim("Gli elfi stanno calcolando..."))
	} else {
		b.WriteString(formatter.StyleHeader.Render("tu") + formatter.Dim(" › "))
		b.WriteString(v.input.View())
	}
	b.WriteString("\n")
	b.WriteString(v.statusLine())

	return b.String()
}

// ── input handling ───────────────────────────────────────────────────────────

func (v *chatView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, chatKeys.Quit):
		v.quitting = true
		return v, tea.Quit
	case key.Matches(msg, chatKeys.PageUp), key.Matches(msg, chatKeys.PageDown):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	if v.busy {
		return v, nil
	}

	switch {
	case key.Matches(msg, chatKeys.Send):
		text := strings.TrimSpace(v.input.Value())
		v.input.Reset()
		if text == "" {
			return v, nil
		}
		v.remember(text)
		return v.submit(text)
	case key.Matches(msg, chatKeys.Prev):
		v.browseHistory(-1)
		return v, nil
	case key.Matches(msg, chatKeys.Next):
		v.browseHistory(1)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *chatView) submit(text string) (tea.Model, tea.Cmd) {
	if isCommand(text) {
		cmd, _, arg := lookupCommand(text)
		if cmd != nil && cmd.slow {
			v.appendLine(formatter.FormatUserLine(text))
			v.busy = true
			ctx, s, run := v.ctx, v.session, cmd.run
			return v, tea.Batch(v.spinner.Tick, func() tea.Msg {
				return commandDoneMsg{res: run(ctx, s, arg)}
			})
		}
		return v.applyCommand(v.session.runCommand(v.ctx, text))
	}

	v.appendLine(formatter.FormatUserLine(text))
	v.busy = true
	ctx, s := v.ctx, v.session
	return v, tea.Batch(v.spinner.Tick, func() tea.Msg {
		return turnDoneMsg{res: s.handle(ctx, text)}
	})
}

func (v *chatView) applyCommand(res commandResult) (tea.Model, tea.Cmd) {
	if res.output != "" {
		v.appendLine(res.output)
	}
	if res.rerunWizard {
		v.rerunWizard = true
		v.quitting = true
		return v, tea.Quit
	}
	if res.quit {
		v.quitting = true
		return v, tea.Quit
	}
	return v, nil
}

func (v *chatView) remember(text string) {
	v.history = append(v.history, text)
	if len(v.history) > maxHistoryLines {
		v.history = v.history[len(v.history)-maxHistoryLines:]
	}
	v.historyIdx = len(v.history)
	appendHistoryToPath(v.historyPath, text)
}

func (v *chatView) browseHistory(delta int) {
	if len(v.history) == 0 {
		return
	}
	idx := v.historyIdx + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(v.history) {
		v.historyIdx = len(v.history)
		v.input.SetValue("")
		return
	}
	v.historyIdx = idx
	v.input.SetValue(v.history[idx])
	v.input.CursorEnd()
}

// ── layout ───────────────────────────────────────────────────────────────────

const chatChromeHeight = 3

func (v *chatView) resize(width, height int) {
	v.width = width
	vpHeight := height - chatChromeHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !v.ready {
		v.viewport = viewport.New(width, vpHeight)
		v.ready = true
	} else {
		v.viewport.Width = width
		v.viewport.Height = vpHeight
	}
	v.input.Width = width - 6
	v.session.renderer = formatter.NewStoryRenderer(width - 4)
	v.refresh()
}

func (v *chatView) appendLine(s string) {
	v.lines = append(v.lines, s)
	v.refresh()
}

func (v *chatView) refresh() {
	if !v.ready {
		return
	}
	content := v.transcript()
	if v.width > 0 {
		content = lipgloss.NewStyle().Width(v.width).Render(content)
	}
	v.viewport.SetContent(content)
	v.viewport.GotoBottom()
}

func (v *chatView) transcript() string {
	return strings.Join(v.lines, "\n\n")
}

func (v *chatView) statusLine() string {
	parts := []string{
		chatKeys.Send.Help().Key + " " + chatKeys.Send.Help().Desc,
		chatKeys.Prev.Help().Key + " " + chatKeys.Prev.Help().Desc,
		chatKeys.PageUp.Help().Key + " " + chatKeys.PageUp.Help().Desc,
		"/help comandi",
		chatKeys.Quit.Help().Key + " " + chatKeys.Quit.Help().Desc,
	}
	if v.session.debug {
		parts = append(parts, formatter.StyleYellow.Render("debug"))
	}
	return formatter.Dim(strings.Join(parts, " · "))
}
