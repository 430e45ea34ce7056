package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/elfshift/internal/cli/formatter"
	"github.com/alexanderramin/elfshift/internal/service"
	"github.com/alexanderramin/elfshift/internal/session"
)

// chatSession is the state shared by the TUI and the line-mode loop: one
// conversation, its debug toggle and the story renderer.
type chatSession struct {
	app      *App
	conv     *session.Conversation
	debug    bool
	renderer *formatter.StoryRenderer
}

func newChatSession(app *App, conv *session.Conversation) *chatSession {
	return &chatSession{
		app:      app,
		conv:     conv,
		debug:    app.Debug,
		renderer: &formatter.StoryRenderer{},
	}
}

// commandResult is what a slash command hands back to the loop.
type commandResult struct {
	output      string
	quit        bool
	rerunWizard bool
}

type chatCommand struct {
	info formatter.CommandInfo
	// slow commands call an agent; the TUI runs them off the update loop.
	slow bool
	run  func(ctx context.Context, s *chatSession, arg string) commandResult
}

var chatCommands []chatCommand

func init() {
	chatCommands = []chatCommand{
		{info: formatter.CommandInfo{Name: "/help", Summary: "mostra questo elenco"}, run: cmdHelp},
		{info: formatter.CommandInfo{Name: "/config", Summary: "file, struttura e regole attive"}, run: cmdConfig},
		{info: formatter.CommandInfo{Name: "/metrics", Summary: "richieste, sostituzioni, tempi e costi"}, run: cmdMetrics},
		{info: formatter.CommandInfo{Name: "/table", Summary: "tabella delle sostituzioni accumulate"}, run: cmdTable},
		{info: formatter.CommandInfo{Name: "/why", Args: "<domanda>", Summary: "chiedi perché sono state scelte le sostituzioni"}, slow: true, run: cmdWhy},
		{info: formatter.CommandInfo{Name: "/save", Args: "[nome]", Summary: "archivia la conversazione come snapshot"}, run: cmdSave},
		{info: formatter.CommandInfo{Name: "/load", Args: "<nome>", Summary: "ripristina uno snapshot"}, run: cmdLoad},
		{info: formatter.CommandInfo{Name: "/snapshots", Summary: "elenca gli snapshot salvati"}, run: cmdSnapshots},
		{info: formatter.CommandInfo{Name: "/export", Args: "<file>", Summary: "esporta la memoria della conversazione"}, run: cmdExport},
		{info: formatter.CommandInfo{Name: "/import", Args: "<file>", Summary: "importa una memoria esportata"}, run: cmdImport},
		{info: formatter.CommandInfo{Name: "/debug", Summary: "attiva o disattiva la modalità debug"}, run: cmdDebug},
		{info: formatter.CommandInfo{Name: "/reset", Summary: "azzera configurazione e cronologia, rifà il setup"}, run: cmdReset},
		{info: formatter.CommandInfo{Name: "/quit", Summary: "esci"}, run: cmdQuit},
	}
}

func commandNames() []string {
	names := make([]string, len(chatCommands))
	for i, c := range chatCommands {
		names[i] = c.info.Name
	}
	return names
}

// lookupCommand resolves the command named by line and returns it with its
// argument text. "/exit" and "/q" are aliases for "/quit".
func lookupCommand(line string) (*chatCommand, string, string) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	name = strings.ToLower(name)
	switch name {
	case "/exit", "/q":
		name = "/quit"
	case "/?":
		name = "/help"
	}
	for i := range chatCommands {
		if chatCommands[i].info.Name == name {
			return &chatCommands[i], name, strings.TrimSpace(arg)
		}
	}
	return nil, name, strings.TrimSpace(arg)
}

func isCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "/")
}

// runCommand executes one slash command line.
func (s *chatSession) runCommand(ctx context.Context, line string) commandResult {
	cmd, name, arg := lookupCommand(line)
	if cmd == nil {
		return commandResult{output: formatter.FormatUnknownCommand(name, suggest(name, commandNames()))}
	}
	return cmd.run(ctx, s, arg)
}

// handle runs one chat turn.
func (s *chatSession) handle(ctx context.Context, text string) *service.TurnResult {
	return s.app.Chat.HandleMessage(ctx, s.conv, text, service.TurnOptions{Debug: s.debug})
}

// turn runs one chat turn and renders its outcome.
func (s *chatSession) turn(ctx context.Context, text string) (*service.TurnResult, string) {
	res := s.handle(ctx, text)
	return res, s.renderTurn(res)
}

func (s *chatSession) renderTurn(res *service.TurnResult) string {
	var b strings.Builder
	switch res.Outcome {
	case service.OutcomeAnswered:
		hash := ""
		if res.Story != nil {
			hash = res.Story.Hash
		}
		b.WriteString(formatter.RenderStory(s.renderer, res.Message, hash))
		b.WriteString("\n\n")
		b.WriteString(formatter.RenderSubstitutions(res.Substitutions))
		b.WriteString(formatter.FormatTurnFooter(len(res.Substitutions), res.Duration.Seconds(), res.CostEUR))
	case service.OutcomeNoResult, service.OutcomeNotConfigured:
		b.WriteString(formatter.Warning(res.Message))
	default:
		b.WriteString(formatter.Failure(res.Message))
	}

	if s.debug {
		states := make([]string, len(res.States))
		for i, st := range res.States {
			states[i] = string(st)
		}
		b.WriteString("\n" + formatter.Dim("stati: "+strings.Join(states, " → ")))
		if res.PayloadKind != "" {
			b.WriteString("\n" + formatter.Dim("payload: "+res.PayloadKind))
		}
		if res.ErrorKind != "" {
			b.WriteString("\n" + formatter.Dim("errore: "+res.ErrorKind))
		}
	}
	return b.String()
}

func cmdHelp(_ context.Context, _ *chatSession, _ string) commandResult {
	infos := make([]formatter.CommandInfo, len(chatCommands))
	for i, c := range chatCommands {
		infos[i] = c.info
	}
	return commandResult{output: formatter.FormatCommandList(infos)}
}

func cmdConfig(_ context.Context, s *chatSession, _ string) commandResult {
	cfg, ok := s.conv.Store.Configuration()
	if !ok {
		return commandResult{output: formatter.FormatNotConfigured()}
	}
	return commandResult{output: formatter.FormatConfig(cfg)}
}

func cmdMetrics(_ context.Context, s *chatSession, _ string) commandResult {
	return commandResult{output: formatter.FormatMetrics(s.conv.Store.Metrics())}
}

func cmdTable(_ context.Context, s *chatSession, _ string) commandResult {
	return commandResult{output: formatter.RenderSubstitutions(s.conv.Memory.LastSubstitutions())}
}

func cmdWhy(ctx context.Context, s *chatSession, arg string) commandResult {
	if arg == "" {
		arg = "Perché hai scelto queste sostituzioni?"
	}
	exp, err := s.app.Chat.Explain(ctx, s.conv, arg)
	if err != nil {
		return commandResult{output: formatter.Failure("❌ " + err.Error())}
	}
	return commandResult{output: formatter.FormatExplanation(exp)}
}

func cmdSave(ctx context.Context, s *chatSession, arg string) commandResult {
	if s.app.Snapshots == nil {
		return commandResult{output: formatter.Warning("Archivio snapshot non disponibile.")}
	}
	snap, err := s.app.Snapshots.Save(ctx, s.conv, arg)
	if err != nil {
		return commandResult{output: formatter.Failure("❌ " + err.Error())}
	}
	return commandResult{output: formatter.FormatSnapshotSaved(snap)}
}

func cmdLoad(ctx context.Context, s *chatSession, arg string) commandResult {
	if s.app.Snapshots == nil {
		return commandResult{output: formatter.Warning("Archivio snapshot non disponibile.")}
	}
	if arg == "" {
		return commandResult{output: formatter.Warning("Uso: /load <nome>")}
	}
	snap, err := s.app.Snapshots.Load(ctx, s.conv, arg)
	if err != nil {
		msg := formatter.Failure("❌ " + err.Error())
		if errors.Is(err, service.ErrSnapshotNotFound) {
			if names := snapshotNames(ctx, s.app); len(names) > 0 {
				if hints := suggest(arg, names); len(hints) > 0 {
					msg += formatter.Dim(" · forse intendevi " + strings.Join(hints, ", ") + "?")
				}
			}
		}
		return commandResult{output: msg}
	}
	return commandResult{output: formatter.FormatSnapshotLoaded(snap)}
}

func cmdSnapshots(ctx context.Context, s *chatSession, _ string) commandResult {
	if s.app.Snapshots == nil {
		return commandResult{output: formatter.Warning("Archivio snapshot non disponibile.")}
	}
	snaps, err := s.app.Snapshots.List(ctx)
	if err != nil {
		return commandResult{output: formatter.Failure("❌ " + err.Error())}
	}
	return commandResult{output: formatter.FormatSnapshotList(snaps)}
}

func cmdExport(_ context.Context, s *chatSession, arg string) commandResult {
	if arg == "" {
		return commandResult{output: formatter.Warning("Uso: /export <file>")}
	}
	doc, err := s.conv.Memory.ExportMemory()
	if err != nil {
		return commandResult{output: formatter.Failure("❌ " + err.Error())}
	}
	path := expandHome(arg)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return commandResult{output: formatter.Failure("❌ " + err.Error())}
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return commandResult{output: formatter.Failure("❌ " + err.Error())}
	}
	return commandResult{output: formatter.Success(fmt.Sprintf("📤 Memoria esportata in %s (%d turni)", path, s.conv.Memory.ConversationLength()))}
}

func cmdImport(_ context.Context, s *chatSession, arg string) commandResult {
	if arg == "" {
		return commandResult{output: formatter.Warning("Uso: /import <file>")}
	}
	data, err := os.ReadFile(expandHome(arg))
	if err != nil {
		return commandResult{output: formatter.Failure("❌ " + err.Error())}
	}
	if err := s.conv.Memory.ImportMemory(string(data)); err != nil {
		return commandResult{output: formatter.Failure("❌ Memoria non valida: " + err.Error())}
	}
	return commandResult{output: formatter.Success(fmt.Sprintf("📥 Memoria importata (%d turni)", s.conv.Memory.ConversationLength()))}
}

func cmdDebug(_ context.Context, s *chatSession, _ string) commandResult {
	s.debug = !s.debug
	if s.debug {
		return commandResult{output: formatter.FormatSystemLine("debug attivo")}
	}
	return commandResult{output: formatter.FormatSystemLine("debug disattivato")}
}

func cmdReset(_ context.Context, s *chatSession, _ string) commandResult {
	s.conv.Reset()
	return commandResult{
		output:      formatter.FormatSystemLine("configurazione e cronologia azzerate"),
		rerunWizard: true,
	}
}

func cmdQuit(_ context.Context, _ *chatSession, _ string) commandResult {
	return commandResult{quit: true}
}

func snapshotNames(ctx context.Context, app *App) []string {
	snaps, err := app.Snapshots.List(ctx)
	if err != nil {
		return nil
	}
	names := make([]string, len(snaps))
	for i, s := range snaps {
		names[i] = s.Name
	}
	return names
}
