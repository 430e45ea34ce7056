package cli

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/elfshift/internal/llm"
	"github.com/alexanderramin/elfshift/internal/service"
	"github.com/alexanderramin/elfshift/internal/session"
	"github.com/spf13/cobra"
)

// Paths locates everything elfshift keeps on disk.
type Paths struct {
	Home        string
	DataDir     string
	TemplateDir string
	DBPath      string
	ConfigFile  string
	HistoryFile string
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Chat      service.ChatService
	Snapshots service.SnapshotService
	Templates service.TemplateService
	Sessions  *session.Registry

	LLM    llm.LLMConfig
	Paths  Paths
	Debug  bool
	Logger *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means line mode.
	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

func (a *App) registry() *session.Registry {
	if a.Sessions == nil {
		a.Sessions = session.NewRegistry()
	}
	return a.Sessions
}

// NewRootCmd creates the top-level "elfshift" command and registers all
// subcommands against the provided App. Without a subcommand it opens the
// chat.
func NewRootCmd(app *App) *cobra.Command {
	chatOpts := &chatOptions{}

	root := &cobra.Command{
		Use:           "elfshift",
		Short:         "Shift substitution assistant for the North Pole workshop",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, app, chatOpts)
		},
	}
	root.PersistentFlags().BoolVar(&app.Debug, "debug", app.Debug, "Show raw agent payloads and error kinds")
	bindSetupFlags(root.Flags(), chatOpts)

	root.AddCommand(
		newChatCmd(app),
		newAskCmd(app),
		newExplainCmd(app),
		newTemplatesCmd(app),
		newSnapshotsCmd(app),
		newConfigCmd(app),
	)

	return root
}
