package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/elfshift/internal/cli/formatter"
	"github.com/alexanderramin/elfshift/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	opts := &chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the substitution chat (runs the setup wizard first)",
		Long: "Open the substitution chat. Without --schedule the setup wizard asks for the\n" +
			"schedule file, a template and the rules. Piped stdin switches to line mode.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, app, opts)
		},
	}
	bindSetupFlags(cmd.Flags(), opts)
	return cmd
}

func runChat(cmd *cobra.Command, app *App, opts *chatOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	conv := app.registry().Open()
	defer app.registry().Close(conv.ID)

	seed, err := opts.input()
	if err != nil {
		return err
	}
	if seed.Schedule != "" {
		seed.Schedule = expandHome(seed.Schedule)
		if err := configureConversation(ctx, app, conv, seed); err != nil {
			return err
		}
	}

	sess := newChatSession(app, conv)
	out := cmd.OutOrStdout()

	if !app.interactive() {
		if !conv.Store.IsConfigured() {
			return fmt.Errorf("line mode needs --schedule (and --template or --rules-file): %w", domain.ErrNotConfigured)
		}
		return runLineMode(ctx, sess, cmd.InOrStdin(), out)
	}

	for {
		if !conv.Store.IsConfigured() {
			if err := runSetupWizard(ctx, app, conv, seed); err != nil {
				if errors.Is(err, errWizardAborted) {
					return nil
				}
				return err
			}
			cfg, _ := conv.Store.Configuration()
			fmt.Fprintln(out, formatter.FormatSetupSummary(cfg))
			seed = setupInput{Template: cfg.Template}
		}

		view := newChatView(ctx, sess)
		final, err := tea.NewProgram(view, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		if v, ok := final.(*chatView); !ok || !v.rerunWizard {
			return nil
		}
	}
}

// runLineMode is the chat loop for non-terminal input: one line per message,
// slash commands included, output written as plain rendered text.
func runLineMode(ctx context.Context, sess *chatSession, in io.Reader, out io.Writer) error {
	cfg, _ := sess.conv.Store.Configuration()
	fmt.Fprintln(out, formatter.FormatChatWelcome(cfg.FileName))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fmt.Fprintln(out, formatter.FormatUserLine(line))

		if isCommand(line) {
			res := sess.runCommand(ctx, line)
			if res.output != "" {
				fmt.Fprintln(out, res.output)
			}
			if res.quit {
				return nil
			}
			if res.rerunWizard {
				fmt.Fprintln(out, formatter.Warning("Il setup guidato richiede un terminale: riavvia con --schedule."))
				return nil
			}
			continue
		}

		_, rendered := sess.turn(ctx, line)
		fmt.Fprintln(out, rendered)
	}
	return scanner.Err()
}
