package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/elfshift/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newExplainCmd(app *App) *cobra.Command {
	var snapshot string

	cmd := &cobra.Command{
		Use:   `explain "<question>"`,
		Short: "Explain the substitutions stored in a snapshot",
		Long: "Ask the explainer why a set of substitutions was chosen. The substitutions come\n" +
			"from --snapshot, or from the most recent snapshot when the flag is omitted.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if app.Snapshots == nil {
				return fmt.Errorf("snapshot archive not available")
			}

			name := snapshot
			if name == "" {
				snaps, err := app.Snapshots.List(ctx)
				if err != nil {
					return err
				}
				if len(snaps) == 0 {
					return fmt.Errorf("no snapshots saved yet; use /save inside a chat first")
				}
				name = snaps[0].Name
			}

			conv := app.registry().Open()
			defer app.registry().Close(conv.ID)

			snap, err := app.Snapshots.Load(ctx, conv, name)
			if err != nil {
				return err
			}
			if snap.LastRequest != "" {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(fmt.Sprintf("snapshot %s · %q", snap.Name, snap.LastRequest)))
			}

			var stop func()
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "L'elfo spiegatore sta pensando...")
			}
			exp, err := app.Chat.Explain(ctx, conv, strings.Join(args, " "))
			if stop != nil {
				stop()
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatExplanation(exp))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Snapshot to explain (default: most recent)")
	return cmd
}
