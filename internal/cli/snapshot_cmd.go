package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/elfshift/internal/cli/formatter"
	"github.com/alexanderramin/elfshift/internal/service"
	"github.com/spf13/cobra"
)

func newSnapshotsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshots",
		Aliases: []string{"snapshot"},
		Short:   "Manage saved conversation snapshots",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Snapshots == nil {
				return fmt.Errorf("snapshot archive not available")
			}
			return nil
		},
	}

	cmd.AddCommand(
		newSnapshotListCmd(app),
		newSnapshotShowCmd(app),
		newSnapshotDeleteCmd(app),
	)

	return cmd
}

func newSnapshotListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := app.Snapshots.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSnapshotList(snaps))
			return nil
		},
	}
}

func newSnapshotShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a snapshot and its substitutions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			snap, err := app.Snapshots.Get(ctx, args[0])
			if err != nil {
				if errors.Is(err, service.ErrSnapshotNotFound) {
					return withSuggestions(err, args[0], snapshotNames(ctx, app))
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSnapshotShow(snap))
			return nil
		},
	}
}

func newSnapshotDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			name := args[0]
			if _, err := app.Snapshots.Get(ctx, name); err != nil {
				return err
			}
			if !yes && !promptYesNoIO(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete snapshot %q? [y/N]: ", name)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := app.Snapshots.Delete(ctx, name); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Snapshot deleted: ")+name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
