package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/elfshift/internal/cli/formatter"
	tmpl "github.com/alexanderramin/elfshift/internal/template"
	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Browse the setup templates",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
		newTemplateShowCmd(app),
		newTemplateAddCmd(app),
	)

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := app.Templates.List(context.Background())
			if err != nil {
				return err
			}

			if len(templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates found.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplateList(templates))
			return nil
		},
	}
}

func newTemplateShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a template's structure and rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := app.Templates.Get(ctx, args[0])
			if err != nil {
				if errors.Is(err, tmpl.ErrNotFound) {
					return withSuggestions(err, args[0], templateNames(ctx, app))
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplateShow(t))
			return nil
		},
	}
}

func newTemplateAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add FILE",
		Short: "Validate a YAML template and install it in the templates directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Paths.TemplateDir == "" {
				return fmt.Errorf("templates directory not configured")
			}
			data, err := os.ReadFile(expandHome(args[0]))
			if err != nil {
				return fmt.Errorf("reading template: %w", err)
			}
			dest, err := tmpl.WriteUserTemplate(app.Paths.TemplateDir, data)
			if err != nil {
				return fmt.Errorf("invalid template: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Template installed: ")+dest)
			return nil
		},
	}
}

func templateNames(ctx context.Context, app *App) []string {
	templates, err := app.Templates.List(ctx)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.ID)
	}
	return names
}

// withSuggestions appends "did you mean" candidates to a not-found error.
func withSuggestions(err error, input string, candidates []string) error {
	hints := suggest(input, candidates)
	if len(hints) == 0 {
		return err
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(hints, ", "))
}
