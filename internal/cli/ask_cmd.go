package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/elfshift/internal/cli/formatter"
	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/service"
	"github.com/spf13/cobra"
)

// errNoAnswer makes a one-shot run exit non-zero when the turn did not
// produce substitutions.
var errNoAnswer = errors.New("no substitutions computed")

// askOutput is the --json shape of a one-shot turn.
type askOutput struct {
	Outcome       string                `json:"outcome"`
	Message       string                `json:"message"`
	StoryHash     string                `json:"story_hash,omitempty"`
	Substitutions []domain.Substitution `json:"substitutions"`
	ErrorKind     string                `json:"error_kind,omitempty"`
	PayloadKind   string                `json:"payload_kind,omitempty"`
	DurationMs    int64                 `json:"duration_ms"`
	CostEUR       float64               `json:"cost_eur"`
}

func newAskCmd(app *App) *cobra.Command {
	opts := &chatOptions{}
	var asJSON bool

	cmd := &cobra.Command{
		Use:   `ask "<message>"`,
		Short: "Run a single substitution request without the chat",
		Long: "Configure a throwaway conversation from flags, send one message and print\n" +
			"the narrated answer and substitution table (or JSON with --json).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if opts.schedule == "" {
				return fmt.Errorf("--schedule is required: %w", domain.ErrMissingUpload)
			}
			if opts.rulesFile == "" && opts.template == "" {
				return fmt.Errorf("one of --rules-file or --template is required")
			}

			in, err := opts.input()
			if err != nil {
				return err
			}
			in.Schedule = expandHome(in.Schedule)

			conv := app.registry().Open()
			defer app.registry().Close(conv.ID)
			if err := configureConversation(ctx, app, conv, in); err != nil {
				return err
			}

			sess := newChatSession(app, conv)
			out := cmd.OutOrStdout()

			var stop func()
			if !asJSON && app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Gli elfi stanno calcolando...")
			}
			res, rendered := sess.turn(ctx, args[0])
			if stop != nil {
				stop()
			}

			if asJSON {
				if err := writeAskJSON(out, res); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, rendered)
			}

			if res.Outcome != service.OutcomeAnswered {
				if res.Err != nil {
					return fmt.Errorf("%w: %w", errNoAnswer, res.Err)
				}
				return errNoAnswer
			}
			return nil
		},
	}

	bindSetupFlags(cmd.Flags(), opts)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the turn result as JSON")
	return cmd
}

func writeAskJSON(w io.Writer, res *service.TurnResult) error {
	o := askOutput{
		Outcome:       string(res.Outcome),
		Message:       res.Message,
		Substitutions: res.Substitutions,
		ErrorKind:     res.ErrorKind,
		PayloadKind:   res.PayloadKind,
		DurationMs:    res.Duration.Milliseconds(),
		CostEUR:       res.CostEUR,
	}
	if o.Substitutions == nil {
		o.Substitutions = []domain.Substitution{}
	}
	if res.Story != nil {
		o.StoryHash = res.Story.Hash
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(o)
}
