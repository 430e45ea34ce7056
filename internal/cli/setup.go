package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/importer"
	"github.com/alexanderramin/elfshift/internal/session"
	"github.com/spf13/pflag"
)

// defaultTemplate is preselected by the wizard and used by the flag-driven
// setup when no template is named.
const defaultTemplate = "polo_nord"

// setupInput is the raw material for a conversation's configuration,
// collected either by the wizard or from flags.
type setupInput struct {
	Schedule  string
	Template  string
	Structure string
	Rules     string
}

// chatOptions are the setup flags shared by the root command, chat and ask.
type chatOptions struct {
	schedule      string
	template      string
	rulesFile     string
	structureFile string
}

func bindSetupFlags(fs *pflag.FlagSet, opts *chatOptions) {
	fs.StringVar(&opts.schedule, "schedule", "", "Schedule spreadsheet (.xlsx/.xls); skips the setup wizard")
	fs.StringVar(&opts.template, "template", "", "Setup template providing structure and rules text")
	fs.StringVar(&opts.rulesFile, "rules-file", "", "Text file with the substitution rules")
	fs.StringVar(&opts.structureFile, "structure-file", "", "Text file describing the schedule layout")
}

// input resolves the flag values into a setupInput, reading the rule and
// structure files.
func (o *chatOptions) input() (setupInput, error) {
	in := setupInput{Schedule: o.schedule, Template: o.template}
	if o.rulesFile != "" {
		data, err := os.ReadFile(o.rulesFile)
		if err != nil {
			return in, fmt.Errorf("reading rules file: %w", err)
		}
		in.Rules = string(data)
	}
	if o.structureFile != "" {
		data, err := os.ReadFile(o.structureFile)
		if err != nil {
			return in, fmt.Errorf("reading structure file: %w", err)
		}
		in.Structure = string(data)
	}
	return in, nil
}

// configureConversation validates the schedule, fills structure and rules
// from the template where the caller left them blank, copies the upload into
// the data directory and configures the conversation's store. On error the
// conversation is left untouched.
func configureConversation(ctx context.Context, app *App, conv *session.Conversation, in setupInput) error {
	if strings.TrimSpace(in.Schedule) == "" {
		return fmt.Errorf("schedule file: %w", domain.ErrMissingUpload)
	}
	if errs := importer.ValidateScheduleFile(in.Schedule); len(errs) > 0 {
		return fmt.Errorf("schedule file: %w", errs[0])
	}

	name := in.Template
	if name == "" {
		name = defaultTemplate
	}
	if app.Templates != nil && (strings.TrimSpace(in.Structure) == "" || strings.TrimSpace(in.Rules) == "") {
		tmpl, err := app.Templates.Get(ctx, name)
		if err != nil {
			return fmt.Errorf("template %q: %w", name, err)
		}
		name = tmpl.ID
		if strings.TrimSpace(in.Structure) == "" {
			in.Structure = tmpl.Structure
		}
		if strings.TrimSpace(in.Rules) == "" {
			in.Rules = tmpl.Rules
		}
	}

	fields := domain.SetupFields{
		FileName:  filepath.Base(in.Schedule),
		Structure: strings.TrimSpace(in.Structure),
		Rules:     strings.TrimSpace(in.Rules),
		Template:  name,
	}
	// Validate before copying so a bad form does not leave stray uploads.
	fields.FilePath = in.Schedule
	if err := fields.Validate(); err != nil {
		return err
	}

	saved, err := importer.SaveUpload(in.Schedule, uploadDir(app), app.now())
	if err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	fields.FilePath = saved

	if err := conv.Store.Setup(fields); err != nil {
		_ = os.Remove(saved)
		return err
	}
	app.logger().InfoContext(ctx, "setup_complete",
		"conversation", conv.ID,
		"template", fields.Template,
		"file", fields.FileName,
	)
	return nil
}

func uploadDir(app *App) string {
	if app.Paths.DataDir != "" {
		return filepath.Join(app.Paths.DataDir, "uploads")
	}
	return filepath.Join(os.TempDir(), "elfshift", "uploads")
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
