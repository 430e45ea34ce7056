package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/elfshift/internal/cli/formatter"
	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/importer"
	"github.com/alexanderramin/elfshift/internal/session"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// errWizardAborted is returned when the user leaves the setup wizard.
var errWizardAborted = errors.New("setup cancelled")

// elfHuhTheme returns a custom huh theme using the Gruvbox palette.
func elfHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// wizardSelectTemplate creates the first wizard page: template choice and
// schedule path. Returns nil when no template is available.
func wizardSelectTemplate(templates []domain.Template, in *setupInput) *huh.Form {
	if len(templates) == 0 {
		return nil
	}

	options := make([]huh.Option[string], 0, len(templates))
	for _, t := range templates {
		label := t.Name
		if t.Description != "" {
			label = fmt.Sprintf("%s · %s", t.Name, formatter.Truncate(t.Description, 50))
		}
		options = append(options, huh.NewOption(label, t.ID))
	}
	if in.Template == "" {
		in.Template = templates[0].ID
		for _, t := range templates {
			if t.ID == defaultTemplate {
				in.Template = t.ID
			}
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Template").
				Description("Regole e struttura di partenza, modificabili al passo successivo").
				Options(options...).
				Value(&in.Template),
			huh.NewInput().
				Title("File orario").
				Description("Percorso del foglio .xlsx o .xls con i turni").
				Placeholder("~/orario.xlsx").
				Value(&in.Schedule).
				Validate(validateScheduleInput),
		),
	).WithTheme(elfHuhTheme()).WithShowHelp(false)
}

// wizardEditTexts creates the second wizard page: structure and rules,
// prefilled from the chosen template.
func wizardEditTexts(in *setupInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Struttura del file").
				Description("Come sono organizzate righe e colonne dell'orario").
				Lines(6).
				Value(&in.Structure).
				Validate(requiredText("la struttura")),
			huh.NewText().
				Title("Regole di sostituzione").
				Description("Una regola per riga, in ordine di priorità").
				Lines(10).
				Value(&in.Rules).
				Validate(requiredText("le regole")),
		),
	).WithTheme(elfHuhTheme()).WithShowHelp(false)
}

// validateScheduleInput runs the upload checks inline so a missing or
// malformed file never reaches the store.
func validateScheduleInput(s string) error {
	path := expandHome(strings.TrimSpace(s))
	if path == "" {
		return fmt.Errorf("carica un file orario per continuare")
	}
	if errs := importer.ValidateScheduleFile(path); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func requiredText(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("inserisci %s", what)
		}
		return nil
	}
}

// runSetupWizard walks the user through template, file, structure and rules,
// then configures conv. The store is only touched once everything validates.
func runSetupWizard(ctx context.Context, app *App, conv *session.Conversation, seed setupInput) error {
	templates, err := app.Templates.List(ctx)
	if err != nil {
		return err
	}

	in := seed
	first := wizardSelectTemplate(templates, &in)
	if first == nil {
		return fmt.Errorf("no setup templates available")
	}
	if err := first.RunWithContext(ctx); err != nil {
		return wizardErr(err)
	}
	in.Schedule = expandHome(strings.TrimSpace(in.Schedule))

	if tmpl, err := app.Templates.Get(ctx, in.Template); err == nil {
		if in.Structure == "" {
			in.Structure = tmpl.Structure
		}
		if in.Rules == "" {
			in.Rules = tmpl.Rules
		}
	}
	if err := wizardEditTexts(&in).RunWithContext(ctx); err != nil {
		return wizardErr(err)
	}

	return configureConversation(ctx, app, conv, in)
}

func wizardErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errWizardAborted
	}
	return err
}
