package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardSelectTemplate_NoTemplates(t *testing.T) {
	in := setupInput{}
	assert.Nil(t, wizardSelectTemplate(nil, &in))
	assert.Empty(t, in.Template)
}

func TestWizardSelectTemplate_Preselection(t *testing.T) {
	templates := []domain.Template{
		{ID: "personalizzato", Name: "Personalizzato"},
		{ID: "polo_nord", Name: "Polo Nord", Description: "Laboratorio di Babbo Natale"},
	}

	in := setupInput{}
	require.NotNil(t, wizardSelectTemplate(templates, &in))
	assert.Equal(t, "polo_nord", in.Template)

	in = setupInput{Template: "personalizzato"}
	require.NotNil(t, wizardSelectTemplate(templates, &in))
	assert.Equal(t, "personalizzato", in.Template)

	in = setupInput{}
	require.NotNil(t, wizardSelectTemplate(templates[:1], &in))
	assert.Equal(t, "personalizzato", in.Template)
}

func TestWizardEditTexts(t *testing.T) {
	in := setupInput{Structure: "colonne", Rules: "regole"}
	assert.NotNil(t, wizardEditTexts(&in))
}

func TestValidateScheduleInput(t *testing.T) {
	env := newTestEnv(t)

	assert.NoError(t, validateScheduleInput(env.schedule))
	assert.NoError(t, validateScheduleInput("  "+env.schedule+"  "))

	err := validateScheduleInput("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carica un file orario")

	assert.Error(t, validateScheduleInput(filepath.Join(t.TempDir(), "manca.xlsx")))
	assert.Error(t, validateScheduleInput(writeFile(t, "orario.txt", "testo")))
}

func TestRequiredText(t *testing.T) {
	check := requiredText("le regole")
	assert.NoError(t, check("Prima l'ora Jolly"))
	err := check(" \n ")
	require.Error(t, err)
	assert.Equal(t, "inserisci le regole", err.Error())
}

func TestWizardErr(t *testing.T) {
	assert.ErrorIs(t, wizardErr(huh.ErrUserAborted), errWizardAborted)
	assert.ErrorIs(t, wizardErr(fmt.Errorf("form: %w", huh.ErrUserAborted)), errWizardAborted)

	other := errors.New("terminal gone")
	assert.Equal(t, other, wizardErr(other))
}
