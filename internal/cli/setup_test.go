package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/elfshift/internal/domain"
	tmpl "github.com/alexanderramin/elfshift/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureConversation_FromTemplate(t *testing.T) {
	env := newTestEnv(t)
	conv := env.app.Sessions.Open()

	err := configureConversation(context.Background(), env.app, conv, setupInput{Schedule: env.schedule})
	require.NoError(t, err)

	cfg, ok := conv.Store.Configuration()
	require.True(t, ok)
	assert.Equal(t, "polo_nord", cfg.Template)
	assert.Equal(t, "orario.xlsx", cfg.FileName)
	assert.NotEmpty(t, cfg.Structure)
	assert.NotEmpty(t, cfg.Rules)

	// The schedule is copied into the data directory, not referenced in place.
	uploads := filepath.Join(env.app.Paths.DataDir, "uploads")
	assert.True(t, strings.HasPrefix(cfg.FilePath, uploads), cfg.FilePath)
	_, err = os.Stat(cfg.FilePath)
	assert.NoError(t, err)
}

func TestConfigureConversation_ExplicitTextsWin(t *testing.T) {
	env := newTestEnv(t)
	conv := env.app.Sessions.Open()

	in := setupInput{
		Schedule:  env.schedule,
		Template:  "personalizzato",
		Structure: "  Colonna A: elfo  ",
		Rules:     "Prima chi ha il cappello Rosso.",
	}
	require.NoError(t, configureConversation(context.Background(), env.app, conv, in))

	cfg, _ := conv.Store.Configuration()
	assert.Equal(t, "personalizzato", cfg.Template)
	assert.Equal(t, "Colonna A: elfo", cfg.Structure)
	assert.Equal(t, "Prima chi ha il cappello Rosso.", cfg.Rules)
}

func TestConfigureConversation_MissingUpload(t *testing.T) {
	env := newTestEnv(t)
	conv := env.app.Sessions.Open()

	err := configureConversation(context.Background(), env.app, conv, setupInput{Template: "polo_nord"})
	assert.True(t, errors.Is(err, domain.ErrMissingUpload))
	assert.False(t, conv.Store.IsConfigured())
	_, statErr := os.Stat(filepath.Join(env.app.Paths.DataDir, "uploads"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigureConversation_BadFileLeavesStore(t *testing.T) {
	env := newTestEnv(t)
	conv := env.configuredConversation(t)
	before, _ := conv.Store.Configuration()

	bad := writeFile(t, "orario.xlsx", "not a workbook")
	err := configureConversation(context.Background(), env.app, conv, setupInput{Schedule: bad})
	require.Error(t, err)

	after, ok := conv.Store.Configuration()
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestConfigureConversation_UnknownTemplate(t *testing.T) {
	env := newTestEnv(t)
	conv := env.app.Sessions.Open()

	err := configureConversation(context.Background(), env.app, conv, setupInput{Schedule: env.schedule, Template: "nessuno"})
	assert.True(t, errors.Is(err, tmpl.ErrNotFound))
	assert.False(t, conv.Store.IsConfigured())
}

func TestChatOptionsInput(t *testing.T) {
	rules := writeFile(t, "regole.txt", "regola uno")
	structure := writeFile(t, "struttura.txt", "colonna A")

	opts := &chatOptions{schedule: "orario.xlsx", template: "polo_nord", rulesFile: rules, structureFile: structure}
	in, err := opts.input()
	require.NoError(t, err)
	assert.Equal(t, setupInput{Schedule: "orario.xlsx", Template: "polo_nord", Structure: "colonna A", Rules: "regola uno"}, in)

	opts.rulesFile = filepath.Join(t.TempDir(), "manca.txt")
	_, err = opts.input()
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "orario.xlsx"), expandHome("~/orario.xlsx"))
	assert.Equal(t, "/tmp/orario.xlsx", expandHome("/tmp/orario.xlsx"))
	assert.Equal(t, "~elfo/x", expandHome("~elfo/x"))
}

func TestUploadDir(t *testing.T) {
	app := &App{Paths: Paths{DataDir: "/data"}}
	assert.Equal(t, filepath.Join("/data", "uploads"), uploadDir(app))

	app.Paths.DataDir = ""
	assert.Equal(t, filepath.Join(os.TempDir(), "elfshift", "uploads"), uploadDir(app))
}
