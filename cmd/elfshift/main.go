package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/alexanderramin/elfshift/internal/cli"
	"github.com/alexanderramin/elfshift/internal/db"
	"github.com/alexanderramin/elfshift/internal/intelligence"
	"github.com/alexanderramin/elfshift/internal/llm"
	"github.com/alexanderramin/elfshift/internal/repository"
	"github.com/alexanderramin/elfshift/internal/service"
	"github.com/alexanderramin/elfshift/internal/session"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	llmCfg, err := llm.LoadConfigWithFile(paths.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// --debug is also honoured here so the logger level is right before
	// cobra parses flags.
	debug := envBool("ELFSHIFT_DEBUG") || hasFlag(os.Args[1:], "--debug")
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls || debug {
		observer = llm.NewSlogObserver(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A bad agent configuration only breaks the turns, not the archive or
	// template commands; `elfshift config` shows what is missing.
	client, err := llm.NewClient(ctx, llmCfg, observer)
	if err != nil {
		logger.Warn("agents_unavailable", "provider", string(llmCfg.Provider), "error", err.Error())
		client = llm.NewUnavailableClient(err)
	}

	// Open database
	if err := os.MkdirAll(filepath.Dir(paths.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	database, err := db.OpenDB(paths.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	useCases := service.NewSlogUseCaseObserver(logger)
	agents := service.Agents{
		CodeGen:   intelligence.NewCodeGenService(client, observer),
		Narrator:  intelligence.NewNarrationService(client, observer),
		Explainer: intelligence.NewExplainService(client, observer),
	}

	app := &cli.App{
		Chat:      service.NewChatService(agents, logger, useCases),
		Snapshots: service.NewSnapshotService(repository.NewSQLiteSnapshotRepo(database), db.NewSQLiteUnitOfWork(database), useCases),
		Templates: service.NewTemplateService(paths.TemplateDir),
		Sessions:  session.NewRegistry(),
		LLM:       llmCfg,
		Paths:     paths,
		Debug:     debug,
		Logger:    logger,
	}

	// Detect interactive terminal: the wizard and the TUI need one.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func resolvePaths() (cli.Paths, error) {
	home := os.Getenv("ELFSHIFT_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return cli.Paths{}, fmt.Errorf("finding home directory: %w", err)
		}
		home = filepath.Join(userHome, ".elfshift")
	}

	p := cli.Paths{
		Home:        home,
		DataDir:     filepath.Join(home, "data"),
		TemplateDir: envOr("ELFSHIFT_TEMPLATES", filepath.Join(home, "templates")),
		DBPath:      envOr("ELFSHIFT_DB", db.DefaultPath(home)),
		ConfigFile:  envOr("ELFSHIFT_CONFIG", filepath.Join(home, "config.yaml")),
		HistoryFile: filepath.Join(home, "chat_history"),
	}
	return p, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == flag || a == flag+"=true" {
			return true
		}
	}
	return false
}
