package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/elfshift/internal/cli/formatter"
	"github.com/alexanderramin/elfshift/internal/llm"
	"github.com/spf13/cobra"
)

var configTasks = []llm.TaskType{llm.TaskCodeGen, llm.TaskNarrate, llm.TaskExplain}

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective agent configuration and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatLLMConfig(app.LLM, app.Paths))
			return nil
		},
	}
}

func formatLLMConfig(cfg llm.LLMConfig, paths Paths) string {
	var b strings.Builder
	const w = 11

	b.WriteString(formatter.KeyValue("PROVIDER", w, formatter.Bold(string(cfg.Provider))))
	b.WriteString(formatter.KeyValue("ENDPOINT", w, orDash(cfg.BaseURL())))
	b.WriteString(formatter.KeyValue("API KEY", w, maskKey(cfg.APIKey)))
	b.WriteString(formatter.KeyValue("TIMEOUT", w, timeoutLabel(cfg.TimeoutMs)))
	b.WriteString(formatter.KeyValue("RETRIES", w, fmt.Sprintf("%d", cfg.MaxRetries)))
	b.WriteString(formatter.KeyValue("LOG CALLS", w, fmt.Sprintf("%t", cfg.LogCalls)))

	b.WriteString("\n" + formatter.Header("Agents") + "\n")
	for _, task := range configTasks {
		b.WriteString(formatter.KeyValue(string(task), 16,
			cfg.TaskModel(task)+formatter.Dim(" · "+timeoutLabel(cfg.TaskTimeout(task)))))
	}

	b.WriteString("\n" + formatter.Header("Paths") + "\n")
	b.WriteString(formatter.KeyValue("HOME", w, orDash(paths.Home)))
	b.WriteString(formatter.KeyValue("DATABASE", w, orDash(paths.DBPath)))
	b.WriteString(formatter.KeyValue("UPLOADS", w, orDash(paths.DataDir)))
	b.WriteString(formatter.KeyValue("TEMPLATES", w, orDash(paths.TemplateDir)))
	b.WriteString(formatter.KeyValue("CONFIG", w, orDash(paths.ConfigFile)))

	return formatter.RenderBox("Config", b.String())
}

func maskKey(key string) string {
	switch {
	case key == "":
		return formatter.Dim("not set")
	case len(key) <= 8:
		return "****"
	default:
		return key[:3] + "…" + key[len(key)-4:]
	}
}

func timeoutLabel(ms int) string {
	if ms <= 0 {
		return "no timeout"
	}
	return fmt.Sprintf("%dms", ms)
}

func orDash(s string) string {
	if s == "" {
		return formatter.Dim("--")
	}
	return s
}
