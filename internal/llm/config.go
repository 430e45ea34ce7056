package llm

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskCodeGen TaskType = "code_generation"
	TaskNarrate TaskType = "narration"
	TaskExplain TaskType = "explain"
)

// Provider selects the backend used to reach the agents.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
	ProviderAgent  Provider = "agent"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	LogCalls   bool
	Endpoint   string
	APIKey     string
	Model      string // applies to every task without its own model
	TimeoutMs  int    // 0 disables the client-side timeout
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults. Agent calls are
// never cut short unless a timeout is configured.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderOpenAI,
		TimeoutMs:  0,
		MaxRetries: 0,
		Tasks: map[TaskType]TaskConfig{
			TaskCodeGen: {Temperature: 0.1, MaxTokens: 4096},
			TaskNarrate: {Temperature: 0.8, MaxTokens: 600},
			TaskExplain: {Temperature: 0.3, MaxTokens: 1024},
		},
	}
}

// FileConfig mirrors the optional YAML configuration file.
type FileConfig struct {
	Provider   string              `yaml:"provider"`
	Endpoint   string              `yaml:"endpoint"`
	APIKey     string              `yaml:"api_key"`
	Model      string              `yaml:"model"`
	TimeoutMs  int                 `yaml:"timeout_ms"`
	MaxRetries *int                `yaml:"max_retries"`
	LogCalls   *bool               `yaml:"log_calls"`
	Tasks      map[string]FileTask `yaml:"tasks"`
}

// FileTask is the per-task section of FileConfig.
type FileTask struct {
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
	TimeoutMs   int      `yaml:"timeout_ms"`
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	applyEnv(&cfg)
	return cfg
}

// LoadConfigWithFile layers defaults, the YAML file at path and the
// environment, in that order. A missing file is not an error.
func LoadConfigWithFile(path string) (LLMConfig, error) {
	cfg := DefaultConfig()
	if path != "" {
		fc, err := ReadFileConfig(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		if err == nil {
			fc.applyTo(&cfg)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// ReadFileConfig decodes the YAML configuration file at path.
func ReadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fc, nil
}

func (fc FileConfig) applyTo(cfg *LLMConfig) {
	if fc.Provider != "" {
		cfg.Provider = Provider(strings.ToLower(fc.Provider))
	}
	if fc.Endpoint != "" {
		cfg.Endpoint = fc.Endpoint
	}
	if fc.APIKey != "" {
		cfg.APIKey = fc.APIKey
	}
	if fc.Model != "" {
		cfg.Model = fc.Model
	}
	if fc.TimeoutMs > 0 {
		cfg.TimeoutMs = fc.TimeoutMs
	}
	if fc.MaxRetries != nil && *fc.MaxRetries >= 0 {
		cfg.MaxRetries = *fc.MaxRetries
	}
	if fc.LogCalls != nil {
		cfg.LogCalls = *fc.LogCalls
	}
	for name, ft := range fc.Tasks {
		task := TaskType(name)
		tc := cfg.Tasks[task]
		if ft.Model != "" {
			tc.Model = ft.Model
		}
		if ft.Temperature != nil {
			tc.Temperature = *ft.Temperature
		}
		if ft.MaxTokens > 0 {
			tc.MaxTokens = ft.MaxTokens
		}
		if ft.TimeoutMs > 0 {
			tc.TimeoutMs = ft.TimeoutMs
		}
		cfg.Tasks[task] = tc
	}
}

func applyEnv(cfg *LLMConfig) {
	if v := os.Getenv("ELFSHIFT_LLM_PROVIDER"); v != "" {
		cfg.Provider = Provider(strings.ToLower(v))
	}
	if v := os.Getenv("ELFSHIFT_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ELFSHIFT_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("ELFSHIFT_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ELFSHIFT_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("ELFSHIFT_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskModelEnv(cfg, TaskCodeGen, "ELFSHIFT_CODE_MODEL")
	applyTaskModelEnv(cfg, TaskNarrate, "ELFSHIFT_NARRATION_MODEL")
	applyTaskModelEnv(cfg, TaskExplain, "ELFSHIFT_EXPLAIN_MODEL")

	applyTaskTimeoutEnv(cfg, TaskCodeGen, "ELFSHIFT_LLM_CODE_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskNarrate, "ELFSHIFT_LLM_NARRATION_TIMEOUT_MS")
	applyTaskTimeoutEnv(cfg, TaskExplain, "ELFSHIFT_LLM_EXPLAIN_TIMEOUT_MS")

	if v := os.Getenv("ELFSHIFT_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if cfg.APIKey == "" {
		switch cfg.Provider {
		case ProviderOpenAI:
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case ProviderGemini:
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
}

// Validate reports configuration that cannot reach any backend.
func (c LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("%w for provider %s", ErrMissingAPIKey, c.Provider)
		}
	case ProviderOllama:
	case ProviderAgent:
		if c.Endpoint == "" {
			return fmt.Errorf("provider agent requires ELFSHIFT_LLM_ENDPOINT")
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	return nil
}

// BaseURL returns the configured endpoint or the provider's default.
func (c LLMConfig) BaseURL() string {
	if c.Endpoint != "" {
		return strings.TrimRight(c.Endpoint, "/")
	}
	switch c.Provider {
	case ProviderOpenAI:
		return "https://api.openai.com/v1"
	case ProviderOllama:
		return "http://localhost:11434"
	default:
		return ""
	}
}

// TaskModel returns the model used for a task: the task's own model, then the
// global model, then the provider default.
func (c LLMConfig) TaskModel(task TaskType) string {
	if tc, ok := c.Tasks[task]; ok && tc.Model != "" {
		return tc.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return defaultModel(c.Provider, task)
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
// Zero means no timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func defaultModel(p Provider, task TaskType) string {
	switch p {
	case ProviderOllama:
		return "llama3.2"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		if task == TaskNarrate {
			return "gpt-4o-mini"
		}
		return "gpt-4o"
	}
}

func applyTaskModelEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	tc := cfg.Tasks[task]
	tc.Model = v
	cfg.Tasks[task] = tc
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
