package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ollamaClient implements LLMClient using the Ollama HTTP API.
type ollamaClient struct {
	caller
	http *http.Client
}

// NewOllamaClient creates an LLMClient that talks to a local Ollama instance.
// Local calls are never billed.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	return &ollamaClient{
		caller: newCaller(cfg, observer),
		http:   newHTTPClient(),
	}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return c.run(ctx, req, func(ctx context.Context, p callParams) (*GenerateResponse, error) {
		body := ollamaRequest{
			Model:  p.Model,
			System: req.SystemPrompt,
			Prompt: req.UserPrompt,
			Stream: false,
			Options: ollamaOptions{
				Temperature: p.Temperature,
				NumPredict:  p.MaxTokens,
			},
		}
		raw, err := postJSON(ctx, c.http, c.cfg.BaseURL()+"/api/generate", nil, body)
		if err != nil {
			return nil, err
		}

		var resp ollamaResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
		}
		return &GenerateResponse{
			Output: TextBlock{Text: resp.Response},
			Model:  resp.Model,
			Usage:  Usage{PromptTokens: resp.PromptEvalCount, CompletionTokens: resp.EvalCount},
		}, nil
	})
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	return probe(ctx, c.http, c.cfg.BaseURL()+"/api/tags", nil)
}
