package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// agentRunnerClient talks to a remote agent runner that owns the tools
// (code sandbox, spreadsheet loader) and returns whatever shape its agent
// framework produces.
type agentRunnerClient struct {
	caller
	http *http.Client
}

// NewAgentRunnerClient creates an LLMClient for a tool-executing agent runner.
func NewAgentRunnerClient(cfg LLMConfig, observer Observer) LLMClient {
	return &agentRunnerClient{
		caller: newCaller(cfg, observer),
		http:   newHTTPClient(),
	}
}

type agentRunRequest struct {
	Agent        string   `json:"agent"`
	Model        string   `json:"model"`
	SystemPrompt string   `json:"system_prompt"`
	Input        string   `json:"input"`
	Files        []string `json:"files,omitempty"`
	Temperature  float64  `json:"temperature"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
}

type agentRunUsage struct {
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Model string `json:"model"`
}

func (c *agentRunnerClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return c.run(ctx, req, func(ctx context.Context, p callParams) (*GenerateResponse, error) {
		endpoint := c.cfg.BaseURL() + "/agents/" + url.PathEscape(string(req.Task)) + "/run"
		raw, err := postJSON(ctx, c.http, endpoint, c.headers(), agentRunRequest{
			Agent:        string(req.Task),
			Model:        p.Model,
			SystemPrompt: req.SystemPrompt,
			Input:        req.UserPrompt,
			Files:        req.Attachments,
			Temperature:  p.Temperature,
			MaxTokens:    p.MaxTokens,
		})
		if err != nil {
			return nil, err
		}

		resp := &GenerateResponse{Output: ParseResponse(raw), Model: p.Model}

		// Usage is optional and only present on JSON object bodies.
		var meta agentRunUsage
		if json.Unmarshal(raw, &meta) == nil {
			if meta.Model != "" {
				resp.Model = meta.Model
			}
			if meta.Usage != nil {
				resp.Usage = Usage{PromptTokens: meta.Usage.PromptTokens, CompletionTokens: meta.Usage.CompletionTokens}
				resp.CostEUR = EstimateCost(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
			}
		}
		return resp, nil
	})
}

func (c *agentRunnerClient) headers() map[string]string {
	if c.cfg.APIKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
}

func (c *agentRunnerClient) Available(ctx context.Context) bool {
	return probe(ctx, c.http, c.cfg.BaseURL()+"/health", c.headers())
}
