package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// openAIClient implements LLMClient against an OpenAI-compatible
// chat completions endpoint.
type openAIClient struct {
	caller
	http *http.Client
}

// NewOpenAIClient creates an LLMClient for the OpenAI chat completions API.
func NewOpenAIClient(cfg LLMConfig, observer Observer) LLMClient {
	return &openAIClient{
		caller: newCaller(cfg, observer),
		http:   newHTTPClient(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *openAIClient) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
}

func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return c.run(ctx, req, func(ctx context.Context, p callParams) (*GenerateResponse, error) {
		messages := make([]chatMessage, 0, 2)
		if req.SystemPrompt != "" {
			messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
		}
		messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})

		raw, err := postJSON(ctx, c.http, c.cfg.BaseURL()+"/chat/completions", c.headers(), chatCompletionRequest{
			Model:       p.Model,
			Messages:    messages,
			Temperature: p.Temperature,
			MaxTokens:   p.MaxTokens,
		})
		if err != nil {
			return nil, err
		}

		var resp chatCompletionResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
		}

		blocks := make([]Block, 0, len(resp.Choices))
		for _, ch := range resp.Choices {
			blocks = append(blocks, ContentBlock{Content: ch.Message.Content})
		}
		model := resp.Model
		if model == "" {
			model = p.Model
		}
		usage := Usage{PromptTokens: resp.Usage.PromptTokens, CompletionTokens: resp.Usage.CompletionTokens}
		return &GenerateResponse{
			Output:  BlockList{Blocks: blocks},
			Model:   model,
			Usage:   usage,
			CostEUR: EstimateCost(model, usage.PromptTokens, usage.CompletionTokens),
		}, nil
	})
}

func (c *openAIClient) Available(ctx context.Context) bool {
	return probe(ctx, c.http, c.cfg.BaseURL()+"/models", c.headers())
}
