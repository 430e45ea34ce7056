package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// geminiClient implements LLMClient with the Google Gen AI SDK.
type geminiClient struct {
	caller
	client *genai.Client
}

// NewGeminiClient creates an LLMClient backed by the Gemini API. When an
// endpoint is configured it replaces the SDK's base URL.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{caller: newCaller(cfg, observer), client: client}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return c.run(ctx, req, func(ctx context.Context, p callParams) (*GenerateResponse, error) {
		temp := float32(p.Temperature)
		gc := &genai.GenerateContentConfig{Temperature: &temp}
		if p.MaxTokens > 0 {
			gc.MaxOutputTokens = int32(p.MaxTokens)
		}
		if req.SystemPrompt != "" {
			gc.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
		}

		result, err := c.client.Models.GenerateContent(ctx, p.Model, genai.Text(req.UserPrompt), gc)
		if err != nil {
			return nil, err
		}

		// Gemini may split one answer across several parts; they form a
		// single text block.
		var blocks []Block
		if text := result.Text(); text != "" {
			blocks = append(blocks, TextBlock{Text: text})
		}

		resp := &GenerateResponse{Output: BlockList{Blocks: blocks}, Model: p.Model}
		if result.UsageMetadata != nil {
			resp.Usage = Usage{
				PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
				CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			}
			resp.CostEUR = EstimateCost(p.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		}
		return resp, nil
	})
}

func (c *geminiClient) Available(ctx context.Context) bool {
	_, err := c.client.Models.Get(ctx, c.cfg.TaskModel(TaskCodeGen), nil)
	return err == nil
}
