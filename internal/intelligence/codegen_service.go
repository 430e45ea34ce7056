package intelligence

import (
	"context"
	"fmt"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/llm"
)

// CodeGenService asks the code-generation agent to write and execute
// calcola_sostituzioni against the uploaded schedule.
type CodeGenService interface {
	Generate(ctx context.Context, in TaskInput) (*CodeGenResult, error)
}

// CodeGenResult is the unvalidated agent output plus call accounting.
type CodeGenResult struct {
	Response  llm.Response
	Model     string
	LatencyMs int64
	CostEUR   float64
}

type codeGenService struct {
	client   llm.LLMClient
	observer llm.Observer
}

// NewCodeGenService creates a CodeGenService backed by an LLM client.
func NewCodeGenService(client llm.LLMClient, observer llm.Observer) CodeGenService {
	return &codeGenService{client: client, observer: observer}
}

func (s *codeGenService) Generate(ctx context.Context, in TaskInput) (*CodeGenResult, error) {
	req := llm.GenerateRequest{
		Task:         llm.TaskCodeGen,
		SystemPrompt: codeGenSystemPrompt,
		UserPrompt:   BuildTaskPrompt(in),
	}
	if in.FilePath != "" {
		req.Attachments = []string{in.FilePath}
	}

	resp, err := s.client.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: code generation: %w", domain.ErrExternalCall, err)
	}
	return &CodeGenResult{
		Response:  resp.Output,
		Model:     resp.Model,
		LatencyMs: resp.LatencyMs,
		CostEUR:   resp.CostEUR,
	}, nil
}
