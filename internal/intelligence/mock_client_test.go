package intelligence

import (
	"context"

	"github.com/alexanderramin/elfshift/internal/llm"
)

type mockLLMClient struct {
	response string
	output   llm.Response
	err      error
	requests []llm.GenerateRequest
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	out := m.output
	if out == nil {
		out = llm.TextBlock{Text: m.response}
	}
	return &llm.GenerateResponse{Output: out, Model: "gpt-4o", CostEUR: 0.002}, nil
}

func (m *mockLLMClient) Available(_ context.Context) bool { return m.err == nil }

func (m *mockLLMClient) lastRequest() llm.GenerateRequest {
	if len(m.requests) == 0 {
		return llm.GenerateRequest{}
	}
	return m.requests[len(m.requests)-1]
}
