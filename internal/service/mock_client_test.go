package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/elfshift/internal/intelligence"
	"github.com/alexanderramin/elfshift/internal/llm"
)

// scriptedLLMClient answers per task so a single client can stand in for
// every agent of a turn.
type scriptedLLMClient struct {
	outputs  map[llm.TaskType]llm.Response
	errs     map[llm.TaskType]error
	panicOn  llm.TaskType
	requests []llm.GenerateRequest
}

func newScriptedClient() *scriptedLLMClient {
	return &scriptedLLMClient{
		outputs: map[llm.TaskType]llm.Response{},
		errs:    map[llm.TaskType]error{},
	}
}

func (m *scriptedLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if req.Task == m.panicOn {
		panic(fmt.Sprintf("scripted panic on %s", req.Task))
	}
	if err := m.errs[req.Task]; err != nil {
		return nil, err
	}
	out, ok := m.outputs[req.Task]
	if !ok {
		return nil, fmt.Errorf("no scripted output for %s", req.Task)
	}
	return &llm.GenerateResponse{Output: out, Model: "gpt-4o", CostEUR: 0.01}, nil
}

func (m *scriptedLLMClient) Available(context.Context) bool { return true }

func (m *scriptedLLMClient) tasks() []llm.TaskType {
	out := make([]llm.TaskType, len(m.requests))
	for i, r := range m.requests {
		out[i] = r.Task
	}
	return out
}

func agentsFor(client llm.LLMClient) Agents {
	return Agents{
		CodeGen:   intelligence.NewCodeGenService(client, llm.NoopObserver{}),
		Narrator:  intelligence.NewNarrationService(client, llm.NoopObserver{}),
		Explainer: intelligence.NewExplainService(client, llm.NoopObserver{}),
	}
}
