package intelligence

import (
	"context"
	"strings"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/llm"
)

// Explanation sources.
const (
	SourceLLM           = "llm"
	SourceDeterministic = "deterministic"
)

// ExplainService answers questions about previously computed substitutions.
type ExplainService interface {
	// Explain never fails on LLM trouble; it degrades to a deterministic
	// summary of the rows instead.
	Explain(ctx context.Context, in ExplainInput) (*Explanation, error)
}

// ExplainInput is the question plus the data it is about.
type ExplainInput struct {
	Question          string
	Rules             string
	Request           string
	Substitutions     []domain.Substitution
	SubstitutionsJSON string
}

// Explanation is the answer shown to the user.
type Explanation struct {
	Text   string
	Source string
	Model  string
}

type explainService struct {
	client   llm.LLMClient
	observer llm.Observer
}

// NewExplainService creates an ExplainService backed by an LLM client.
func NewExplainService(client llm.LLMClient, observer llm.Observer) ExplainService {
	return &explainService{client: client, observer: observer}
}

func (s *explainService) Explain(ctx context.Context, in ExplainInput) (*Explanation, error) {
	if len(in.Substitutions) == 0 {
		return DeterministicExplanation(in), nil
	}
	if in.SubstitutionsJSON == "" {
		data, err := MarshalSubstitutions(in.Substitutions)
		if err != nil {
			return DeterministicExplanation(in), nil
		}
		in.SubstitutionsJSON = data
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskExplain,
		SystemPrompt: explainerSystemPrompt,
		UserPrompt:   buildExplainPrompt(in),
	})
	if err != nil {
		return DeterministicExplanation(in), nil
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return DeterministicExplanation(in), nil
	}
	return &Explanation{Text: text, Source: SourceLLM, Model: resp.Model}, nil
}
