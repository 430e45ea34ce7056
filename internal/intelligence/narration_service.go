package intelligence

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/llm"
)

// NarrationService turns validated substitutions into a short story.
type NarrationService interface {
	Narrate(ctx context.Context, subs []domain.Substitution) (*Story, error)
}

// Story is the narrator's free text. It is never schema-validated.
type Story struct {
	Text    string
	Hash    string
	Model   string
	CostEUR float64
}

type narrationService struct {
	client   llm.LLMClient
	observer llm.Observer
}

// NewNarrationService creates a NarrationService backed by an LLM client.
func NewNarrationService(client llm.LLMClient, observer llm.Observer) NarrationService {
	return &narrationService{client: client, observer: observer}
}

func (s *narrationService) Narrate(ctx context.Context, subs []domain.Substitution) (*Story, error) {
	data, err := MarshalSubstitutions(subs)
	if err != nil {
		return nil, fmt.Errorf("encoding substitutions: %w", err)
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskNarrate,
		SystemPrompt: narratorSystemPrompt,
		UserPrompt:   BuildStoryPrompt(data),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: narration: %w", domain.ErrExternalCall, err)
	}

	text := resp.Text()
	return &Story{
		Text:    text,
		Hash:    StoryHash(text),
		Model:   resp.Model,
		CostEUR: resp.CostEUR,
	}, nil
}

// MarshalSubstitutions serializes rows compactly without HTML escaping, so
// accented names reach the model unchanged.
func MarshalSubstitutions(subs []domain.Substitution) (string, error) {
	if subs == nil {
		subs = []domain.Substitution{}
	}
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(subs); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// StoryHash is a short reference for a narrated story: the first eight hex
// characters of its MD5 digest.
func StoryHash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])[:8]
}
