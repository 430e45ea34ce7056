package intelligence

import (
	"context"
	"testing"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSubs() []domain.Substitution {
	hat := "Verde"
	return []domain.Substitution{{
		Day:         "Lunedì",
		Hour:        4,
		Department:  "PE",
		Absent:      "Scintillino",
		AbsentHat:   &hat,
		Substitute:  "Brillastella",
		AppliedRule: "Ora Jolly",
	}}
}

func TestNarrationService_Narrate(t *testing.T) {
	client := &mockLLMClient{output: llm.BlockList{Blocks: []llm.Block{llm.TextBlock{Text: "Ho Ho Ho! Brillastella salva la giornata."}}}}
	svc := NewNarrationService(client, llm.NoopObserver{})

	story, err := svc.Narrate(context.Background(), sampleSubs())

	require.NoError(t, err)
	assert.Equal(t, "Ho Ho Ho! Brillastella salva la giornata.", story.Text)
	assert.Equal(t, StoryHash(story.Text), story.Hash)

	req := client.lastRequest()
	assert.Equal(t, llm.TaskNarrate, req.Task)
	assert.Contains(t, req.SystemPrompt, "Elfo Cantastorie")
	assert.Contains(t, req.UserPrompt, "max 150 parole")
	assert.Contains(t, req.UserPrompt, `"assente":"Scintillino"`)
	assert.Contains(t, req.UserPrompt, `"giorno":"Lunedì"`)
}

func TestNarrationService_Narrate_Error(t *testing.T) {
	svc := NewNarrationService(&mockLLMClient{err: llm.ErrTimeout}, llm.NoopObserver{})

	story, err := svc.Narrate(context.Background(), sampleSubs())

	assert.Nil(t, story)
	assert.ErrorIs(t, err, domain.ErrExternalCall)
	assert.ErrorIs(t, err, llm.ErrTimeout)
}

func TestStoryHash(t *testing.T) {
	// md5("") = d41d8cd98f00b204e9800998ecf8427e
	assert.Equal(t, "d41d8cd9", StoryHash(""))
	assert.Len(t, StoryHash("Ho Ho Ho"), 8)
	assert.NotEqual(t, StoryHash("a"), StoryHash("b"))
}

func TestMarshalSubstitutions_NilIsEmptyArray(t *testing.T) {
	out, err := MarshalSubstitutions(nil)

	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}
