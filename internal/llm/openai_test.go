package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Scintillino è malato", req.Messages[1].Content)

		w.Write([]byte(`{
		  "model": "gpt-4o-2024-08-06",
		  "choices": [{"message": {"role": "assistant", "content": "` + "```json\\n[]\\n```" + `"}}],
		  "usage": {"prompt_tokens": 1000000, "completion_tokens": 0}
		}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testConfig(ProviderOpenAI, srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskCodeGen,
		SystemPrompt: "sei un elfo",
		UserPrompt:   "Scintillino è malato",
	})

	require.NoError(t, err)
	assert.Equal(t, BlockList{Blocks: []Block{ContentBlock{Content: "```json\n[]\n```"}}}, resp.Output)
	assert.Equal(t, "[]", resp.Text())
	assert.Equal(t, "gpt-4o-2024-08-06", resp.Model)
	assert.InDelta(t, 2.50*0.92, resp.CostEUR, 1e-9)
}

func TestOpenAIClient_Generate_NarrationUsesMiniModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Ho Ho Ho!"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testConfig(ProviderOpenAI, srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskNarrate, UserPrompt: "storia"})

	require.NoError(t, err)
	assert.Equal(t, "Ho Ho Ho!", resp.Text())
	assert.Equal(t, "gpt-4o-mini", resp.Model)
}

func TestOpenAIClient_Generate_UnauthorizedIsNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := testConfig(ProviderOpenAI, srv.URL)
	cfg.MaxRetries = 3

	client := NewOpenAIClient(cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskCodeGen, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestOpenAIClient_Generate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testConfig(ProviderOpenAI, srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskCodeGen, UserPrompt: "x"})

	require.NoError(t, err)
	assert.Equal(t, "[]", resp.Text())
}

func TestOpenAIClient_Generate_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testConfig(ProviderOpenAI, srv.URL), NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskCodeGen, UserPrompt: "x"})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.ErrorContains(t, err, "invalid llm output")
}
