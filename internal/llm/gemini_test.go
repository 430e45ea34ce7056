package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_Generate_JoinsParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
		  "candidates": [{"content": {"role": "model", "parts": [{"text": "Ho Ho "}, {"text": "Ho!"}]}}],
		  "usageMetadata": {"promptTokenCount": 4, "candidatesTokenCount": 6}
		}`))
	}))
	defer srv.Close()

	cfg := testConfig(ProviderGemini, srv.URL)
	client, err := NewGeminiClient(context.Background(), cfg, NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskNarrate,
		SystemPrompt: "cantastorie",
		UserPrompt:   "storia",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ho Ho Ho!", resp.Text())
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
	assert.Equal(t, Usage{PromptTokens: 4, CompletionTokens: 6}, resp.Usage)
}

func TestGeminiClient_Generate_SplitJSONExtractsWhole(t *testing.T) {
	parts := []map[string]string{
		{"text": "```json\n[{\"giorno\":\"Lunedì\","},
		{"text": "\"ora\":4}]\n```"},
	}
	body, err := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"role": "model", "parts": parts},
		}},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), testConfig(ProviderGemini, srv.URL), NoopObserver{})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskCodeGen, UserPrompt: "calcola"})

	require.NoError(t, err)
	list, ok := resp.Output.(BlockList)
	require.True(t, ok)
	assert.Len(t, list.Blocks, 1)
	assert.Equal(t, `[{"giorno":"Lunedì","ora":4}]`, Extract(resp.Output))
}
