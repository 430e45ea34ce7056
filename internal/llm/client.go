package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Attachments  []string // file paths exposed to tool-running agents
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// Usage is the token accounting reported by the backend.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Output    Response
	Model     string
	LatencyMs int64
	Usage     Usage
	CostEUR   float64
}

// Text returns the extracted text payload of the response.
func (r *GenerateResponse) Text() string {
	if r == nil {
		return ""
	}
	return Extract(r.Output)
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw agent response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the backend is reachable.
	Available(ctx context.Context) bool
}

// NewClient builds the LLMClient selected by cfg.Provider.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, observer)
	case ProviderAgent:
		return NewAgentRunnerClient(cfg, observer), nil
	default:
		return NewOpenAIClient(cfg, observer), nil
	}
}

// unavailableClient stands in for a backend the configuration cannot reach.
// Every call fails with the configuration error.
type unavailableClient struct {
	err error
}

// NewUnavailableClient returns an LLMClient whose calls fail with
// ErrUnavailable wrapping cause.
func NewUnavailableClient(cause error) LLMClient {
	return unavailableClient{err: cause}
}

func (c unavailableClient) Generate(context.Context, GenerateRequest) (*GenerateResponse, error) {
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, c.err)
}

func (unavailableClient) Available(context.Context) bool { return false }

// callParams are the resolved per-call generation settings.
type callParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// attemptFunc performs a single backend round trip.
type attemptFunc func(ctx context.Context, p callParams) (*GenerateResponse, error)

// caller runs attempts with the configured timeout and retry budget and
// reports every call to the observer.
type caller struct {
	cfg      LLMConfig
	observer Observer
}

func newCaller(cfg LLMConfig, observer Observer) caller {
	if observer == nil {
		observer = NoopObserver{}
	}
	return caller{cfg: cfg, observer: observer}
}

func (c caller) resolve(req GenerateRequest) callParams {
	taskCfg := c.cfg.Tasks[req.Task]
	p := callParams{
		Model:       c.cfg.TaskModel(req.Task),
		Temperature: taskCfg.Temperature,
		MaxTokens:   taskCfg.MaxTokens,
	}
	if req.Temperature != nil {
		p.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		p.MaxTokens = *req.MaxTokens
	}
	return p
}

func (c caller) run(ctx context.Context, req GenerateRequest, attempt attemptFunc) (*GenerateResponse, error) {
	start := time.Now()
	p := c.resolve(req)

	if timeoutMs := c.cfg.TaskTimeout(req.Task); timeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
		defer cancel()
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		resp, err := attempt(ctx, p)
		if err == nil {
			resp.LatencyMs = time.Since(start).Milliseconds()
			if resp.Model == "" {
				resp.Model = p.Model
			}
			c.observer.OnCallComplete(LLMCallEvent{
				Task:             req.Task,
				Provider:         c.cfg.Provider,
				Model:            resp.Model,
				LatencyMs:        resp.LatencyMs,
				Success:          true,
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
			})
			return resp, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout or rejected credentials.
		if ctx.Err() != nil || errors.Is(err, ErrUnauthorized) {
			break
		}
	}

	var outErr error
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		outErr = ErrTimeout
	case ctx.Err() != nil:
		outErr = ctx.Err()
	case errors.Is(lastErr, ErrUnauthorized):
		outErr = lastErr
	case isConnectionError(lastErr):
		outErr = fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	default:
		outErr = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}

	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Provider:  c.cfg.Provider,
		Model:     p.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(outErr),
	})
	return nil, outErr
}

// postJSON sends body to url and returns the raw response bytes for 200 OK.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, httpResp.StatusCode)
	case httpResp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("backend returned status %d: %s", httpResp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// probe reports whether a GET on url answers 200 within two seconds.
func probe(ctx context.Context, client *http.Client, url string, headers map[string]string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
