package llm

import "errors"

var (
	// ErrUnavailable indicates the LLM backend is unreachable.
	ErrUnavailable = errors.New("llm backend unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrUnauthorized indicates the backend rejected the credentials.
	ErrUnauthorized = errors.New("llm backend rejected credentials")

	// ErrInvalidOutput indicates the backend response could not be decoded.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrMissingAPIKey indicates a hosted provider was selected without a key.
	ErrMissingAPIKey = errors.New("missing llm api key")
)
