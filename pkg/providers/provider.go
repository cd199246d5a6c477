package providers

import (
	"context"
	"time"
)

// Request is one unit of text handed to a translation backend. Source is a
// language code or "auto" for server-side detection.
type Request struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
}

// Response carries the translated text and, when the backend detected the
// source language, its code.
type Response struct {
	Text           string `json:"text"`
	DetectedSource string `json:"detected_source,omitempty"`
}

// TranslationProvider is the boundary to a machine-translation service.
// Implementations must accept inputs up to the pipeline's chunk limit and
// return an error on quota or network failure; callers decide recoverability.
type TranslationProvider interface {
	Translate(ctx context.Context, req *Request) (*Response, error)
	Name() string
}

// BaseConfig is shared by all HTTP-backed providers.
type BaseConfig struct {
	APIKey      string `json:"api_key,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`

	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`

	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig returns the baseline HTTP settings.
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Timeout:    5 * time.Minute,
		MaxRetries: 3,
		RetryDelay: time.Second,
		Headers:    make(map[string]string),
	}
}

// Error is a backend-reported failure.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// IsRetryable reports whether a retry could plausibly succeed.
func (e *Error) IsRetryable() bool {
	switch e.Code {
	case "rate_limit", "timeout", "server_error":
		return true
	default:
		return false
	}
}

// NewError creates a backend error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}
