package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"github.com/okzu/shellm/internal/domain"
)

// classify maps an SDK failure onto the domain error taxonomy so the layers
// above can reason about retries without knowing which backend was used.
// User cancellation of the parent context passes through untouched.
func classify(provider string, parent context.Context, err error) error {
	if err == nil {
		return nil
	}
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.TransientError{Err: &domain.TimeoutError{Op: provider + " request", Err: err}}
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return fromStatus(provider, anthropicErr.StatusCode, err)
	}
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return fromStatus(provider, openaiErr.StatusCode, err)
	}
	var ollamaErr api.StatusError
	if errors.As(err, &ollamaErr) {
		return fromStatus(provider, ollamaErr.StatusCode, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &domain.TransientError{Err: &domain.TimeoutError{Op: provider + " request", Err: err}}
		}
		return &domain.TransientError{Err: err}
	}

	// String fallback for backends without typed errors (Gemini in
	// particular surfaces HTTP status as message text).
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"401", "403", "unauthorized", "permission denied", "api key", "api_key"} {
		if strings.Contains(msg, pattern) {
			return &domain.AuthError{Provider: provider, Err: err}
		}
	}
	for _, pattern := range []string{
		"429", "500", "502", "503", "504",
		"rate limit", "resource_exhausted", "unavailable", "overloaded",
		"connection refused", "connection reset", "no such host", "eof", "tls handshake",
	} {
		if strings.Contains(msg, pattern) {
			return &domain.TransientError{Err: err}
		}
	}

	return fmt.Errorf("%s: %w", provider, err)
}

func fromStatus(provider string, code int, err error) error {
	switch {
	case code == 401 || code == 403:
		return &domain.AuthError{Provider: provider, Err: err}
	case code == 408:
		return &domain.TransientError{Err: &domain.TimeoutError{Op: provider + " request", Err: err}}
	case code == 429 || code >= 500:
		return &domain.TransientError{Err: err}
	default:
		return fmt.Errorf("%s: http %d: %w", provider, code, err)
	}
}
