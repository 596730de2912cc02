package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ollama/ollama/api"

	"github.com/okzu/shellm/internal/domain"
)

type fakeNetError struct{ timeout bool }

func (e *fakeNetError) Error() string   { return "fake network error" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		err           error
		wantTransient bool
		wantTimeout   bool
		wantAuth      bool
	}{
		{
			name:          "deadline exceeded is a retryable timeout",
			err:           fmt.Errorf("request: %w", context.DeadlineExceeded),
			wantTransient: true,
			wantTimeout:   true,
		},
		{
			name:          "http 503 from ollama",
			err:           api.StatusError{StatusCode: 503, ErrorMessage: "overloaded"},
			wantTransient: true,
		},
		{
			name:     "http 401 from ollama",
			err:      api.StatusError{StatusCode: 401, ErrorMessage: "unauthorized"},
			wantAuth: true,
		},
		{
			name:          "network timeout",
			err:           &fakeNetError{timeout: true},
			wantTransient: true,
			wantTimeout:   true,
		},
		{
			name:          "network failure",
			err:           &fakeNetError{},
			wantTransient: true,
		},
		{
			name:          "untyped rate limit message",
			err:           errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"),
			wantTransient: true,
		},
		{
			name:     "untyped api key message",
			err:      errors.New("API key not valid. Please pass a valid API key."),
			wantAuth: true,
		},
		{
			name: "plain failure stays plain",
			err:  errors.New("model not found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("backend", ctx, tt.err)
			if got == nil {
				t.Fatal("classify returned nil for non-nil error")
			}
			if domain.IsTransient(got) != tt.wantTransient {
				t.Errorf("IsTransient = %v, want %v (err: %v)", domain.IsTransient(got), tt.wantTransient, got)
			}
			if domain.IsTimeout(got) != tt.wantTimeout {
				t.Errorf("IsTimeout = %v, want %v (err: %v)", domain.IsTimeout(got), tt.wantTimeout, got)
			}
			if domain.IsAuth(got) != tt.wantAuth {
				t.Errorf("IsAuth = %v, want %v (err: %v)", domain.IsAuth(got), tt.wantAuth, got)
			}
		})
	}
}

func TestClassifyNilError(t *testing.T) {
	if got := classify("backend", context.Background(), nil); got != nil {
		t.Fatalf("classify(nil) = %v, want nil", got)
	}
}

func TestClassifyPreservesUserCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := classify("backend", ctx, errors.New("request aborted"))
	if !errors.Is(got, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", got)
	}
	if domain.IsTransient(got) {
		t.Error("user cancellation must not be retryable")
	}
}
