package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okzu/shellm/internal/domain"
)

func TestErrorClassification(t *testing.T) {
	auth := &domain.AuthError{Provider: "openai"}
	timeout := &domain.TimeoutError{Op: "generate"}
	transient := &domain.TransientError{Err: errors.New("connection reset")}
	malformed := &domain.MalformedResponseError{Attempts: 3}

	tests := []struct {
		name          string
		err           error
		wantAuth      bool
		wantTimeout   bool
		wantTransient bool
		wantMalformed bool
	}{
		{name: "auth", err: auth, wantAuth: true},
		{name: "timeout", err: timeout, wantTimeout: true},
		{name: "transient", err: transient, wantTransient: true},
		{name: "malformed", err: malformed, wantMalformed: true},
		{name: "wrapped auth", err: fmt.Errorf("call failed: %w", auth), wantAuth: true},
		{name: "wrapped transient", err: fmt.Errorf("outer: %w", transient), wantTransient: true},
		{name: "plain error", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.IsAuth(tt.err); got != tt.wantAuth {
				t.Errorf("IsAuth = %v, want %v", got, tt.wantAuth)
			}
			if got := domain.IsTimeout(tt.err); got != tt.wantTimeout {
				t.Errorf("IsTimeout = %v, want %v", got, tt.wantTimeout)
			}
			if got := domain.IsTransient(tt.err); got != tt.wantTransient {
				t.Errorf("IsTransient = %v, want %v", got, tt.wantTransient)
			}
			if got := domain.IsMalformed(tt.err); got != tt.wantMalformed {
				t.Errorf("IsMalformed = %v, want %v", got, tt.wantMalformed)
			}
		})
	}
}

func TestMalformedResponseUnwrapsParseError(t *testing.T) {
	parse := &domain.ParseError{Reason: "trailing garbage", Raw: "{}{}"}
	err := &domain.MalformedResponseError{Attempts: 3, LastRaw: parse.Raw, Last: parse}

	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Fatal("expected MalformedResponseError to unwrap to ParseError")
	}
	if pe.Raw != "{}{}" {
		t.Errorf("unwrapped Raw = %q, want {}{}", pe.Raw)
	}
}
