package domain

import (
	"errors"
	"fmt"
)

// AuthError reports bad or missing credentials. Terminal for the current
// request; never silently retried or rerouted to another provider.
type AuthError struct {
	Provider string
	Err      error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: authentication failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: authentication failed", e.Provider)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TimeoutError reports an operation that hit its deadline instead of
// blocking indefinitely.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out", e.Op)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// TransientError marks a transport failure worth exactly one best-effort
// retry by the orchestrator's caller. Adapters never retry themselves.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient network error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// ProtocolError reports an unexpected response shape from a provider.
type ProtocolError struct {
	Provider string
	Detail   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %s", e.Provider, e.Detail)
}

// ParseError reports a model reply that failed the strict JSON contract. Raw
// carries the offending text so the correction retry can quote it in logs.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid model reply: %s", e.Reason)
}

// MalformedResponseError is raised when the correction-retry budget is
// exhausted without a single valid reply.
type MalformedResponseError struct {
	Attempts int
	LastRaw  string
	Last     *ParseError
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("model returned malformed output after %d attempts", e.Attempts)
}

func (e *MalformedResponseError) Unwrap() error {
	if e.Last == nil {
		return nil
	}
	return e.Last
}

// ErrExecutionTimeout distinguishes "ran but was killed at the deadline" from
// a normal non-zero exit when callers need the error form of the outcome.
var ErrExecutionTimeout = errors.New("command execution timed out")

// IsTransient reports whether err is eligible for the single caller-level
// retry.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsTimeout reports whether err is a deadline failure at any layer.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsAuth reports whether err is a credential failure.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsMalformed reports whether err is an exhausted-retries parse failure.
func IsMalformed(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}
