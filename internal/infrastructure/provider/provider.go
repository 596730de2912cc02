// Package provider adapts the configured model backends to the single
// Generate contract. Adapters transmit the prompt opaquely and return the
// raw reply text; parsing and retries belong to the layers above.
package provider

import (
	"context"
	"time"
)

const (
	// defaultRequestTimeout bounds one generation call when the model
	// entry does not set its own.
	defaultRequestTimeout = 60 * time.Second

	// defaultMaxTokens is a generous ceiling for single-command replies.
	defaultMaxTokens = 4096
)

// requestContext derives the per-call deadline every adapter runs under.
func requestContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func maxTokensOr(configured int) int {
	if configured > 0 {
		return configured
	}
	return defaultMaxTokens
}
