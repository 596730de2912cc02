package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// Cached decorates a provider with a reply cache. Prompts render
// byte-identically for identical inputs, so a digest of model id plus prompt
// is a sound cache key.
type Cached struct {
	inner ports.Provider
	store ports.CacheStore
	log   ports.Logger
}

func WithCache(inner ports.Provider, store ports.CacheStore, log ports.Logger) *Cached {
	return &Cached{inner: inner, store: store, log: log}
}

func (c *Cached) Name() string    { return c.inner.Name() }
func (c *Cached) ModelID() string { return c.inner.ModelID() }

func (c *Cached) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	key := cacheKey(c.inner.ModelID(), req.Prompt)
	if entry, ok := c.store.Get(key); ok {
		c.log.Debug("reply cache hit", map[string]interface{}{"model": c.inner.ModelID(), "key": key[:12]})
		return ports.GenerateResponse{Text: entry.Text}, nil
	}

	resp, err := c.inner.Generate(ctx, req)
	if err != nil {
		return resp, err
	}
	if err := c.store.Put(domain.CacheEntry{
		Key:       key,
		Model:     c.inner.ModelID(),
		Text:      resp.Text,
		CreatedAt: time.Now(),
	}); err != nil {
		c.log.Warn("reply cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return resp, nil
}

func cacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

var _ ports.Provider = (*Cached)(nil)
