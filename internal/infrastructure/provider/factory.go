package provider

import (
	"context"
	"fmt"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// Factory builds the adapter serving one configured model, resolving the
// provider entry, credentials and base URL it references. When a cache store
// is present and caching is enabled, the adapter is wrapped transparently.
type Factory struct {
	log   ports.Logger
	cache ports.CacheStore
}

func NewFactory(log ports.Logger, cache ports.CacheStore) *Factory {
	return &Factory{log: log, cache: cache}
}

func (f *Factory) ForModel(ctx context.Context, cfg domain.Config, name string, model domain.ModelConfig) (ports.Provider, error) {
	pc, kind, err := cfg.ProviderFor(model)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", name, err)
	}
	providerName := model.Provider
	if providerName == "" {
		providerName = kind
	}
	apiKey := cfg.ResolveAPIKey(model)

	var p ports.Provider
	switch kind {
	case "openai":
		p, err = NewOpenAI(providerName, pc.BaseURL, apiKey, model.Model, model.MaxTokens)
	case "anthropic":
		p, err = NewAnthropic(providerName, pc.BaseURL, apiKey, model.Model, model.MaxTokens)
	case "ollama":
		p, err = NewOllama(providerName, pc.BaseURL, apiKey, model.Model)
	case "gemini", "google":
		p, err = NewGemini(ctx, providerName, pc.BaseURL, apiKey, model.Model, model.MaxTokens)
	case "test":
		p = NewScript(providerName, model.Model)
	default:
		return nil, fmt.Errorf("model %q: unknown provider kind %q", name, kind)
	}
	if err != nil {
		return nil, err
	}

	if f.cache != nil && cfg.Cache.Enabled {
		p = WithCache(p, f.cache, f.log)
	}
	return p, nil
}

var _ ports.ProviderFactory = (*Factory)(nil)
