package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// Ollama talks to a local or remote Ollama server. No API key is required
// for the local daemon; remote servers behind a proxy can set one, sent as a
// bearer token.
type Ollama struct {
	client *api.Client
	name   string
	model  string
}

func NewOllama(name, baseURL, apiKey, model string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", baseURL, err)
	}

	httpClient := http.DefaultClient
	if apiKey != "" {
		httpClient = &http.Client{
			Transport: &authTransport{token: apiKey, base: http.DefaultTransport},
		}
	}

	return &Ollama{
		client: api.NewClient(parsed, httpClient),
		name:   name,
		model:  model,
	}, nil
}

func (p *Ollama) Name() string    { return p.name }
func (p *Ollama) ModelID() string { return p.model }

func (p *Ollama) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	cctx, cancel := requestContext(ctx, req.Timeout)
	defer cancel()

	chatReq := &api.ChatRequest{
		Model: p.model,
		Messages: []api.Message{
			{Role: "user", Content: req.Prompt},
		},
		Stream: boolPtr(false),
	}

	var text strings.Builder
	err := p.client.Chat(cctx, chatReq, func(resp api.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return ports.GenerateResponse{}, classify(p.name, ctx, err)
	}
	if text.Len() == 0 {
		return ports.GenerateResponse{}, &domain.ProtocolError{Provider: p.name, Detail: "reply contains no message content"}
	}
	return ports.GenerateResponse{Text: text.String()}, nil
}

type authTransport struct {
	token string
	base  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(clone)
}

func boolPtr(b bool) *bool { return &b }

var _ ports.Provider = (*Ollama)(nil)
