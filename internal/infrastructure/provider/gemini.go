package provider

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// Gemini talks to the Google Gemini API.
type Gemini struct {
	client    *genai.Client
	name      string
	model     string
	maxTokens int
}

func NewGemini(ctx context.Context, name, baseURL, apiKey, model string, maxTokens int) (*Gemini, error) {
	if apiKey == "" {
		return nil, &domain.AuthError{Provider: name}
	}
	clientConfig := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, classify(name, ctx, err)
	}
	return &Gemini{
		client:    client,
		name:      name,
		model:     model,
		maxTokens: maxTokensOr(maxTokens),
	}, nil
}

func (p *Gemini) Name() string    { return p.name }
func (p *Gemini) ModelID() string { return p.model }

func (p *Gemini) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	cctx, cancel := requestContext(ctx, req.Timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(p.maxTokens),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(cctx, p.model, contents, config)
	if err != nil {
		return ports.GenerateResponse{}, classify(p.name, ctx, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ports.GenerateResponse{}, &domain.ProtocolError{Provider: p.name, Detail: "reply contains no candidates"}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return ports.GenerateResponse{}, &domain.ProtocolError{Provider: p.name, Detail: "reply contains no text parts"}
	}
	return ports.GenerateResponse{Text: text.String()}, nil
}

var _ ports.Provider = (*Gemini)(nil)
