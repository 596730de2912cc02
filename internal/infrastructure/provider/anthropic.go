package provider

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// Anthropic talks to the Claude Messages API.
type Anthropic struct {
	client    anthropic.Client
	name      string
	model     string
	maxTokens int
}

func NewAnthropic(name, baseURL, apiKey, model string, maxTokens int) (*Anthropic, error) {
	if apiKey == "" {
		return nil, &domain.AuthError{Provider: name}
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		name:      name,
		model:     model,
		maxTokens: maxTokensOr(maxTokens),
	}, nil
}

func (p *Anthropic) Name() string    { return p.name }
func (p *Anthropic) ModelID() string { return p.model }

func (p *Anthropic) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	cctx, cancel := requestContext(ctx, req.Timeout)
	defer cancel()

	msg, err := p.client.Messages.New(cctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return ports.GenerateResponse{}, classify(p.name, ctx, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if text.Len() == 0 {
		return ports.GenerateResponse{}, &domain.ProtocolError{Provider: p.name, Detail: "reply contains no text blocks"}
	}
	return ports.GenerateResponse{Text: text.String()}, nil
}

var _ ports.Provider = (*Anthropic)(nil)
