package provider

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// OpenAI talks to the Chat Completions API. With a custom base URL it also
// serves any OpenAI-compatible endpoint (OpenRouter, llama.cpp, vLLM).
type OpenAI struct {
	client    openai.Client
	name      string
	model     string
	maxTokens int
}

func NewOpenAI(name, baseURL, apiKey, model string, maxTokens int) (*OpenAI, error) {
	if apiKey == "" {
		return nil, &domain.AuthError{Provider: name}
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{
		client:    openai.NewClient(opts...),
		name:      name,
		model:     model,
		maxTokens: maxTokensOr(maxTokens),
	}, nil
}

func (p *OpenAI) Name() string    { return p.name }
func (p *OpenAI) ModelID() string { return p.model }

func (p *OpenAI) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	cctx, cancel := requestContext(ctx, req.Timeout)
	defer cancel()

	resp, err := p.client.Chat.Completions.New(cctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Model:     openai.ChatModel(p.model),
		MaxTokens: openai.Int(int64(p.maxTokens)),
	})
	if err != nil {
		return ports.GenerateResponse{}, classify(p.name, ctx, err)
	}

	if len(resp.Choices) == 0 {
		return ports.GenerateResponse{}, &domain.ProtocolError{Provider: p.name, Detail: "reply contains no choices"}
	}
	text := resp.Choices[0].Message.Content
	if text == "" {
		return ports.GenerateResponse{}, &domain.ProtocolError{Provider: p.name, Detail: "reply contains no message content"}
	}
	return ports.GenerateResponse{Text: text}, nil
}

var _ ports.Provider = (*OpenAI)(nil)
