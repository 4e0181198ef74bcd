package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// chatProvider talks to any OpenAI-compatible chat completions API.
type chatProvider struct {
	name   string
	client *openai.Client
}

func newChatProvider(name, apiKey, baseURL string) *chatProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &chatProvider{
		name:   name,
		client: openai.NewClientWithConfig(config),
	}
}

type OpenAIProvider struct {
	*chatProvider
}

func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	return &OpenAIProvider{newChatProvider("OpenAI", apiKey, baseURL)}
}

func (p *chatProvider) GetProviderName() string {
	return p.name
}

func (p *chatProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s error: %w", strings.ToLower(p.name), err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices from %s: %w", p.name, ErrEmptyCompletion)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("blank content from %s: %w", p.name, ErrEmptyCompletion)
	}
	return content, nil
}
