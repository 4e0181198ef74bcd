package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the provider answers without content.
var ErrEmptyCompletion = errors.New("llm returned an empty completion")

// Chat roles accepted by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string
	Content string
}

type CompletionRequest struct {
	Messages    []ChatMessage
	Model       string
	Temperature float64
	MaxTokens   int
}

// Completer is one chat-completion backend.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	GetProviderName() string
}

// ProviderType untuk factory
type ProviderType string

const (
	ProviderOpenAI   ProviderType = "openai"
	ProviderGroq     ProviderType = "groq"
	ProviderDeepSeek ProviderType = "deepseek"
)

// ProviderConfig untuk create provider
type ProviderConfig struct {
	Type        ProviderType
	OpenAIKey   string
	GroqKey     string
	DeepSeekKey string

	// BaseURL overrides the provider endpoint, e.g. a proxy or a test server.
	BaseURL string
}

// NewProvider factory untuk create LLM provider
func NewProvider(cfg ProviderConfig) (Completer, error) {
	switch cfg.Type {
	case ProviderOpenAI, "":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.BaseURL), nil

	case ProviderGroq:
		if cfg.GroqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required")
		}
		return NewGroqProvider(cfg.GroqKey, cfg.BaseURL), nil

	case ProviderDeepSeek:
		if cfg.DeepSeekKey == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY is required")
		}
		return NewDeepSeekProvider(cfg.DeepSeekKey, cfg.BaseURL), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}

// DefaultModel returns the model used when LLM_MODEL is empty.
func DefaultModel(t ProviderType) string {
	switch t {
	case ProviderGroq:
		return "llama-3.1-8b-instant"
	case ProviderDeepSeek:
		return "deepseek-chat"
	default:
		return "gpt-4o-mini"
	}
}
