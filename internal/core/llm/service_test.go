package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func fakeOpenAI(t *testing.T, content string, status int, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestServiceChatSendsSettings(t *testing.T) {
	t.Parallel()

	var seen chatRequest
	srv := fakeOpenAI(t, "Olá! O pacote custa R$ 99.", http.StatusOK, &seen)

	svc := NewService(NewOpenAIProvider("sk-test", srv.URL+"/v1"), Settings{Model: "gpt-4o-mini", Temperature: 0.4, MaxTokens: 200})
	out, err := svc.Chat(context.Background(), []ChatMessage{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "preço?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Olá! O pacote custa R$ 99.", out)

	assert.Equal(t, "gpt-4o-mini", seen.Model)
	assert.InDelta(t, 0.4, seen.Temperature, 1e-6)
	assert.Equal(t, 200, seen.MaxTokens)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, RoleSystem, seen.Messages[0].Role)
	assert.Equal(t, "preço?", seen.Messages[1].Content)
}

func TestServiceChatBlankContent(t *testing.T) {
	t.Parallel()

	srv := fakeOpenAI(t, "   ", http.StatusOK, nil)
	svc := NewService(NewGroqProvider("gsk", srv.URL+"/v1"), Settings{Model: "m"})

	_, err := svc.Chat(context.Background(), []ChatMessage{{Role: RoleUser, Content: "oi"}})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestServiceChatHTTPError(t *testing.T) {
	t.Parallel()

	srv := fakeOpenAI(t, "", http.StatusInternalServerError, nil)
	svc := NewService(NewDeepSeekProvider("ds", srv.URL+"/v1"), Settings{Model: "m"})

	_, err := svc.Chat(context.Background(), []ChatMessage{{Role: RoleUser, Content: "oi"}})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyCompletion))
}

type slowCompleter struct{}

func (slowCompleter) GetProviderName() string { return "slow" }
func (slowCompleter) Complete(ctx context.Context, _ CompletionRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestServiceChatTimeout(t *testing.T) {
	t.Parallel()

	svc := NewService(slowCompleter{}, Settings{Timeout: 20 * time.Millisecond})
	_, err := svc.Chat(context.Background(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSettingsNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{"defaults", Settings{}, Settings{Temperature: 0, MaxTokens: DefaultMaxTokens, Timeout: DefaultTimeout}},
		{"clamp high", Settings{Temperature: 3, MaxTokens: 100000, Timeout: time.Second}, Settings{Temperature: 2, MaxTokens: 4096, Timeout: time.Second}},
		{"clamp low", Settings{Temperature: -1, MaxTokens: 3}, Settings{Temperature: 0, MaxTokens: 16, Timeout: DefaultTimeout}},
		{"in range", Settings{Temperature: 0.7, MaxTokens: 512}, Settings{Temperature: 0.7, MaxTokens: 512, Timeout: DefaultTimeout}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize(), tt.name)
	}
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(ProviderConfig{Type: ProviderGroq, GroqKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "Groq", p.GetProviderName())

	_, err = NewProvider(ProviderConfig{Type: ProviderOpenAI})
	assert.Error(t, err)

	_, err = NewProvider(ProviderConfig{Type: "cohere"})
	assert.Error(t, err)
}

func TestBuildSystemPrompt(t *testing.T) {
	t.Parallel()

	p := BuildSystemPrompt(Persona{BusinessName: "Loja Azul", Tone: "descontraído", Instructions: "Horário: 9h às 18h."})
	assert.Contains(t, p, "Loja Azul")
	assert.Contains(t, p, "descontraído")
	assert.Contains(t, p, "Horário: 9h às 18h.")
}
