package services

import (
	"context"
	"strings"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/repositories"
	"github.com/rs/zerolog/log"
)

const (
	DefaultHistoryLimit   = 10
	maxHistoryLimit       = 50
	DefaultFallbackReply  = "Desculpe, não consegui processar sua mensagem agora. Um atendente vai te responder em breve."
	DefaultReopenGreeting = "Olá de novo! Como posso ajudar?"
)

// Chatter is satisfied by *llm.Service.
type Chatter interface {
	Chat(ctx context.Context, messages []llm.ChatMessage) (string, error)
}

type AIResponderConfig struct {
	HistoryLimit    int
	SystemPrompt    string
	FallbackMessage string
}

// AIResponder turns the stored history plus a new customer message into a
// reply. It never fails: any LLM problem yields the fallback text.
type AIResponder struct {
	llm      Chatter
	messages repositories.MessageRepo
	cfg      AIResponderConfig
}

func NewAIResponder(chatter Chatter, messages repositories.MessageRepo, cfg AIResponderConfig) *AIResponder {
	switch {
	case cfg.HistoryLimit == 0:
		cfg.HistoryLimit = DefaultHistoryLimit
	case cfg.HistoryLimit < 1 || cfg.HistoryLimit > maxHistoryLimit:
		clamped := min(max(cfg.HistoryLimit, 1), maxHistoryLimit)
		log.Warn().Int("history_limit", cfg.HistoryLimit).Int("clamped", clamped).Msg("ai history limit out of range")
		cfg.HistoryLimit = clamped
	}
	if strings.TrimSpace(cfg.FallbackMessage) == "" {
		cfg.FallbackMessage = DefaultFallbackReply
	}
	return &AIResponder{llm: chatter, messages: messages, cfg: cfg}
}

// Respond returns the reply text and whether it is the fallback.
func (r *AIResponder) Respond(ctx context.Context, inbound *models.Message) (string, bool) {
	logger := log.With().Str("phone", inbound.ConversationID).Str("message_id", inbound.ID).Logger()

	history, err := r.messages.Recent(ctx, inbound.ConversationID, r.cfg.HistoryLimit, inbound.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load history, replying without it")
		history = nil
	}

	reply, err := r.llm.Chat(ctx, r.buildPrompt(history, inbound.Content))
	if err != nil {
		logger.Warn().Err(err).Msg("ai completion failed, using fallback")
		return r.cfg.FallbackMessage, true
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		logger.Warn().Msg("ai completion blank, using fallback")
		return r.cfg.FallbackMessage, true
	}
	return reply, false
}

func (r *AIResponder) buildPrompt(history []models.Message, text string) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(history)+2)
	if r.cfg.SystemPrompt != "" {
		out = append(out, llm.ChatMessage{Role: llm.RoleSystem, Content: r.cfg.SystemPrompt})
	}

	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		switch m.Role {
		case models.RoleUser:
			out = append(out, llm.ChatMessage{Role: llm.RoleUser, Content: m.Content})
		case models.RoleAI, models.RoleAgent:
			out = append(out, llm.ChatMessage{Role: llm.RoleAssistant, Content: m.Content})
		}
	}

	return append(out, llm.ChatMessage{Role: llm.RoleUser, Content: text})
}
