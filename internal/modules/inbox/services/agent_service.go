package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/conversation"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/repositories"
	"github.com/rs/zerolog/log"
)

const (
	DefaultListLimit = 50
	maxListLimit     = 200
)

// AgentService holds the actions a human agent takes on a conversation.
type AgentService struct {
	conversations repositories.ConversationRepo
	messages      repositories.MessageRepo
	dispatcher    *Dispatcher
	audit         Auditor
}

func NewAgentService(conversations repositories.ConversationRepo, messages repositories.MessageRepo, dispatcher *Dispatcher, auditor Auditor) *AgentService {
	return &AgentService{
		conversations: conversations,
		messages:      messages,
		dispatcher:    dispatcher,
		audit:         auditor,
	}
}

func (s *AgentService) ListConversations(ctx context.Context, status string, limit int) ([]models.Conversation, error) {
	if status != "" {
		if _, err := conversation.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.conversations.List(ctx, status, min(limit, maxListLimit))
}

func (s *AgentService) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	return s.conversations.Get(ctx, id)
}

// History returns every message of the conversation, oldest first.
func (s *AgentService) History(ctx context.Context, id string) ([]models.Message, error) {
	if _, err := s.conversations.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.messages.ListByConversation(ctx, id)
}

func (s *AgentService) Assume(ctx context.Context, id, agentID string) (*models.Conversation, error) {
	return s.transition(ctx, id, conversation.Event{Kind: conversation.EventAssumeChat, AgentID: agentID})
}

func (s *AgentService) ReturnToAI(ctx context.Context, id, agentID string) (*models.Conversation, error) {
	return s.transition(ctx, id, conversation.Event{Kind: conversation.EventReturnToAI, AgentID: agentID})
}

func (s *AgentService) Resolve(ctx context.Context, id, agentID string) (*models.Conversation, error) {
	return s.transition(ctx, id, conversation.Event{Kind: conversation.EventMarkResolved, AgentID: agentID})
}

// MarkRead resets the unread counter.
func (s *AgentService) MarkRead(ctx context.Context, id string) (*models.Conversation, error) {
	return s.conversations.Mutate(ctx, id, func(c *models.Conversation) error {
		if c.UnreadCount == 0 {
			return repositories.ErrSkipUpdate
		}
		c.UnreadCount = 0
		return nil
	})
}

// SendMessage dispatches an agent reply immediately, without delay.
func (s *AgentService) SendMessage(ctx context.Context, id, agentID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}

	conv, err := s.conversations.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.dispatcher.Dispatch(ctx, Outbound{
		ConversationID: conv.ID,
		Phone:          conv.ID,
		Text:           text,
		Role:           models.RoleAgent,
		Actor:          agentID,
	})
}

func (s *AgentService) DeleteMessage(ctx context.Context, id, messageID, agentID string) error {
	if err := s.messages.Delete(ctx, id, messageID); err != nil {
		return err
	}

	s.audit.Record(context.WithoutCancel(ctx), &audit.AuditLog{
		ConversationID: id,
		Actor:          actorOrSystem(agentID),
		Action:         audit.ActionMessageDeleted,
		Entity:         "message",
		EntityID:       messageID,
	})
	log.Info().Str("phone", id).Str("message_id", messageID).Str("agent_id", agentID).Msg("message deleted")
	return nil
}

// transition applies ev with a versioned update. Re-applied events are
// no-ops and write nothing.
func (s *AgentService) transition(ctx context.Context, id string, ev conversation.Event) (*models.Conversation, error) {
	ev.At = time.Now().UTC()

	var before, after conversation.State
	var effect conversation.Effect
	conv, err := s.conversations.Mutate(ctx, id, func(c *models.Conversation) error {
		before = c.State()
		next, eff, err := conversation.Transition(before, ev)
		if err != nil {
			return err
		}
		effect = eff
		if eff == conversation.EffectNoop {
			return repositories.ErrSkipUpdate
		}
		after = next
		c.ApplyState(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if effect == conversation.EffectNoop {
		return conv, nil
	}

	s.audit.Record(context.WithoutCancel(ctx), &audit.AuditLog{
		ConversationID: id,
		Actor:          actorOrSystem(ev.AgentID),
		Action:         audit.ActionTransition,
		Entity:         "conversation",
		EntityID:       id,
		OldValue:       stateJSON(before),
		NewValue:       stateJSON(after),
		Description:    fmt.Sprintf("%s: %s -> %s", ev.Kind, before.Status, after.Status),
		Metadata:       audit.Metadata(map[string]any{"event": string(ev.Kind), "effect": string(effect)}),
	})
	log.Info().
		Str("phone", id).
		Str("event", string(ev.Kind)).
		Str("from", string(before.Status)).
		Str("status", string(after.Status)).
		Msg("conversation transition")

	return conv, nil
}

func stateJSON(s conversation.State) []byte {
	v := map[string]any{"status": s.Status}
	if s.AssignedAgentID != nil {
		v["assignedAgentId"] = *s.AssignedAgentID
	}
	return toJSON(v)
}

func actorOrSystem(id string) string {
	if id == "" {
		return "system"
	}
	return id
}
