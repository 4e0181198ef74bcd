package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/delay"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sender is satisfied by *whatsapp.Service.
type Sender interface {
	SendText(ctx context.Context, phone, text string) (whatsapp.SendResult, error)
}

// Auditor is satisfied by *audit.Service.
type Auditor interface {
	Record(ctx context.Context, entry *audit.AuditLog)
}

// Outbound is one message to deliver to a customer.
type Outbound struct {
	ConversationID string
	Phone          string
	Text           string
	Role           string // ai or agent
	Actor          string // agent id, empty for ai
}

// Dispatcher sends outbound messages through the gateway and records them.
// AI messages wait a humanized delay first; agent messages go out at once.
type Dispatcher struct {
	sender        Sender
	delay         *delay.Scheduler
	messages      repositories.MessageRepo
	conversations repositories.ConversationRepo
	audit         Auditor
	now           func() time.Time
}

func NewDispatcher(sender Sender, scheduler *delay.Scheduler, messages repositories.MessageRepo, conversations repositories.ConversationRepo, auditor Auditor) *Dispatcher {
	return &Dispatcher{
		sender:        sender,
		delay:         scheduler,
		messages:      messages,
		conversations: conversations,
		audit:         auditor,
		now:           time.Now,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, out Outbound) (*models.Message, error) {
	logger := log.With().Str("phone", out.Phone).Str("role", out.Role).Logger()

	var decision *delay.Decision
	if out.Role == models.RoleAI {
		dec := d.delay.Decide()
		decision = &dec
		logger.Debug().
			Float64("delay_seconds", dec.ChosenSeconds).
			Str("reason", string(dec.Reason)).
			Msg("humanized delay")
		if err := d.delay.Wait(ctx, dec); err != nil {
			return nil, fmt.Errorf("delay interrupted: %w", err)
		}
	}

	start := time.Now()
	res, sendErr := d.sender.SendText(ctx, out.Phone, out.Text)
	d.recordAttempt(ctx, out, res, sendErr, time.Since(start), decision)

	if sendErr != nil {
		logger.Error().Err(sendErr).Msg("dispatch failed")
		return nil, fmt.Errorf("%w: %w", ErrDispatchFailed, sendErr)
	}

	id := res.MessageID
	if id == "" {
		id = "out-" + uuid.NewString()
	}
	now := d.now().UTC()

	msg := &models.Message{
		ConversationID: out.ConversationID,
		ID:             id,
		Role:           out.Role,
		Content:        out.Text,
		Timestamp:      now,
		Status:         models.StatusSent,
	}
	if _, err := d.messages.InsertIfAbsent(ctx, msg); err != nil {
		// already delivered to the customer; keep going
		logger.Error().Err(err).Str("message_id", id).Msg("failed to store outbound message")
	}

	_, err := d.conversations.Mutate(ctx, out.ConversationID, func(c *models.Conversation) error {
		c.TouchLastMessage(out.Text, now)
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to bump last message")
	}

	logger.Info().Str("message_id", id).Msg("message dispatched")
	return msg, nil
}

func (d *Dispatcher) recordAttempt(ctx context.Context, out Outbound, res whatsapp.SendResult, err error, took time.Duration, decision *delay.Decision) {
	if d.audit == nil {
		return
	}

	meta := map[string]any{
		"success":     err == nil,
		"role":        out.Role,
		"duration_ms": took.Milliseconds(),
	}
	if err != nil {
		meta["error"] = err.Error()
	} else {
		meta["provider_message_id"] = res.MessageID
	}
	if decision != nil {
		meta["delay_seconds"] = decision.ChosenSeconds
		meta["delay_reason"] = string(decision.Reason)
	}

	actor := out.Actor
	if actor == "" {
		actor = out.Role
	}
	d.audit.Record(context.WithoutCancel(ctx), &audit.AuditLog{
		ConversationID: out.ConversationID,
		Actor:          actor,
		Action:         audit.ActionDispatchAttempt,
		Entity:         "message",
		EntityID:       res.MessageID,
		Metadata:       audit.Metadata(meta),
	})
}
