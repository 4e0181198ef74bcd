package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/conversation"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/intent"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/media"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/repositories"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const DefaultPipelineTimeout = 120 * time.Second

// Accept outcomes
const (
	ResultReceived = "received"
	ResultIgnored  = "ignored"
	ResultUpdated  = "updated"

	ReasonDuplicate     = "duplicate"
	ReasonFromMe        = "from_me"
	ReasonGroup         = "group"
	ReasonUnsupported   = "unsupported_event"
	ReasonUnknownStatus = "unknown_status"
	ReasonUnknownTarget = "unknown_target"
)

// AcceptResult is echoed back to the gateway.
type AcceptResult struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func received() AcceptResult             { return AcceptResult{Status: ResultReceived} }
func ignored(reason string) AcceptResult { return AcceptResult{Status: ResultIgnored, Reason: reason} }

// MediaExternalizer is satisfied by *media.Externalizer.
type MediaExternalizer interface {
	Externalize(ctx context.Context, sourceURL string, kind media.Kind) media.Attachment
}

// IntentNotifier is satisfied by *intent.FanOut.
type IntentNotifier interface {
	Notify(evt intent.Event) []intent.Trigger
}

type PipelineConfig struct {
	InitialStatus  conversation.Status
	Timeout        time.Duration
	ReopenGreeting string
}

type PipelineDeps struct {
	Conversations repositories.ConversationRepo
	Messages      repositories.MessageRepo
	Guard         *IdempotencyGuard
	Media         MediaExternalizer
	Responder     *AIResponder
	Dispatcher    *Dispatcher
	Intents       IntentNotifier
}

// PipelineService runs inbound gateway events through dedupe, state,
// AI reply, dispatch and intent fan-out.
type PipelineService struct {
	PipelineDeps
	cfg PipelineConfig

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewPipelineService(deps PipelineDeps, cfg PipelineConfig) *PipelineService {
	if _, err := conversation.ParseStatus(string(cfg.InitialStatus)); err != nil {
		cfg.InitialStatus = conversation.StatusAIActive
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPipelineTimeout
	}
	if cfg.ReopenGreeting == "" {
		cfg.ReopenGreeting = DefaultReopenGreeting
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &PipelineService{
		PipelineDeps: deps,
		cfg:          cfg,
		baseCtx:      ctx,
		cancel:       cancel,
	}
}

// Accept validates, claims and stores the event synchronously, then runs the
// reply steps in the background. When storing fails the claim is released
// and the error returned, so the gateway's redelivery is processed again.
func (s *PipelineService) Accept(ctx context.Context, evt *InboundEvent) (AcceptResult, error) {
	if err := evt.Validate(); err != nil {
		return AcceptResult{}, err
	}

	if evt.Kind == EventStatus {
		return s.applyStatus(ctx, evt)
	}

	switch {
	case evt.FromMe:
		return ignored(ReasonFromMe), nil
	case evt.IsGroup:
		return ignored(ReasonGroup), nil
	case evt.Kind == EventUnsupported:
		return ignored(ReasonUnsupported), nil
	}

	claim, err := s.Guard.Claim(ctx, evt.Phone, evt.MessageID)
	if err != nil {
		return AcceptResult{}, fmt.Errorf("failed to claim event: %w", err)
	}
	if claim == AlreadyProcessed {
		log.Info().Str("phone", evt.Phone).Str("message_id", evt.MessageID).Msg("duplicate event ignored")
		return ignored(ReasonDuplicate), nil
	}

	if evt.Kind == EventReaction {
		res, err := s.applyReaction(ctx, evt)
		if err != nil {
			s.release(ctx, evt)
		}
		return res, err
	}

	in, err := s.Store(ctx, evt)
	if err != nil {
		s.release(ctx, evt)
		return AcceptResult{}, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pctx, cancel := context.WithTimeout(s.baseCtx, s.cfg.Timeout)
		defer cancel()

		s.Process(pctx, evt, in)
	}()

	return received(), nil
}

// Inbound is a customer message that has been stored along with the
// conversation state it produced.
type Inbound struct {
	Message      *models.Message
	Conversation *models.Conversation
	Effect       conversation.Effect
}

// Store persists the conversation and the inbound message. The message is
// inserted before the conversation counters move, so a retry after a failure
// never counts a message that is not stored.
func (s *PipelineService) Store(ctx context.Context, evt *InboundEvent) (*Inbound, error) {
	msg := &models.Message{
		ConversationID: evt.Phone,
		ID:             evt.MessageID,
		Role:           models.RoleUser,
		Content:        evt.Content(),
		Timestamp:      evt.Timestamp.UTC(),
		Status:         models.StatusDelivered,
	}
	attachMedia(evt, msg)
	s.attachReply(ctx, evt, msg)

	seed := models.NewConversation(evt.Phone, evt.SenderName, evt.SenderPhoto, s.cfg.InitialStatus)
	if _, created, err := s.Conversations.GetOrCreate(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	} else if created {
		log.Info().Str("phone", evt.Phone).Str("status", string(s.cfg.InitialStatus)).Msg("conversation created")
	}

	if _, err := s.Messages.InsertIfAbsent(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store inbound message: %w", err)
	}

	var effect conversation.Effect
	conv, err := s.Conversations.Mutate(ctx, evt.Phone, func(c *models.Conversation) error {
		next, eff, err := conversation.Transition(c.State(), conversation.Event{
			Kind: conversation.EventCustomerMessage,
			At:   msg.Timestamp,
		})
		if err != nil {
			return err
		}
		effect = eff
		c.ApplyState(next)
		c.UnreadCount++
		c.TouchLastMessage(msg.Content, msg.Timestamp)
		if evt.SenderName != "" {
			c.CustomerName = evt.SenderName
		}
		if evt.SenderPhoto != "" {
			c.CustomerAvatarURL = evt.SenderPhoto
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply customer message: %w", err)
	}

	return &Inbound{Message: msg, Conversation: conv, Effect: effect}, nil
}

// Process runs the steps that follow a stored message: media copy, reopen
// greeting, AI reply and intent fan-out. Failures are logged, the message
// itself is already safe.
func (s *PipelineService) Process(ctx context.Context, evt *InboundEvent, in *Inbound) {
	logger := log.With().Str("phone", evt.Phone).Str("message_id", evt.MessageID).Logger()
	conv := in.Conversation

	if err := s.externalizeMedia(ctx, evt, in.Message); err != nil {
		logger.Error().Err(err).Msg("failed to store durable media url")
	}

	if in.Effect == conversation.EffectReopened {
		logger.Info().Msg("resolved conversation reopened")
		if _, err := s.Dispatcher.Dispatch(ctx, Outbound{
			ConversationID: conv.ID,
			Phone:          conv.ID,
			Text:           s.cfg.ReopenGreeting,
			Role:           models.RoleAI,
		}); err != nil {
			logger.Error().Err(err).Msg("failed to send reopen greeting")
		}
	}

	if conv.State().AIShouldReply() && s.Responder != nil {
		reply, fallback := s.Responder.Respond(ctx, in.Message)
		if fallback {
			logger.Warn().Msg("replying with fallback message")
		}
		if _, err := s.Dispatcher.Dispatch(ctx, Outbound{
			ConversationID: conv.ID,
			Phone:          conv.ID,
			Text:           reply,
			Role:           models.RoleAI,
		}); err != nil {
			logger.Error().Err(err).Msg("failed to dispatch ai reply")
		}
	} else {
		logger.Debug().Str("status", conv.ConversationStatus).Msg("ai not active, message stored only")
	}

	if evt.Text != "" && s.Intents != nil {
		s.Intents.Notify(intent.Event{
			Phone:              conv.ID,
			CustomerName:       conv.CustomerName,
			MessageID:          evt.MessageID,
			Text:               evt.Text,
			ConversationStatus: conv.ConversationStatus,
		})
	}
}

// Drain waits for in-flight events. When ctx ends first the remaining
// events are cancelled.
func (s *PipelineService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}

func (s *PipelineService) applyStatus(ctx context.Context, evt *InboundEvent) (AcceptResult, error) {
	if evt.Status == "" {
		return ignored(ReasonUnknownStatus), nil
	}

	for _, id := range evt.MessageIDs {
		changed, err := s.Messages.UpdateStatus(ctx, evt.Phone, id, evt.Status)
		if err != nil {
			return AcceptResult{}, fmt.Errorf("failed to update message status: %w", err)
		}
		log.Debug().
			Str("phone", evt.Phone).
			Str("message_id", id).
			Str("status", evt.Status).
			Bool("changed", changed).
			Msg("status callback")
	}
	return AcceptResult{Status: ResultUpdated}, nil
}

func (s *PipelineService) applyReaction(ctx context.Context, evt *InboundEvent) (AcceptResult, error) {
	err := s.Messages.AppendReaction(ctx, evt.Phone, evt.TargetMessageID, models.Reaction{
		Emoji:     evt.Emoji,
		By:        evt.Phone,
		Timestamp: evt.Timestamp,
	})
	if errors.Is(err, repositories.ErrNotFound) {
		log.Warn().Str("phone", evt.Phone).Str("target", evt.TargetMessageID).Msg("reaction to unknown message")
		return ignored(ReasonUnknownTarget), nil
	}
	if err != nil {
		return AcceptResult{}, fmt.Errorf("failed to store reaction: %w", err)
	}
	return received(), nil
}

func (s *PipelineService) release(ctx context.Context, evt *InboundEvent) {
	if err := s.Guard.Release(context.WithoutCancel(ctx), evt.Phone, evt.MessageID); err != nil {
		log.Error().Err(err).Str("phone", evt.Phone).Str("message_id", evt.MessageID).Msg("failed to release claim")
	}
}

// attachMedia records the gateway's media url as received.
func attachMedia(evt *InboundEvent, m *models.Message) {
	switch {
	case evt.Media != nil:
		kind, url := evt.Media.Kind, evt.Media.URL
		m.MediaType = &kind
		m.MediaURL = &url
		m.MediaInfo = toJSON(sourceMediaInfo(evt.Media))

	case evt.Attachment != nil:
		kind, _ := evt.Attachment["type"].(string)
		m.MediaType = &kind
		m.MediaInfo = toJSON(evt.Attachment)
	}
}

func sourceMediaInfo(md *InboundMedia) map[string]any {
	info := map[string]any{
		"sourceUrl": md.URL,
		"mimeType":  md.MimeType,
	}
	if md.FileName != "" {
		info["fileName"] = md.FileName
	}
	return info
}

// externalizeMedia copies the attachment to durable storage and points the
// stored message at the copy.
func (s *PipelineService) externalizeMedia(ctx context.Context, evt *InboundEvent, m *models.Message) error {
	if evt.Media == nil || s.Media == nil {
		return nil
	}

	att := s.Media.Externalize(ctx, evt.Media.URL, mediaKind(evt.Media.Kind))
	info := sourceMediaInfo(evt.Media)
	info["sizeBytes"] = att.SizeBytes
	info["externalized"] = att.Externalized()
	if att.ContentType != "" {
		info["mimeType"] = att.ContentType
	}
	if att.Err != nil {
		info["error"] = att.Err.Error()
	}

	durable := att.DurableURL
	m.MediaURL = &durable
	m.MediaInfo = toJSON(info)
	return s.Messages.UpdateMedia(ctx, m.ConversationID, m.ID, durable, m.MediaInfo)
}

func (s *PipelineService) attachReply(ctx context.Context, evt *InboundEvent, m *models.Message) {
	if evt.ReplyToID == "" {
		return
	}
	id := evt.ReplyToID
	m.ReplyToID = &id

	quoted, err := s.Messages.Get(ctx, evt.Phone, id)
	if err != nil {
		return
	}
	text, author := quoted.Content, quoted.Role
	m.ReplyToText = &text
	m.ReplyToAuthor = &author
}

func toJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
