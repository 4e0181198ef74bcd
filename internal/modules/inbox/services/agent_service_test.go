package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/conversation"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentTransitions(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	h.accept(t, textEvent("m1", "oi"))

	c, err := h.agents.Assume(ctx, customer, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "agent_assigned", c.ConversationStatus)
	require.NotNil(t, c.AssignedAgentID)
	assert.Equal(t, "agent-1", *c.AssignedAgentID)
	version := c.Version

	// same agent again is a no-op
	c, err = h.agents.Assume(ctx, customer, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, version, c.Version)

	c, err = h.agents.Assume(ctx, customer, "agent-2")
	require.NoError(t, err)
	assert.Equal(t, "agent-2", *c.AssignedAgentID)

	c, err = h.agents.ReturnToAI(ctx, customer, "agent-2")
	require.NoError(t, err)
	assert.Equal(t, "ai_active", c.ConversationStatus)
	assert.Nil(t, c.AssignedAgentID)
	assert.NoError(t, c.State().Valid())

	_, err = h.agents.Resolve(ctx, customer, "agent-2")
	assert.ErrorIs(t, err, conversation.ErrIllegalTransition)

	_, err = h.agents.Assume(ctx, customer, "")
	assert.ErrorIs(t, err, conversation.ErrAgentRequired)

	_, err = h.agents.Assume(ctx, "unknown", "agent-1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	logs, err := h.audit.GetConversationHistory(ctx, customer, audit.ActionTransition)
	require.NoError(t, err)
	assert.Len(t, logs, 3, "no-op and rejected transitions are not audited")
}

func TestAgentReturnToAIFromResolvedRejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	h.accept(t, textEvent("m1", "oi"))

	_, err := h.agents.Assume(ctx, customer, "agent-1")
	require.NoError(t, err)
	_, err = h.agents.Resolve(ctx, customer, "agent-1")
	require.NoError(t, err)

	_, err = h.agents.ReturnToAI(ctx, customer, "agent-1")
	assert.ErrorIs(t, err, conversation.ErrIllegalTransition)

	c, err := h.agents.Resolve(ctx, customer, "agent-1")
	require.NoError(t, err, "resolving twice is a no-op")
	assert.Equal(t, "resolved", c.ConversationStatus)
}

func TestAgentSendMessage(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	h.accept(t, textEvent("m1", "oi"))

	m, err := h.agents.SendMessage(ctx, customer, "agent-1", "  Posso ajudar?  ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAgent, m.Role)
	assert.Equal(t, "Posso ajudar?", m.Content)
	assert.Equal(t, models.StatusSent, m.Status)

	assert.Len(t, h.sleeps.All(), 1, "agent sends are not delayed")

	conv, err := h.convs.Get(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, "Posso ajudar?", conv.LastMessage)

	_, err = h.agents.SendMessage(ctx, customer, "agent-1", " ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.agents.SendMessage(ctx, "unknown", "agent-1", "oi")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestAgentSendMessageGatewayFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	h.accept(t, textEvent("m1", "oi"))
	h.sender.err = errors.New("gateway down")

	_, err := h.agents.SendMessage(ctx, customer, "agent-1", "Olá")
	assert.ErrorIs(t, err, ErrDispatchFailed)

	history, err := h.agents.History(ctx, customer)
	require.NoError(t, err)
	assert.Len(t, history, 2, "failed sends are not stored")

	logs, err := h.audit.GetConversationHistory(ctx, customer, audit.ActionDispatchAttempt)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	var failed int
	for _, l := range logs {
		var meta map[string]any
		require.NoError(t, json.Unmarshal(l.Metadata, &meta))
		if meta["success"] == false {
			failed++
			assert.Equal(t, "gateway down", meta["error"])
			assert.Equal(t, "agent-1", l.Actor)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestAgentMarkReadAndDelete(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	h.accept(t, textEvent("m1", "oi"))
	h.accept(t, textEvent("m2", "tudo bem?"))

	c, err := h.agents.MarkRead(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, 0, c.UnreadCount)

	require.NoError(t, h.agents.DeleteMessage(ctx, customer, "m1", "agent-1"))
	assert.ErrorIs(t, h.agents.DeleteMessage(ctx, customer, "m1", "agent-1"), repositories.ErrNotFound)

	history, err := h.agents.History(ctx, customer)
	require.NoError(t, err)
	for _, m := range history {
		assert.NotEqual(t, "m1", m.ID)
	}

	_, err = h.agents.History(ctx, "unknown")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestAgentListConversations(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	h.accept(t, textEvent("m1", "oi"))

	all, err := h.agents.ListConversations(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := h.agents.ListConversations(ctx, "resolved", 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = h.agents.ListConversations(ctx, "archived", 10)
	assert.ErrorIs(t, err, ErrValidation)
}

// cancelAfterMutate cancels the request context once the update has been
// committed, like a client hanging up mid-request.
type cancelAfterMutate struct {
	repositories.ConversationRepo
	cancel context.CancelFunc
}

func (c cancelAfterMutate) Mutate(ctx context.Context, id string, fn func(*models.Conversation) error) (*models.Conversation, error) {
	conv, err := c.ConversationRepo.Mutate(ctx, id, fn)
	c.cancel()
	return conv, err
}

type cancelAfterDelete struct {
	repositories.MessageRepo
	cancel context.CancelFunc
}

func (c cancelAfterDelete) Delete(ctx context.Context, conversationID, id string) error {
	err := c.MessageRepo.Delete(ctx, conversationID, id)
	c.cancel()
	return err
}

func TestAgentAuditSurvivesCancelledRequest(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.accept(t, textEvent("m1", "oi"))

	ctx, cancel := context.WithCancel(context.Background())
	agents := NewAgentService(cancelAfterMutate{ConversationRepo: h.convs, cancel: cancel}, h.msgs, nil, h.audit)
	c, err := agents.Assume(ctx, customer, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, "agent_assigned", c.ConversationStatus)
	require.Error(t, ctx.Err())

	ctx, cancel = context.WithCancel(context.Background())
	agents = NewAgentService(h.convs, cancelAfterDelete{MessageRepo: h.msgs, cancel: cancel}, nil, h.audit)
	require.NoError(t, agents.DeleteMessage(ctx, customer, "m1", "agent-1"))
	require.Error(t, ctx.Err())

	bg := context.Background()
	transitions, err := h.audit.GetConversationHistory(bg, customer, audit.ActionTransition)
	require.NoError(t, err)
	assert.Len(t, transitions, 1)

	deletions, err := h.audit.GetConversationHistory(bg, customer, audit.ActionMessageDeleted)
	require.NoError(t, err)
	assert.Len(t, deletions, 1)
}
