package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIResponderBuildsHistory(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := []struct {
		id, role, content string
	}{
		{"h1", models.RoleUser, "oi"},
		{"h2", models.RoleAI, "Olá! Em que posso ajudar?"},
		{"h3", models.RoleSystem, "conversation assigned"},
		{"h4", models.RoleAgent, "Aqui é a Carla."},
		{"new", models.RoleUser, "qual o horário?"},
	}
	for i, r := range rows {
		_, err := h.msgs.InsertIfAbsent(ctx, &models.Message{
			ConversationID: customer,
			ID:             r.id,
			Role:           r.role,
			Content:        r.content,
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
			Status:         models.StatusDelivered,
		})
		require.NoError(t, err)
	}

	chat := &fakeChatter{reply: "  Das 9h às 18h.  "}
	r := NewAIResponder(chat, h.msgs, AIResponderConfig{SystemPrompt: "sys"})

	inbound, err := h.msgs.Get(ctx, customer, "new")
	require.NoError(t, err)
	reply, fallback := r.Respond(ctx, inbound)
	assert.False(t, fallback)
	assert.Equal(t, "Das 9h às 18h.", reply)

	calls := chat.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: "sys"},
		{Role: llm.RoleUser, Content: "oi"},
		{Role: llm.RoleAssistant, Content: "Olá! Em que posso ajudar?"},
		{Role: llm.RoleAssistant, Content: "Aqui é a Carla."},
		{Role: llm.RoleUser, Content: "qual o horário?"},
	}, calls[0])
}

func TestAIResponderHistoryLimit(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		_, err := h.msgs.InsertIfAbsent(ctx, &models.Message{
			ConversationID: customer,
			ID:             fmt.Sprintf("h%d", i),
			Role:           models.RoleUser,
			Content:        fmt.Sprintf("msg %d", i),
			Timestamp:      base.Add(time.Duration(i) * time.Second),
			Status:         models.StatusDelivered,
		})
		require.NoError(t, err)
	}

	chat := &fakeChatter{reply: "ok"}
	r := NewAIResponder(chat, h.msgs, AIResponderConfig{HistoryLimit: 2})
	r.Respond(ctx, &models.Message{ConversationID: customer, ID: "h5", Content: "msg 5"})

	calls := chat.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []llm.ChatMessage{
		{Role: llm.RoleUser, Content: "msg 3"},
		{Role: llm.RoleUser, Content: "msg 4"},
		{Role: llm.RoleUser, Content: "msg 5"},
	}, calls[0])
}

func TestAIResponderFallback(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	inbound := &models.Message{ConversationID: customer, ID: "m1", Content: "oi"}

	for _, chat := range []*fakeChatter{
		{err: errors.New("boom")},
		{err: context.DeadlineExceeded},
		{reply: "   "},
	} {
		r := NewAIResponder(chat, h.msgs, AIResponderConfig{})
		reply, fallback := r.Respond(context.Background(), inbound)
		assert.True(t, fallback)
		assert.Equal(t, DefaultFallbackReply, reply)
	}
}

func TestAIResponderClampsHistoryLimit(t *testing.T) {
	t.Parallel()

	tests := map[int]int{0: DefaultHistoryLimit, -3: 1, 7: 7, 500: 50}
	for in, want := range tests {
		r := NewAIResponder(&fakeChatter{}, nil, AIResponderConfig{HistoryLimit: in})
		assert.Equal(t, want, r.cfg.HistoryLimit, in)
	}
}
