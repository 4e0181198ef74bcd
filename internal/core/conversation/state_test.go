package conversation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func assigned(agent string) State {
	s := NewState(StatusAgentAssigned)
	s.AssignedAgentID = strPtr(agent)
	return s
}

func TestNewStateFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  Status
		enabled bool
		paused  bool
	}{
		{StatusWaiting, false, false},
		{StatusAIActive, true, false},
		{StatusResolved, false, false},
	}
	for _, tt := range tests {
		s := NewState(tt.status)
		assert.Equal(t, tt.enabled, s.AIEnabled, tt.status)
		assert.Equal(t, tt.paused, s.AIPaused, tt.status)
		assert.NoError(t, s.Valid())
	}
}

func TestTransitionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		from       State
		event      Event
		wantStatus Status
		wantEffect Effect
		wantErr    error
	}{
		{"customer message keeps ai_active", NewState(StatusAIActive), Event{Kind: EventCustomerMessage}, StatusAIActive, EffectNone, nil},
		{"customer message keeps waiting", NewState(StatusWaiting), Event{Kind: EventCustomerMessage}, StatusWaiting, EffectNone, nil},
		{"customer message keeps agent", assigned("a1"), Event{Kind: EventCustomerMessage}, StatusAgentAssigned, EffectNone, nil},
		{"customer message reopens resolved", NewState(StatusResolved), Event{Kind: EventCustomerMessage}, StatusAIActive, EffectReopened, nil},
		{"assume from ai_active", NewState(StatusAIActive), Event{Kind: EventAssumeChat, AgentID: "a1"}, StatusAgentAssigned, EffectNone, nil},
		{"assume from resolved", NewState(StatusResolved), Event{Kind: EventAssumeChat, AgentID: "a1"}, StatusAgentAssigned, EffectNone, nil},
		{"assume twice is noop", assigned("a1"), Event{Kind: EventAssumeChat, AgentID: "a1"}, StatusAgentAssigned, EffectNoop, nil},
		{"assume by other agent reassigns", assigned("a1"), Event{Kind: EventAssumeChat, AgentID: "a2"}, StatusAgentAssigned, EffectReassigned, nil},
		{"assume without agent", NewState(StatusAIActive), Event{Kind: EventAssumeChat}, StatusAIActive, EffectNone, ErrAgentRequired},
		{"return to ai from agent", assigned("a1"), Event{Kind: EventReturnToAI}, StatusAIActive, EffectNone, nil},
		{"return to ai from waiting", NewState(StatusWaiting), Event{Kind: EventReturnToAI}, StatusAIActive, EffectNone, nil},
		{"return to ai twice is noop", NewState(StatusAIActive), Event{Kind: EventReturnToAI}, StatusAIActive, EffectNoop, nil},
		{"return to ai from resolved rejected", NewState(StatusResolved), Event{Kind: EventReturnToAI}, StatusResolved, EffectNone, ErrIllegalTransition},
		{"resolve from agent", assigned("a1"), Event{Kind: EventMarkResolved, AgentID: "a1"}, StatusResolved, EffectNone, nil},
		{"resolve twice is noop", NewState(StatusResolved), Event{Kind: EventMarkResolved, AgentID: "a1"}, StatusResolved, EffectNoop, nil},
		{"resolve from ai rejected", NewState(StatusAIActive), Event{Kind: EventMarkResolved, AgentID: "a1"}, StatusAIActive, EffectNone, ErrIllegalTransition},
		{"unknown event rejected", NewState(StatusAIActive), Event{Kind: "bogus"}, StatusAIActive, EffectNone, ErrIllegalTransition},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, effect, err := Transition(tt.from, tt.event)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, tt.from, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantEffect, effect)
			assert.NoError(t, got.Valid())
		})
	}
}

func TestTransitionDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	from := assigned("a1")
	_, _, err := Transition(from, Event{Kind: EventReturnToAI})
	require.NoError(t, err)
	assert.Equal(t, StatusAgentAssigned, from.Status)
	require.NotNil(t, from.AssignedAgentID)
	assert.Equal(t, "a1", *from.AssignedAgentID)
}

func TestResolveRecordsResolver(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got, _, err := Transition(assigned("a1"), Event{Kind: EventMarkResolved, AgentID: "a9", At: at})
	require.NoError(t, err)
	require.NotNil(t, got.ResolvedAt)
	require.NotNil(t, got.ResolvedBy)
	assert.Equal(t, at, *got.ResolvedAt)
	assert.Equal(t, "a9", *got.ResolvedBy)
	assert.Nil(t, got.AssignedAgentID)

	reopened, effect, err := Transition(got, Event{Kind: EventCustomerMessage})
	require.NoError(t, err)
	assert.Equal(t, EffectReopened, effect)
	assert.Nil(t, reopened.ResolvedAt)
	assert.True(t, reopened.AIShouldReply())
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	s, err := ParseStatus("waiting")
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, s)

	_, err = ParseStatus("open")
	assert.Error(t, err)
}
