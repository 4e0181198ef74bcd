// Package conversation holds the routing state machine for a customer conversation.
package conversation

import (
	"errors"
	"fmt"
	"time"
)

// Status is the single source of truth for who answers a conversation.
type Status string

const (
	StatusWaiting       Status = "waiting"
	StatusAIActive      Status = "ai_active"
	StatusAgentAssigned Status = "agent_assigned"
	StatusResolved      Status = "resolved"
)

// ParseStatus converts free text into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusWaiting, StatusAIActive, StatusAgentAssigned, StatusResolved:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown conversation status %q", s)
}

// EventKind enumerates everything that can move a conversation.
type EventKind string

const (
	EventCustomerMessage EventKind = "customer_message"
	EventAssumeChat      EventKind = "assume_chat"
	EventReturnToAI      EventKind = "return_to_ai"
	EventMarkResolved    EventKind = "mark_resolved"
)

// Event is the input of Transition. AgentID is required for assume_chat and
// mark_resolved.
type Event struct {
	Kind    EventKind
	AgentID string
	At      time.Time
}

// Effect reports what Transition did besides the status change.
type Effect string

const (
	EffectNone       Effect = ""
	EffectNoop       Effect = "noop"
	EffectReopened   Effect = "reopened"
	EffectReassigned Effect = "reassigned"
)

var (
	ErrIllegalTransition = errors.New("illegal conversation transition")
	ErrAgentRequired     = errors.New("agent id is required")
)

// State is the routing part of a conversation record.
type State struct {
	Status          Status
	AIEnabled       bool
	AIPaused        bool
	AssignedAgentID *string
	ResolvedAt      *time.Time
	ResolvedBy      *string
}

// NewState returns the state a brand-new conversation starts in.
func NewState(initial Status) State {
	s := State{Status: initial}
	s.syncFlags()
	return s
}

// AIShouldReply tells the pipeline whether the AI owns the next reply.
func (s State) AIShouldReply() bool {
	return s.Status == StatusAIActive && s.AIEnabled && !s.AIPaused
}

// Valid checks the invariants every stored conversation must satisfy.
func (s State) Valid() error {
	if (s.Status == StatusAIActive) != (s.AIEnabled && !s.AIPaused) {
		return fmt.Errorf("status %s inconsistent with ai flags (enabled=%v paused=%v)", s.Status, s.AIEnabled, s.AIPaused)
	}
	if s.Status == StatusAgentAssigned && (s.AssignedAgentID == nil || *s.AssignedAgentID == "") {
		return fmt.Errorf("agent_assigned without assigned agent")
	}
	return nil
}

func (s *State) syncFlags() {
	s.AIEnabled = s.Status == StatusAIActive || s.Status == StatusAgentAssigned
	s.AIPaused = s.Status == StatusAgentAssigned
}

// Transition applies ev to s and returns the new state. The input is never
// modified. Re-applying an event that already holds returns EffectNoop so
// redelivered agent actions stay harmless.
func Transition(s State, ev Event) (State, Effect, error) {
	next := s
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	switch ev.Kind {
	case EventCustomerMessage:
		if s.Status != StatusResolved {
			return next, EffectNone, nil
		}
		next.Status = StatusAIActive
		next.AssignedAgentID = nil
		next.ResolvedAt = nil
		next.ResolvedBy = nil
		next.syncFlags()
		return next, EffectReopened, nil

	case EventAssumeChat:
		if ev.AgentID == "" {
			return s, EffectNone, ErrAgentRequired
		}
		if s.Status == StatusAgentAssigned && s.AssignedAgentID != nil && *s.AssignedAgentID == ev.AgentID {
			return s, EffectNoop, nil
		}
		effect := EffectNone
		if s.Status == StatusAgentAssigned {
			effect = EffectReassigned
		}
		agent := ev.AgentID
		next.Status = StatusAgentAssigned
		next.AssignedAgentID = &agent
		next.ResolvedAt = nil
		next.ResolvedBy = nil
		next.syncFlags()
		return next, effect, nil

	case EventReturnToAI:
		switch s.Status {
		case StatusAIActive:
			return s, EffectNoop, nil
		case StatusAgentAssigned, StatusWaiting:
			next.Status = StatusAIActive
			next.AssignedAgentID = nil
			next.syncFlags()
			return next, EffectNone, nil
		}
		return s, EffectNone, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.Status, StatusAIActive)

	case EventMarkResolved:
		switch s.Status {
		case StatusResolved:
			return s, EffectNoop, nil
		case StatusAgentAssigned:
			if ev.AgentID == "" {
				return s, EffectNone, ErrAgentRequired
			}
			by := ev.AgentID
			next.Status = StatusResolved
			next.AssignedAgentID = nil
			next.ResolvedAt = &at
			next.ResolvedBy = &by
			next.syncFlags()
			return next, EffectNone, nil
		}
		return s, EffectNone, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.Status, StatusResolved)
	}

	return s, EffectNone, fmt.Errorf("%w: unknown event %q", ErrIllegalTransition, ev.Kind)
}
