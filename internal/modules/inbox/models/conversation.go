package models

import (
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/conversation"
)

// Conversation is one customer thread, keyed by the customer's phone number.
type Conversation struct {
	ID                 string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	CustomerName       string     `gorm:"type:text" json:"customer_name"`
	CustomerAvatarURL  string     `gorm:"type:text" json:"customer_avatar_url,omitempty"`
	ConversationStatus string     `gorm:"type:varchar(20);not null;index" json:"conversation_status"`
	AIEnabled          bool       `gorm:"column:ai_enabled;not null" json:"ai_enabled"`
	AIPaused           bool       `gorm:"column:ai_paused;not null" json:"ai_paused"`
	AssignedAgentID    *string    `gorm:"type:varchar(128)" json:"assigned_agent_id,omitempty"`
	LastMessage        string     `gorm:"type:text" json:"last_message"`
	LastMessageAt      *time.Time `gorm:"index" json:"last_message_at,omitempty"`
	UnreadCount        int        `gorm:"not null;default:0" json:"unread_count"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy         *string    `gorm:"type:varchar(128)" json:"resolved_by,omitempty"`
	Version            int64      `gorm:"not null;default:0" json:"version"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (Conversation) TableName() string {
	return "conversations"
}

// NewConversation builds an unsaved conversation in the given initial status.
func NewConversation(phone, name, avatar string, initial conversation.Status) *Conversation {
	c := &Conversation{
		ID:                phone,
		CustomerName:      name,
		CustomerAvatarURL: avatar,
	}
	c.ApplyState(conversation.NewState(initial))
	return c
}

// State extracts the routing state.
func (c *Conversation) State() conversation.State {
	return conversation.State{
		Status:          conversation.Status(c.ConversationStatus),
		AIEnabled:       c.AIEnabled,
		AIPaused:        c.AIPaused,
		AssignedAgentID: c.AssignedAgentID,
		ResolvedAt:      c.ResolvedAt,
		ResolvedBy:      c.ResolvedBy,
	}
}

// ApplyState copies a state produced by conversation.Transition.
func (c *Conversation) ApplyState(s conversation.State) {
	c.ConversationStatus = string(s.Status)
	c.AIEnabled = s.AIEnabled
	c.AIPaused = s.AIPaused
	c.AssignedAgentID = s.AssignedAgentID
	c.ResolvedAt = s.ResolvedAt
	c.ResolvedBy = s.ResolvedBy
}

// TouchLastMessage moves the last-message fields forward, never backwards.
func (c *Conversation) TouchLastMessage(text string, at time.Time) {
	if c.LastMessageAt != nil && at.Before(*c.LastMessageAt) {
		return
	}
	at = at.UTC()
	c.LastMessage = text
	c.LastMessageAt = &at
}
