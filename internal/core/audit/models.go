package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actions recorded by the inbox.
const (
	ActionDispatchAttempt = "dispatch_attempt"
	ActionTransition      = "conversation_transition"
	ActionMessageDeleted  = "message_deleted"
)

// AuditLog represents a system audit log entry
type AuditLog struct {
	ID string `json:"id" gorm:"type:varchar(36);primaryKey"`

	// Context
	ConversationID string `json:"conversation_id" gorm:"type:varchar(64);index"`
	Actor          string `json:"actor" gorm:"type:varchar(128)"` // ai, agent id, system

	// Action details
	Action   string `json:"action" gorm:"type:varchar(64);not null;index"`
	Entity   string `json:"entity" gorm:"type:varchar(64);not null"`
	EntityID string `json:"entity_id" gorm:"type:varchar(128);index"`

	// Change tracking
	OldValue datatypes.JSON `json:"old_value,omitempty"`
	NewValue datatypes.JSON `json:"new_value,omitempty"`

	// Additional metadata
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
