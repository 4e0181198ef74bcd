package models

import "time"

// ProcessedEvent is the idempotency ledger for inbound gateway events.
type ProcessedEvent struct {
	ConversationID string    `gorm:"type:varchar(64);primaryKey"`
	MessageID      string    `gorm:"type:varchar(128);primaryKey"`
	ProcessedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (ProcessedEvent) TableName() string {
	return "processed_events"
}
