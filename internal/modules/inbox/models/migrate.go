package models

import (
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/audit"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every inbox table. Production databases use
// the SQL migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Conversation{},
		&Message{},
		&ProcessedEvent{},
		&audit.AuditLog{},
	)
}
