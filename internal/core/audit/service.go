package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service provides audit logging functionality
type Service struct {
	db *gorm.DB
}

// NewService creates a new audit service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Log creates a new audit log entry
func (s *Service) Log(ctx context.Context, entry *AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// Record is Log for best-effort callers: failures are logged, not returned.
func (s *Service) Record(ctx context.Context, entry *AuditLog) {
	if err := s.Log(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", entry.Action).Str("conversation_id", entry.ConversationID).Msg("audit write failed")
	}
}

// LogChange creates an audit log tracking a state change
func (s *Service) LogChange(ctx context.Context, conversationID, actor, action, entity, entityID string, oldValue, newValue any) error {
	oldJSON, err := toJSON(oldValue)
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize old value")
	}

	newJSON, err := toJSON(newValue)
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize new value")
	}

	return s.Log(ctx, &AuditLog{
		ConversationID: conversationID,
		Actor:          actor,
		Action:         action,
		Entity:         entity,
		EntityID:       entityID,
		OldValue:       oldJSON,
		NewValue:       newJSON,
	})
}

// GetConversationHistory retrieves all entries for a conversation, newest first
func (s *Service) GetConversationHistory(ctx context.Context, conversationID string, action string) ([]AuditLog, error) {
	query := s.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var logs []AuditLog
	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get conversation history: %w", err)
	}
	return logs, nil
}

// DeleteOlderThan prunes entries created before cutoff
func (s *Service) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old audit logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// toJSON converts a value to JSON
func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// Metadata marshals a map for the Metadata column, ignoring errors.
func Metadata(m map[string]any) datatypes.JSON {
	b, _ := toJSON(m)
	return b
}
