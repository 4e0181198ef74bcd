package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProcessedEventRepo interface {
	// Claim records the event and reports true only for the first caller.
	Claim(ctx context.Context, conversationID, messageID string) (bool, error)
	// Release forgets a claim so a redelivery of the event is processed.
	Release(ctx context.Context, conversationID, messageID string) error
}

type processedEventRepo struct {
	db *gorm.DB
}

func NewProcessedEventRepo(db *gorm.DB) ProcessedEventRepo {
	return &processedEventRepo{db: db}
}

func (r *processedEventRepo) Claim(ctx context.Context, conversationID, messageID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessedEvent{
			ConversationID: conversationID,
			MessageID:      messageID,
			ProcessedAt:    time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim event %s/%s: %w", conversationID, messageID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *processedEventRepo) Release(ctx context.Context, conversationID, messageID string) error {
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND message_id = ?", conversationID, messageID).
		Delete(&models.ProcessedEvent{}).Error
	if err != nil {
		return fmt.Errorf("failed to release event %s/%s: %w", conversationID, messageID, err)
	}
	return nil
}
