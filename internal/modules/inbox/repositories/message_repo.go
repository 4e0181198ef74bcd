package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepo interface {
	InsertIfAbsent(ctx context.Context, m *models.Message) (bool, error)
	Get(ctx context.Context, conversationID, id string) (*models.Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
	Recent(ctx context.Context, conversationID string, limit int, excludeID string) ([]models.Message, error)
	UpdateStatus(ctx context.Context, conversationID, id, status string) (bool, error)
	AppendReaction(ctx context.Context, conversationID, id string, reaction models.Reaction) error
	UpdateMedia(ctx context.Context, conversationID, id, url string, info datatypes.JSON) error
	Delete(ctx context.Context, conversationID, id string) error
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepo{db: db}
}

// InsertIfAbsent stores m unless (conversation_id, id) already exists.
func (r *messageRepo) InsertIfAbsent(ctx context.Context, m *models.Message) (bool, error) {
	m.Timestamp = m.Timestamp.UTC()
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if res.Error != nil {
		return false, fmt.Errorf("failed to insert message %s: %w", m.ID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *messageRepo) Get(ctx context.Context, conversationID, id string) (*models.Message, error) {
	var m models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND id = ?", conversationID, id).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load message %s: %w", id, err)
	}
	return &m, nil
}

// ListByConversation returns the whole history, oldest first.
func (r *messageRepo) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	var out []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at ASC").Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return out, nil
}

// Recent returns up to limit latest messages, oldest first, skipping excludeID.
func (r *messageRepo) Recent(ctx context.Context, conversationID string, limit int, excludeID string) ([]models.Message, error) {
	query := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var out []models.Message
	err := query.Order("sent_at DESC").Order("created_at DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent messages: %w", err)
	}
	slices.Reverse(out)
	return out, nil
}

// UpdateStatus moves a message forward in its delivery lifecycle. It reports
// false when the message is unknown or already at or past status.
func (r *messageRepo) UpdateStatus(ctx context.Context, conversationID, id, status string) (bool, error) {
	if !models.ValidStatus(status) {
		return false, fmt.Errorf("unknown message status %q", status)
	}
	before := models.StatusesBefore(status)
	if len(before) == 0 {
		return false, nil
	}

	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND id = ? AND status IN ?", conversationID, id, before).
		Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update message status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// AppendReaction adds reaction under a row lock so concurrent reactions on
// one message are all kept.
func (r *messageRepo) AppendReaction(ctx context.Context, conversationID, id string, reaction models.Reaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Message
		err := lockMessage(tx, conversationID, id).Take(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load message %s: %w", id, err)
		}

		reaction.Timestamp = reaction.Timestamp.UTC()
		reactions := append(m.Reactions, reaction)
		return tx.Model(&models.Message{}).
			Where("conversation_id = ? AND id = ?", conversationID, id).
			Update("reactions", reactions).Error
	})
}

// UpdateMedia swaps the stored media url and info once the attachment has
// been copied to durable storage.
func (r *messageRepo) UpdateMedia(ctx context.Context, conversationID, id, url string, info datatypes.JSON) error {
	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND id = ?", conversationID, id).
		Updates(map[string]any{"media_url": url, "media_info": info})
	if res.Error != nil {
		return fmt.Errorf("failed to update media of message %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// lockMessage selects one message FOR UPDATE. Dialects without row locks
// (sqlite) drop the clause and rely on their single writer.
func lockMessage(tx *gorm.DB, conversationID, id string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("conversation_id = ? AND id = ?", conversationID, id)
}

func (r *messageRepo) Delete(ctx context.Context, conversationID, id string) error {
	res := r.db.WithContext(ctx).
		Where("conversation_id = ? AND id = ?", conversationID, id).
		Delete(&models.Message{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete message %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

