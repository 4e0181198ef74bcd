package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxMutateAttempts = 16

type ConversationRepo interface {
	Get(ctx context.Context, id string) (*models.Conversation, error)
	GetOrCreate(ctx context.Context, c *models.Conversation) (*models.Conversation, bool, error)
	Update(ctx context.Context, c *models.Conversation) error
	Mutate(ctx context.Context, id string, fn func(c *models.Conversation) error) (*models.Conversation, error)
	List(ctx context.Context, status string, limit int) ([]models.Conversation, error)
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Get(ctx context.Context, id string) (*models.Conversation, error) {
	var c models.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation %s: %w", id, err)
	}
	return &c, nil
}

// GetOrCreate inserts c unless a row with the same id exists, then returns the
// stored row. The bool is true when this call created it.
func (r *conversationRepo) GetOrCreate(ctx context.Context, c *models.Conversation) (*models.Conversation, bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(c)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to create conversation %s: %w", c.ID, res.Error)
	}

	stored, err := r.Get(ctx, c.ID)
	if err != nil {
		return nil, false, err
	}
	return stored, res.RowsAffected == 1, nil
}

// Update writes every mutable column if the stored version still matches
// c.Version. On success c.Version is incremented.
func (r *conversationRepo) Update(ctx context.Context, c *models.Conversation) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ? AND version = ?", c.ID, c.Version).
		Updates(map[string]any{
			"customer_name":       c.CustomerName,
			"customer_avatar_url": c.CustomerAvatarURL,
			"conversation_status": c.ConversationStatus,
			"ai_enabled":          c.AIEnabled,
			"ai_paused":           c.AIPaused,
			"assigned_agent_id":   c.AssignedAgentID,
			"last_message":        c.LastMessage,
			"last_message_at":     c.LastMessageAt,
			"unread_count":        c.UnreadCount,
			"resolved_at":         c.ResolvedAt,
			"resolved_by":         c.ResolvedBy,
			"version":             c.Version + 1,
			"updated_at":          now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update conversation %s: %w", c.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	c.Version++
	c.UpdatedAt = now
	return nil
}

// Mutate loads the conversation, applies fn and writes it back with a version
// check, retrying on conflict. fn may run more than once, so anything it
// records outside c must be overwritten on every call.
func (r *conversationRepo) Mutate(ctx context.Context, id string, fn func(c *models.Conversation) error) (*models.Conversation, error) {
	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		c, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := fn(c); err != nil {
			if errors.Is(err, ErrSkipUpdate) {
				return c, nil
			}
			return nil, err
		}

		err = r.Update(ctx, c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("conversation %s: %w after %d attempts", id, ErrVersionConflict, maxMutateAttempts)
}

func (r *conversationRepo) List(ctx context.Context, status string, limit int) ([]models.Conversation, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Model(&models.Conversation{})
	if status != "" {
		query = query.Where("conversation_status = ?", status)
	}

	var out []models.Conversation
	err := query.Order("last_message_at DESC").Order("id").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return out, nil
}
