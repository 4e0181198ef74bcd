package models

import (
	"time"

	"gorm.io/datatypes"
)

// Message roles
const (
	RoleUser   = "user"
	RoleAgent  = "agent"
	RoleAI     = "ai"
	RoleSystem = "system"
)

// Message delivery statuses
const (
	StatusSending   = "sending"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

// Media types
const (
	MediaImage    = "image"
	MediaAudio    = "audio"
	MediaVideo    = "video"
	MediaDocument = "document"
	MediaContact  = "contact"
	MediaLocation = "location"
)

// Reaction is one emoji reaction on a message, kept in arrival order.
type Reaction struct {
	Emoji     string    `json:"emoji"`
	By        string    `json:"by"`
	Timestamp time.Time `json:"timestamp"`
}

// Message belongs to exactly one conversation. The provider id is only
// unique within that conversation.
type Message struct {
	ConversationID string                        `gorm:"type:varchar(64);primaryKey" json:"conversation_id"`
	ID             string                        `gorm:"type:varchar(128);primaryKey" json:"id"`
	Role           string                        `gorm:"type:varchar(10);not null" json:"role"`
	Content        string                        `gorm:"type:text" json:"content"`
	Timestamp      time.Time                     `gorm:"column:sent_at;not null;index" json:"timestamp"`
	Status         string                        `gorm:"type:varchar(10);not null" json:"status"`
	MediaType      *string                       `gorm:"type:varchar(10)" json:"media_type,omitempty"`
	MediaURL       *string                       `gorm:"type:text" json:"media_url,omitempty"`
	MediaInfo      datatypes.JSON                `json:"media_info,omitempty"`
	ReplyToID      *string                       `gorm:"type:varchar(128)" json:"reply_to_id,omitempty"`
	ReplyToText    *string                       `gorm:"type:text" json:"reply_to_text,omitempty"`
	ReplyToAuthor  *string                       `gorm:"type:varchar(128)" json:"reply_to_author,omitempty"`
	Reactions      datatypes.JSONSlice[Reaction] `json:"reactions,omitempty"`
	CreatedAt      time.Time                     `json:"created_at"`
}

// TableName specifies the table name
func (Message) TableName() string {
	return "messages"
}

var statusRank = map[string]int{
	StatusSending:   0,
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
}

// StatusesBefore lists the statuses a message may be in for next to replace
// it. Delivery only moves forward; failed may only replace sending or sent.
func StatusesBefore(next string) []string {
	if next == StatusFailed {
		return []string{StatusSending, StatusSent}
	}
	rank, ok := statusRank[next]
	if !ok {
		return nil
	}
	var out []string
	for s, r := range statusRank {
		if r < rank {
			out = append(out, s)
		}
	}
	return out
}

// ValidStatus reports whether s is a known delivery status.
func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok || s == StatusFailed
}
