package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/repositories"
)

// Transcript is a rendered conversation export.
type Transcript struct {
	Filename    string
	ContentType string
	Body        []byte
}

type TranscriptService struct {
	conversations repositories.ConversationRepo
	messages      repositories.MessageRepo
	exporter      *export.Service
	now           func() time.Time
}

func NewTranscriptService(conversations repositories.ConversationRepo, messages repositories.MessageRepo, exporter *export.Service) *TranscriptService {
	return &TranscriptService{
		conversations: conversations,
		messages:      messages,
		exporter:      exporter,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Export renders the full history of a conversation as pdf or xlsx.
func (s *TranscriptService) Export(ctx context.Context, id, format string) (*Transcript, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	conv, err := s.conversations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	body, contentType, ext, err := s.exporter.Export(transcriptTable(conv, msgs, now), f)
	if err != nil {
		return nil, err
	}

	return &Transcript{
		Filename:    fmt.Sprintf("conversation-%s-%s%s", conv.ID, now.Format("20060102-150405"), ext),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func transcriptTable(conv *models.Conversation, msgs []models.Message, now time.Time) *export.Table {
	title := "Conversation " + conv.ID
	if conv.CustomerName != "" {
		title += " (" + conv.CustomerName + ")"
	}

	desc := fmt.Sprintf("Status: %s · Messages: %d", conv.ConversationStatus, len(msgs))
	if conv.AssignedAgentID != nil {
		desc += " · Agent: " + *conv.AssignedAgentID
	}

	rows := make([][]string, 0, len(msgs))
	for _, m := range msgs {
		rows = append(rows, []string{
			m.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			m.Role,
			transcriptText(m),
			m.Status,
		})
	}

	return &export.Table{
		Title:        title,
		Description:  desc,
		CreatedAt:    now,
		Headers:      []string{"Time (UTC)", "From", "Message", "Status"},
		Rows:         rows,
		ColumnWidths: []float64{1.5, 0.7, 4, 0.8},
		Style:        export.DefaultStyle(),
	}
}

func transcriptText(m models.Message) string {
	var b strings.Builder
	if m.ReplyToText != nil && *m.ReplyToText != "" {
		b.WriteString("> ")
		b.WriteString(*m.ReplyToText)
		b.WriteString("\n")
	}
	b.WriteString(m.Content)
	if m.MediaURL != nil && *m.MediaURL != "" {
		b.WriteString("\n")
		b.WriteString(*m.MediaURL)
	}
	if len(m.Reactions) > 0 {
		emojis := make([]string, 0, len(m.Reactions))
		for _, r := range m.Reactions {
			emojis = append(emojis, r.Emoji)
		}
		b.WriteString("\nReactions: ")
		b.WriteString(strings.Join(emojis, " "))
	}
	return b.String()
}
