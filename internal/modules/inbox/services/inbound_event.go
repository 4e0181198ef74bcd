package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/media"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
)

// GatewayPayload is the webhook body posted by Z-API style gateways.
type GatewayPayload struct {
	Type               string           `json:"type"`
	Event              string           `json:"event"`
	Phone              string           `json:"phone"`
	FromMe             bool             `json:"fromMe"`
	MessageID          string           `json:"messageId"`
	Momment            json.Number      `json:"momment"`
	SenderName         string           `json:"senderName"`
	ChatName           string           `json:"chatName"`
	SenderPhoto        string           `json:"senderPhoto"`
	Photo              string           `json:"photo"`
	IsGroup            bool             `json:"isGroup"`
	ReferenceMessageID string           `json:"referenceMessageId"`
	Status             string           `json:"status"`
	IDs                []string         `json:"ids"`
	Text               *TextPayload     `json:"text,omitempty"`
	Image              *MediaPayload    `json:"image,omitempty"`
	Audio              *MediaPayload    `json:"audio,omitempty"`
	Video              *MediaPayload    `json:"video,omitempty"`
	Document           *MediaPayload    `json:"document,omitempty"`
	Contact            *ContactPayload  `json:"contact,omitempty"`
	Location           *LocationPayload `json:"location,omitempty"`
	Reaction           *ReactionPayload `json:"reaction,omitempty"`
}

type TextPayload struct {
	Message string `json:"message"`
}

type MediaPayload struct {
	ImageURL    string `json:"imageUrl"`
	AudioURL    string `json:"audioUrl"`
	VideoURL    string `json:"videoUrl"`
	DocumentURL string `json:"documentUrl"`
	Caption     string `json:"caption"`
	MimeType    string `json:"mimeType"`
	FileName    string `json:"fileName"`
}

func (m *MediaPayload) url() string {
	for _, u := range []string{m.ImageURL, m.AudioURL, m.VideoURL, m.DocumentURL} {
		if u != "" {
			return u
		}
	}
	return ""
}

type ContactPayload struct {
	DisplayName string `json:"displayName"`
	VCard       string `json:"vCard"`
}

type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Name      string  `json:"name"`
}

type ReactionPayload struct {
	Value             string `json:"value"`
	ReferencedMessage struct {
		MessageID string `json:"messageId"`
	} `json:"referencedMessage"`
}

// EventKind classifies a normalized inbound event.
type EventKind string

const (
	EventMessage     EventKind = "message"
	EventReaction    EventKind = "reaction"
	EventStatus      EventKind = "status"
	EventUnsupported EventKind = "unsupported"
)

// InboundMedia is a media attachment still living at the gateway.
type InboundMedia struct {
	Kind     string
	URL      string
	MimeType string
	FileName string
}

// InboundEvent is a gateway event normalized for the pipeline.
type InboundEvent struct {
	Kind        EventKind
	Phone       string
	MessageID   string
	FromMe      bool
	IsGroup     bool
	Timestamp   time.Time
	SenderName  string
	SenderPhoto string
	ReplyToID   string

	// message events
	Text       string
	Media      *InboundMedia
	Attachment map[string]any // contact or location details

	// reaction events
	Emoji           string
	TargetMessageID string

	// status events
	Status     string
	MessageIDs []string
}

// DecodeGatewayPayload parses a raw webhook body.
func DecodeGatewayPayload(body []byte) (*GatewayPayload, error) {
	var p GatewayPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: malformed json: %v", ErrValidation, err)
	}
	return &p, nil
}

// ToEvent normalizes the payload. now is used when the gateway sends no
// timestamp.
func (p *GatewayPayload) ToEvent(now time.Time) *InboundEvent {
	evt := &InboundEvent{
		Phone:       strings.TrimSpace(p.Phone),
		MessageID:   strings.TrimSpace(p.MessageID),
		FromMe:      p.FromMe,
		IsGroup:     p.IsGroup || strings.HasSuffix(p.Phone, "-group") || strings.HasSuffix(p.Phone, "@g.us"),
		Timestamp:   parseMomment(p.Momment, now),
		SenderName:  firstNonEmpty(p.SenderName, p.ChatName),
		SenderPhoto: firstNonEmpty(p.SenderPhoto, p.Photo),
		ReplyToID:   p.ReferenceMessageID,
	}

	typ := firstNonEmpty(p.Type, p.Event)
	if typ == "MessageStatusCallback" || (typ != "ReceivedCallback" && p.Status != "" && !p.hasContent()) {
		evt.Kind = EventStatus
		evt.Status = mapGatewayStatus(p.Status)
		evt.MessageIDs = append(evt.MessageIDs, p.IDs...)
		if len(evt.MessageIDs) == 0 && evt.MessageID != "" {
			evt.MessageIDs = []string{evt.MessageID}
		}
		return evt
	}

	if p.Reaction != nil {
		evt.Kind = EventReaction
		evt.Emoji = p.Reaction.Value
		evt.TargetMessageID = firstNonEmpty(p.Reaction.ReferencedMessage.MessageID, p.ReferenceMessageID)
		return evt
	}

	evt.Kind = EventMessage
	switch {
	case p.Text != nil:
		evt.Text = p.Text.Message
	case p.Image != nil:
		evt.Text = p.Image.Caption
		evt.Media = inboundMedia(models.MediaImage, p.Image)
	case p.Audio != nil:
		evt.Media = inboundMedia(models.MediaAudio, p.Audio)
	case p.Video != nil:
		evt.Text = p.Video.Caption
		evt.Media = inboundMedia(models.MediaVideo, p.Video)
	case p.Document != nil:
		evt.Text = p.Document.Caption
		evt.Media = inboundMedia(models.MediaDocument, p.Document)
	case p.Contact != nil:
		evt.Attachment = map[string]any{
			"type":        models.MediaContact,
			"displayName": p.Contact.DisplayName,
			"vCard":       p.Contact.VCard,
		}
	case p.Location != nil:
		evt.Attachment = map[string]any{
			"type":      models.MediaLocation,
			"latitude":  p.Location.Latitude,
			"longitude": p.Location.Longitude,
			"address":   p.Location.Address,
			"name":      p.Location.Name,
		}
	default:
		evt.Kind = EventUnsupported
	}
	if evt.Media != nil && evt.Media.URL == "" {
		evt.Media = nil
		if evt.Text == "" {
			evt.Kind = EventUnsupported
		}
	}
	return evt
}

// Validate checks the fields every event needs.
func (e *InboundEvent) Validate() error {
	if e.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if e.Kind == EventStatus {
		if len(e.MessageIDs) == 0 {
			return fmt.Errorf("%w: messageId or ids is required", ErrValidation)
		}
		return nil
	}
	if e.MessageID == "" {
		return fmt.Errorf("%w: messageId is required", ErrValidation)
	}
	return nil
}

// Content is the text stored for the message and shown to the AI.
func (e *InboundEvent) Content() string {
	if e.Text != "" {
		return e.Text
	}
	if e.Media != nil {
		return "[" + e.Media.Kind + "]"
	}
	if e.Attachment != nil {
		switch e.Attachment["type"] {
		case models.MediaContact:
			return fmt.Sprintf("[contact] %v", e.Attachment["displayName"])
		case models.MediaLocation:
			if addr, _ := e.Attachment["address"].(string); addr != "" {
				return "[location] " + addr
			}
			return fmt.Sprintf("[location] %v,%v", e.Attachment["latitude"], e.Attachment["longitude"])
		}
	}
	return ""
}

func (p *GatewayPayload) hasContent() bool {
	return p.Text != nil || p.Image != nil || p.Audio != nil || p.Video != nil ||
		p.Document != nil || p.Contact != nil || p.Location != nil || p.Reaction != nil
}

func inboundMedia(kind string, m *MediaPayload) *InboundMedia {
	return &InboundMedia{Kind: kind, URL: m.url(), MimeType: m.MimeType, FileName: m.FileName}
}

func mediaKind(kind string) media.Kind {
	return media.Kind(kind)
}

// parseMomment reads epoch seconds, or milliseconds above 1e12.
func parseMomment(n json.Number, now time.Time) time.Time {
	if n == "" {
		return now.UTC()
	}
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil || v <= 0 {
		return now.UTC()
	}
	if v > 1e12 {
		return time.UnixMilli(int64(v)).UTC()
	}
	return time.Unix(int64(v), 0).UTC()
}

func mapGatewayStatus(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SENDING", "PENDING":
		return models.StatusSending
	case "SENT", "SERVER_ACK":
		return models.StatusSent
	case "RECEIVED", "DELIVERED", "DELIVERY_ACK":
		return models.StatusDelivered
	case "READ", "READ_BY_ME", "PLAYED", "VIEWED":
		return models.StatusRead
	case "FAILED", "ERROR":
		return models.StatusFailed
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
