package services

import (
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) *InboundEvent {
	t.Helper()
	p, err := DecodeGatewayPayload([]byte(body))
	require.NoError(t, err)
	return p.ToEvent(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestToEventTimestamps(t *testing.T) {
	t.Parallel()

	sec := decode(t, `{"phone":"1","messageId":"a","momment":1715000000,"text":{"message":"x"}}`)
	assert.Equal(t, time.Unix(1715000000, 0).UTC(), sec.Timestamp)

	ms := decode(t, `{"phone":"1","messageId":"a","momment":1715000000123,"text":{"message":"x"}}`)
	assert.Equal(t, time.UnixMilli(1715000000123).UTC(), ms.Timestamp)

	missing := decode(t, `{"phone":"1","messageId":"a","text":{"message":"x"}}`)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), missing.Timestamp)
}

func TestToEventKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		kind    EventKind
		content string
		media   string
	}{
		{"text", `{"phone":"1","messageId":"a","text":{"message":"oi"}}`, EventMessage, "oi", ""},
		{"image with caption", `{"phone":"1","messageId":"a","image":{"imageUrl":"https://x/a.jpg","caption":"foto"}}`, EventMessage, "foto", models.MediaImage},
		{"audio", `{"phone":"1","messageId":"a","audio":{"audioUrl":"https://x/a.ogg"}}`, EventMessage, "[audio]", models.MediaAudio},
		{"document", `{"phone":"1","messageId":"a","document":{"documentUrl":"https://x/a.pdf","fileName":"a.pdf"}}`, EventMessage, "[document]", models.MediaDocument},
		{"image without url", `{"phone":"1","messageId":"a","image":{"caption":""}}`, EventUnsupported, "", ""},
		{"contact", `{"phone":"1","messageId":"a","contact":{"displayName":"Bia","vCard":"BEGIN:VCARD"}}`, EventMessage, "[contact] Bia", ""},
		{"location", `{"phone":"1","messageId":"a","location":{"latitude":-23.5,"longitude":-46.6,"address":"Av. Paulista"}}`, EventMessage, "[location] Av. Paulista", ""},
		{"reaction", `{"phone":"1","messageId":"a","reaction":{"value":"❤️","referencedMessage":{"messageId":"m9"}}}`, EventReaction, "", ""},
		{"status callback", `{"type":"MessageStatusCallback","phone":"1","status":"READ","ids":["m1","m2"]}`, EventStatus, "", ""},
		{"received callback with status", `{"type":"ReceivedCallback","phone":"1","messageId":"a","status":"RECEIVED","text":{"message":"oi"}}`, EventMessage, "oi", ""},
		{"unknown", `{"phone":"1","messageId":"a"}`, EventUnsupported, "", ""},
	}

	for _, tt := range tests {
		evt := decode(t, tt.body)
		assert.Equal(t, tt.kind, evt.Kind, tt.name)
		if tt.kind == EventMessage {
			assert.Equal(t, tt.content, evt.Content(), tt.name)
		}
		if tt.media != "" && assert.NotNil(t, evt.Media, tt.name) {
			assert.Equal(t, tt.media, evt.Media.Kind, tt.name)
		}
	}
}

func TestToEventStatusAndReaction(t *testing.T) {
	t.Parallel()

	st := decode(t, `{"type":"MessageStatusCallback","phone":"1","status":"PLAYED","ids":["m1","m2"]}`)
	assert.Equal(t, models.StatusRead, st.Status)
	assert.Equal(t, []string{"m1", "m2"}, st.MessageIDs)
	assert.NoError(t, st.Validate())

	single := decode(t, `{"phone":"1","messageId":"m3","status":"RECEIVED"}`)
	assert.Equal(t, EventStatus, single.Kind)
	assert.Equal(t, models.StatusDelivered, single.Status)
	assert.Equal(t, []string{"m3"}, single.MessageIDs)

	r := decode(t, `{"phone":"1","messageId":"a","reaction":{"value":"❤️","referencedMessage":{"messageId":"m9"}}}`)
	assert.Equal(t, "❤️", r.Emoji)
	assert.Equal(t, "m9", r.TargetMessageID)
}

func TestToEventSender(t *testing.T) {
	t.Parallel()

	evt := decode(t, `{"phone":" 5511 ","messageId":"a","chatName":"Ana","photo":"https://x/p.jpg","text":{"message":"oi"}}`)
	assert.Equal(t, "5511", evt.Phone)
	assert.Equal(t, "Ana", evt.SenderName)
	assert.Equal(t, "https://x/p.jpg", evt.SenderPhoto)

	group := decode(t, `{"phone":"120363019-group","messageId":"a","text":{"message":"oi"}}`)
	assert.True(t, group.IsGroup)
}
