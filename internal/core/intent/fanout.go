package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/jobs"
	"github.com/rs/zerolog/log"
)

// JobType is the worker pool job type for webhook deliveries.
const JobType = "intent_webhook"

// Event is what the pipeline knows about an inbound text message.
type Event struct {
	Phone              string
	CustomerName       string
	MessageID          string
	Text               string
	ConversationStatus string
}

// Payload is the JSON body posted to business webhooks.
type Payload struct {
	Type      Kind        `json:"type"`
	Data      PayloadData `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type PayloadData struct {
	Phone              string   `json:"phone"`
	CustomerName       string   `json:"customerName"`
	MessageID          string   `json:"messageId"`
	Message            string   `json:"message"`
	MatchedKeywords    []string `json:"matchedKeywords"`
	ConversationStatus string   `json:"conversationStatus"`
}

// Trigger is one pending delivery.
type Trigger struct {
	Kind      Kind
	TargetURL string
	Payload   Payload
}

// Enqueuer is satisfied by *jobs.WorkerPool.
type Enqueuer interface {
	Enqueue(jobType string, payload any) (*jobs.Job, error)
}

// FanOut classifies messages and enqueues one delivery per matched intent
// that has a configured URL.
type FanOut struct {
	urls  map[Kind]string
	queue Enqueuer
	now   func() time.Time
}

func NewFanOut(urls map[Kind]string, queue Enqueuer) *FanOut {
	return &FanOut{urls: urls, queue: queue, now: time.Now}
}

// Notify never blocks on the network. It returns the triggers it enqueued.
func (f *FanOut) Notify(evt Event) []Trigger {
	var triggers []Trigger
	for _, m := range Classify(evt.Text) {
		url := f.urls[m.Kind]
		if url == "" {
			continue
		}

		t := Trigger{
			Kind:      m.Kind,
			TargetURL: url,
			Payload: Payload{
				Type: m.Kind,
				Data: PayloadData{
					Phone:              evt.Phone,
					CustomerName:       evt.CustomerName,
					MessageID:          evt.MessageID,
					Message:            evt.Text,
					MatchedKeywords:    m.Keywords,
					ConversationStatus: evt.ConversationStatus,
				},
				Timestamp: f.now().UTC(),
			},
		}

		if _, err := f.queue.Enqueue(JobType, t); err != nil {
			log.Warn().Err(err).Str("intent", string(m.Kind)).Str("message_id", evt.MessageID).Msg("dropping intent webhook")
			continue
		}
		log.Info().Str("intent", string(m.Kind)).Strs("keywords", m.Keywords).Str("phone", evt.Phone).Msg("intent webhook queued")
		triggers = append(triggers, t)
	}
	return triggers
}

// WebhookHandler delivers Trigger jobs. Each POST gets its own timeout.
type WebhookHandler struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewWebhookHandler(timeout time.Duration) *WebhookHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookHandler{
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

func (h *WebhookHandler) GetType() string { return JobType }

func (h *WebhookHandler) Handle(ctx context.Context, job *jobs.Job) error {
	t, ok := job.Payload.(Trigger)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	return h.Deliver(ctx, t)
}

// Deliver posts the trigger payload to its target URL.
func (h *WebhookHandler) Deliver(ctx context.Context, t Trigger) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	body, err := json.Marshal(t.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.TargetURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s webhook request failed: %w", t.Kind, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s webhook returned status %d: %s", t.Kind, resp.StatusCode, string(respBody))
	}

	log.Debug().Str("intent", string(t.Kind)).Int("status", resp.StatusCode).Msg("intent webhook delivered")
	return nil
}
