package intent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/core/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	payloads []Payload
}

func (r *recorder) server(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var p Payload
		if err := json.NewDecoder(req.Body).Decode(&p); err == nil {
			r.mu.Lock()
			r.payloads = append(r.payloads, p)
			r.mu.Unlock()
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (r *recorder) all() []Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Payload(nil), r.payloads...)
}

func startPool(t *testing.T, cfg jobs.WorkerConfig, timeout time.Duration) *jobs.WorkerPool {
	t.Helper()
	pool := jobs.NewWorkerPool(cfg)
	pool.RegisterHandler(NewWebhookHandler(timeout))
	require.NoError(t, pool.Start(context.Background()))
	t.Cleanup(pool.Stop)
	return pool
}

func TestFanOutDeliversMatchedIntent(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	srv := rec.server(t, http.StatusOK)
	pool := startPool(t, jobs.WorkerConfig{Concurrency: 2, QueueSize: 8}, time.Second)

	f := NewFanOut(map[Kind]string{KindLeadCapture: srv.URL + "/lead"}, pool)
	triggers := f.Notify(Event{
		Phone:              "5511999990000",
		CustomerName:       "Ana",
		MessageID:          "m1",
		Text:               "Quero saber o preço do pacote",
		ConversationStatus: "ai_active",
	})
	require.Len(t, triggers, 1)
	pool.Wait()

	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, KindLeadCapture, got[0].Type)
	assert.Equal(t, "5511999990000", got[0].Data.Phone)
	assert.Equal(t, "Ana", got[0].Data.CustomerName)
	assert.Equal(t, "m1", got[0].Data.MessageID)
	assert.Equal(t, []string{"preco"}, got[0].Data.MatchedKeywords)
	assert.Equal(t, "ai_active", got[0].Data.ConversationStatus)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestFanOutSkipsUnconfiguredIntent(t *testing.T) {
	t.Parallel()

	pool := startPool(t, jobs.WorkerConfig{Concurrency: 1, QueueSize: 1}, time.Second)
	f := NewFanOut(map[Kind]string{KindSupportTicket: "http://127.0.0.1:1/unused"}, pool)

	assert.Empty(t, f.Notify(Event{Text: "qual o preço?"}))
	assert.Empty(t, f.Notify(Event{Text: "olá"}))
}

func TestFanOutFailureIsIsolated(t *testing.T) {
	t.Parallel()

	bad := (&recorder{}).server(t, http.StatusInternalServerError)
	good := &recorder{}
	goodSrv := good.server(t, http.StatusOK)

	pool := startPool(t, jobs.WorkerConfig{Concurrency: 2, QueueSize: 8}, time.Second)
	f := NewFanOut(map[Kind]string{
		KindLeadCapture:        bad.URL,
		KindAppointmentBooking: goodSrv.URL,
	}, pool)

	triggers := f.Notify(Event{MessageID: "m2", Text: "preço e agendar"})
	require.Len(t, triggers, 2)
	pool.Wait()

	got := good.all()
	require.Len(t, got, 1)
	assert.Equal(t, KindAppointmentBooking, got[0].Type)
}

func TestDeliverTimesOut(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	h := NewWebhookHandler(30 * time.Millisecond)
	start := time.Now()
	err := h.Deliver(context.Background(), Trigger{Kind: KindHumanHandoff, TargetURL: srv.URL})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

type fullQueue struct{}

func (fullQueue) Enqueue(string, any) (*jobs.Job, error) { return nil, jobs.ErrQueueFull }

func TestFanOutDropsWhenQueueFull(t *testing.T) {
	t.Parallel()

	f := NewFanOut(map[Kind]string{KindLeadCapture: "http://example.invalid"}, fullQueue{})
	assert.Empty(t, f.Notify(Event{Text: "preço"}))
}
