package services

import (
	"context"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/repositories"
)

type ClaimResult int

const (
	Proceed ClaimResult = iota
	AlreadyProcessed
)

// IdempotencyGuard makes sure each (conversation, message) pair is processed
// at most once, whatever the gateway redelivers.
type IdempotencyGuard struct {
	events repositories.ProcessedEventRepo
}

func NewIdempotencyGuard(events repositories.ProcessedEventRepo) *IdempotencyGuard {
	return &IdempotencyGuard{events: events}
}

// Claim has no side effect when it returns AlreadyProcessed.
func (g *IdempotencyGuard) Claim(ctx context.Context, conversationID, messageID string) (ClaimResult, error) {
	first, err := g.events.Claim(ctx, conversationID, messageID)
	if err != nil {
		return Proceed, err
	}
	if !first {
		return AlreadyProcessed, nil
	}
	return Proceed, nil
}

// Release undoes a Claim whose event could not be stored.
func (g *IdempotencyGuard) Release(ctx context.Context, conversationID, messageID string) error {
	return g.events.Release(ctx, conversationID, messageID)
}
