package services

import (
	"context"
	"log/slog"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
)

// EventPublisher delivers ledger events once a mutation has committed.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, evt *amqp.LedgerEvent) error
}

// publishEvents sends events best effort. A failed publish never fails the
// operation that produced it.
func publishEvents(ctx context.Context, p EventPublisher, events ...*amqp.LedgerEvent) {
	if p == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping ledger events", "count", len(events))
		return
	}
	for _, evt := range events {
		if err := p.PublishLedgerEvent(ctx, evt); err != nil {
			slog.ErrorContext(ctx, "Failed to publish ledger event",
				"type", evt.Type,
				"entity_id", evt.EntityID,
				"error", err)
		}
	}
}
