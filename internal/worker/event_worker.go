// Package worker consumes order-submitted events off the broker and
// records them as the portal's audit trail.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Harith-design/webportal-sub000/internal/amqp"
	"github.com/Harith-design/webportal-sub000/internal/storage"
)

// EventStore is the slice of the repository the worker writes to.
type EventStore interface {
	RecordOrderEvent(ctx context.Context, e storage.OrderEvent) error
	ListRecentOrderEvents(ctx context.Context, cardCode string, limit int) ([]storage.OrderEvent, error)
}

// EventWorker turns broker messages into order_events rows.
type EventWorker struct {
	store EventStore
}

func NewEventWorker(store EventStore) *EventWorker {
	return &EventWorker{store: store}
}

// HandleOrderSubmitted records one submitted order. Returning an error
// nacks the message so the broker redelivers it.
func (w *EventWorker) HandleOrderSubmitted(msg *amqp.OrderSubmittedMessage) error {
	if msg.DocEntry < 1 || msg.CardCode == "" {
		// Unfixable message; recording it would poison the audit trail.
		slog.Warn("Dropping malformed order event",
			"doc_entry", msg.DocEntry,
			"card_code", msg.CardCode)
		return nil
	}

	total, err := decimal.NewFromString(msg.Total)
	if err != nil {
		slog.Warn("Dropping order event with unparseable total",
			"doc_entry", msg.DocEntry,
			"total", msg.Total,
			"error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := storage.OrderEvent{
		DocEntry:    msg.DocEntry,
		CardCode:    msg.CardCode,
		Total:       total,
		SubmittedBy: msg.SubmittedBy,
	}
	if err := w.store.RecordOrderEvent(ctx, event); err != nil {
		return fmt.Errorf("record order event (doc_entry=%d): %w", msg.DocEntry, err)
	}

	slog.Info("Order event recorded",
		"doc_entry", msg.DocEntry,
		"card_code", msg.CardCode,
		"total", msg.Total,
		"submitted_by", msg.SubmittedBy)
	return nil
}

// StartupCheck logs the most recent audit entries so a restarted worker
// shows where the trail left off.
func (w *EventWorker) StartupCheck(ctx context.Context) error {
	events, err := w.store.ListRecentOrderEvents(ctx, "", 5)
	if err != nil {
		return fmt.Errorf("list recent order events: %w", err)
	}
	if len(events) == 0 {
		slog.Info("Order audit trail is empty")
		return nil
	}
	slog.Info("Resuming order audit trail",
		"recent_events", len(events),
		"latest_doc_entry", events[0].DocEntry,
		"latest_at", events[0].CreatedAt.Format(time.RFC3339))
	return nil
}
