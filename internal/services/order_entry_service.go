package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/Harith-design/webportal-sub000/internal/amqp"
	"github.com/Harith-design/webportal-sub000/internal/auth"
	"github.com/Harith-design/webportal-sub000/internal/core"
	"github.com/Harith-design/webportal-sub000/internal/erp"
)

// EventPublisher publishes order-submitted events. Nil-able: without a
// broker the portal still takes orders, it just skips the event.
type EventPublisher interface {
	PublishOrderSubmitted(ctx context.Context, msg *amqp.OrderSubmittedMessage) error
}

// OrderEntryService validates and submits new sales orders.
type OrderEntryService struct {
	gateway  ERPGateway
	events   EventPublisher
	validate *validator.Validate
}

func NewOrderEntryService(gateway ERPGateway, events EventPublisher) *OrderEntryService {
	return &OrderEntryService{
		gateway:  gateway,
		events:   events,
		validate: validator.New(),
	}
}

// Submit validates the draft, pins it to the session's customer code and
// posts it to the ERP. The order-submitted event is published best-effort
// after the ERP accepts: a broker failure never undoes a placed order.
func (s *OrderEntryService) Submit(ctx context.Context, session auth.Session, draft erp.SalesOrderDraft) (core.Document, error) {
	// The customer code always comes from the session, never the client.
	draft.CardCode = session.CardCode

	if err := s.validate.Struct(draft); err != nil {
		return core.Document{}, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	if !core.ParseDate(draft.DueDate).Valid() {
		return core.Document{}, fmt.Errorf("%w: unparseable due date %q", core.ErrInvalidInput, draft.DueDate)
	}

	doc, err := s.gateway.CreateSalesOrder(ctx, draft)
	if err != nil {
		return core.Document{}, fmt.Errorf("submit sales order: %w", err)
	}

	s.publishSubmitted(ctx, session, doc)
	return doc, nil
}

func (s *OrderEntryService) publishSubmitted(ctx context.Context, session auth.Session, doc core.Document) {
	if s.events == nil {
		slog.WarnContext(ctx, "Event publisher not configured, skipping order event",
			"doc_entry", doc.DocEntry)
		return
	}

	msg := amqp.NewOrderSubmittedMessage(doc.DocEntry, session.CardCode, doc.Total.String(), session.Username)
	if err := s.events.PublishOrderSubmitted(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish order event",
			"error", err,
			"doc_entry", doc.DocEntry)
	}
}
