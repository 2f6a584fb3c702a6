package event

import (
	"context"
	"log/slog"
)

// NoopPublisher drops every event. Used when messaging is disabled.
type NoopPublisher struct {
	logger *slog.Logger
}

var _ Publisher = (*NoopPublisher)(nil)

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger.With("component", "NoopPublisher")}
}

func (p *NoopPublisher) PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error {
	p.logger.DebugContext(ctx, "Dropping event", "routingKey", RoutingKeyCustomerCreated, "customerID", event.Payload.ID)
	return nil
}

func (p *NoopPublisher) PublishCustomerUpdated(ctx context.Context, event CustomerUpdatedEvent) error {
	p.logger.DebugContext(ctx, "Dropping event", "routingKey", RoutingKeyCustomerUpdated, "customerID", event.Payload.ID)
	return nil
}

func (p *NoopPublisher) PublishCustomerDeleted(ctx context.Context, event CustomerDeletedEvent) error {
	p.logger.DebugContext(ctx, "Dropping event", "routingKey", RoutingKeyCustomerDeleted, "customerID", event.Payload.ID)
	return nil
}
