package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *mockChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func samplePayload() CustomerEventPayload {
	return CustomerEventPayload{
		ID:          3,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: time.Date(1815, time.December, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestRabbitMQEventPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		routingKey string
		publish    func(p *RabbitMQEventPublisher) error
	}{
		{
			name:       "created",
			routingKey: RoutingKeyCustomerCreated,
			publish: func(p *RabbitMQEventPublisher) error {
				return p.PublishCustomerCreated(ctx, CustomerCreatedEvent{Timestamp: time.Now(), Payload: samplePayload()})
			},
		},
		{
			name:       "updated",
			routingKey: RoutingKeyCustomerUpdated,
			publish: func(p *RabbitMQEventPublisher) error {
				return p.PublishCustomerUpdated(ctx, CustomerUpdatedEvent{Timestamp: time.Now(), Payload: samplePayload()})
			},
		},
		{
			name:       "deleted",
			routingKey: RoutingKeyCustomerDeleted,
			publish: func(p *RabbitMQEventPublisher) error {
				return p.PublishCustomerDeleted(ctx, CustomerDeletedEvent{Timestamp: time.Now(), Payload: samplePayload()})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := new(mockChannel)
			ch.On("PublishWithContext", ctx, "customers", tt.routingKey, false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
				var decoded struct {
					Payload CustomerEventPayload `json:"payload"`
				}
				if err := json.Unmarshal(msg.Body, &decoded); err != nil {
					return false
				}
				return msg.ContentType == "application/json" &&
					msg.DeliveryMode == amqp.Persistent &&
					msg.AppId == publisherAppID &&
					decoded.Payload.ID == 3 &&
					decoded.Payload.LastName == "Lovelace"
			})).Return(nil).Once()
			ch.On("Close").Return(nil).Once()

			p := newPublisher(func() (amqpChannel, error) { return ch, nil }, "customers", testLogger)

			require.NoError(t, tt.publish(p))
			ch.AssertExpectations(t)
		})
	}
}

func TestRabbitMQEventPublisher_OpenChannelFails(t *testing.T) {
	p := newPublisher(func() (amqpChannel, error) { return nil, errors.New("connection closed") }, "customers", testLogger)

	err := p.PublishCustomerCreated(context.Background(), CustomerCreatedEvent{Payload: samplePayload()})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open channel")
}

func TestRabbitMQEventPublisher_PublishFails(t *testing.T) {
	ch := new(mockChannel)
	ch.On("PublishWithContext", mock.Anything, "customers", RoutingKeyCustomerUpdated, false, false, mock.Anything).
		Return(errors.New("channel closed")).Once()
	ch.On("Close").Return(nil).Once()

	p := newPublisher(func() (amqpChannel, error) { return ch, nil }, "customers", testLogger)

	err := p.PublishCustomerUpdated(context.Background(), CustomerUpdatedEvent{Payload: samplePayload()})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish message")
	ch.AssertExpectations(t)
}

func TestNewRabbitMQEventPublisherValidation(t *testing.T) {
	_, err := NewRabbitMQEventPublisher(nil, "customers", testLogger)
	assert.EqualError(t, err, "RabbitMQ connection cannot be nil")

	_, err = NewRabbitMQEventPublisher(&amqp.Connection{}, "", testLogger)
	assert.EqualError(t, err, "RabbitMQ exchange name cannot be empty")
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(testLogger)
	ctx := context.Background()

	assert.NoError(t, p.PublishCustomerCreated(ctx, CustomerCreatedEvent{Payload: samplePayload()}))
	assert.NoError(t, p.PublishCustomerUpdated(ctx, CustomerUpdatedEvent{Payload: samplePayload()}))
	assert.NoError(t, p.PublishCustomerDeleted(ctx, CustomerDeletedEvent{Payload: samplePayload()}))
}
