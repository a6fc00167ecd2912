package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	obscontext "github.com/brjatoba92/loja-materiais-utilidades/internal/observability/context"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
)

// OrderEvent is the envelope written to the orders topic.
type OrderEvent struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	OrderID       string          `json:"order_id"`
	CustomerID    string          `json:"customer_id"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ domain.EventPublisher = (*KafkaPublisher)(nil)

type KafkaPublisher struct {
	writer messageWriter
	log    *zap.Logger
	now    func() time.Time
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op publisher otherwise.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) domain.EventPublisher {
	log = log.Named("order.events")
	if !cfg.Kafka.Enabled() {
		log.Info("kafka brokers not configured, order events disabled")
		return NoopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	p := newKafkaPublisher(writer, log)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return p.Close()
		},
	})
	return p
}

func newKafkaPublisher(writer messageWriter, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *domain.OrderDetailResponse) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	event := p.createEvent(ctx, EventTypeOrderCreated, order.ID, order.CustomerID, data)
	return p.publish(ctx, event)
}

func (p *KafkaPublisher) PublishOrderStatusChanged(ctx context.Context, order *domain.OrderResponse, previous domain.Status) error {
	payload := struct {
		Order          *domain.OrderResponse `json:"order"`
		PreviousStatus domain.Status         `json:"previous_status"`
		NewStatus      domain.Status         `json:"new_status"`
	}{
		Order:          order,
		PreviousStatus: previous,
		NewStatus:      order.Status,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := p.createEvent(ctx, EventTypeOrderStatusChanged, order.ID, order.CustomerID, data)
	return p.publish(ctx, event)
}

func (p *KafkaPublisher) createEvent(ctx context.Context, eventType EventType, orderID, customerID string, data []byte) *OrderEvent {
	return &OrderEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		OrderID:       orderID,
		CustomerID:    customerID,
		Data:          data,
		Timestamp:     p.now(),
		CorrelationID: obscontext.RequestIDFromContext(ctx),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event *OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish order event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return err
	}

	p.log.Debug("order event published",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("order_id", event.OrderID),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *domain.OrderDetailResponse) error {
	return nil
}

func (NoopPublisher) PublishOrderStatusChanged(context.Context, *domain.OrderResponse, domain.Status) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
