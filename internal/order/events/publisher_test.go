package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	obscontext "github.com/brjatoba92/loja-materiais-utilidades/internal/observability/context"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/order/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublishOrderCreated(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaPublisher(w, zap.NewNop())
	p.now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }

	ctx := obscontext.WithRequestID(context.Background(), "req-123")
	order := &domain.OrderDetailResponse{}
	order.ID = "42"
	order.CustomerID = "7"
	order.Total = "60.00"
	order.Status = domain.StatusConfirmed

	require.NoError(t, p.PublishOrderCreated(ctx, order))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, string(EventTypeOrderCreated), header(msg, "event_type"))

	var event OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, EventTypeOrderCreated, event.Type)
	assert.Equal(t, "7", event.CustomerID)
	assert.Equal(t, "req-123", event.CorrelationID)
	assert.Equal(t, event.ID, header(msg, "event_id"))
	assert.Contains(t, string(event.Data), `"total":"60.00"`)
}

func TestPublishStatusChangedCarriesBothStatuses(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaPublisher(w, zap.NewNop())

	order := &domain.OrderResponse{ID: "9", CustomerID: "3", Status: domain.StatusShipped}
	require.NoError(t, p.PublishOrderStatusChanged(context.Background(), order, domain.StatusConfirmed))
	require.Len(t, w.msgs, 1)

	var event OrderEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &event))
	assert.Equal(t, EventTypeOrderStatusChanged, event.Type)
	assert.Contains(t, string(event.Data), `"previous_status":"confirmed"`)
	assert.Contains(t, string(event.Data), `"new_status":"shipped"`)
}

func TestPublishReturnsWriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, zap.NewNop())

	err := p.PublishOrderStatusChanged(context.Background(), &domain.OrderResponse{ID: "1"}, domain.StatusPending)
	assert.EqualError(t, err, "broker down")
}
