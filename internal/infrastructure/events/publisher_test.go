package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/infrastructure/events"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublish_MensajeConClaveYHeader(t *testing.T) {
	w := &fakeWriter{}
	p := events.NewPublisher(w)
	batchID := "b1"
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), &entity.StockMovement{
		ID: 7, UserID: "u1", ProductCode: "SKU1", ProductName: "Widget",
		Action: entity.ActionOutbound, Delta: -8, BoxesAfterChange: 0, UnitsPerBox: 12,
		BatchID: &batchID, Timestamp: ts,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "u1:SKU1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, events.EventType, string(msg.Headers[0].Value))

	var ev events.MovementEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, "Salida", ev.Action)
	assert.Equal(t, -8, ev.Delta)
	assert.Equal(t, int64(7), ev.ID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublish_ErrorDelWriter(t *testing.T) {
	p := events.NewPublisher(&fakeWriter{err: errors.New("sin líder")})
	err := p.Publish(context.Background(), &entity.StockMovement{UserID: "u1", ProductCode: "SKU1"})
	require.Error(t, err)
}

func TestNewKafkaWriter(t *testing.T) {
	w := events.NewKafkaWriter([]string{"localhost:9092"}, "stock-movements")
	assert.Equal(t, "stock-movements", w.Topic)
	_, ok := w.Balancer.(*kafka.Hash)
	assert.True(t, ok)
}
