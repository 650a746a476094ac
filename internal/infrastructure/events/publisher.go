// Package events publica en Kafka las entradas del libro ya confirmadas.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/segmentio/kafka-go"
)

var _ inventory.MovementPublisher = (*KafkaPublisher)(nil)

// EventType valor del header "event-type".
const EventType = "stock.movement.recorded"

// MessageWriter lo que el publicador necesita de *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MovementEvent cuerpo JSON del mensaje.
type MovementEvent struct {
	ID               int64     `json:"id"`
	UserID           string    `json:"userId"`
	ProductCode      string    `json:"productCode"`
	ProductName      string    `json:"productName"`
	Action           string    `json:"action"`
	Delta            int       `json:"delta"`
	BoxesAfterChange int       `json:"boxesAfterChange"`
	UnitsPerBox      int       `json:"unitsPerBox"`
	BatchID          *string   `json:"batchId,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// KafkaPublisher implementación de inventory.MovementPublisher.
type KafkaPublisher struct {
	w MessageWriter
}

// NewKafkaWriter writer con particionado por clave: los movimientos de un mismo producto
// del dueño conservan el orden.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// NewPublisher construye el publicador sobre un writer.
func NewPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

// Publish serializa y envía la entrada.
func (p *KafkaPublisher) Publish(ctx context.Context, m *entity.StockMovement) error {
	body, err := json.Marshal(MovementEvent{
		ID:               m.ID,
		UserID:           m.UserID,
		ProductCode:      m.ProductCode,
		ProductName:      m.ProductName,
		Action:           string(m.Action),
		Delta:            m.Delta,
		BoxesAfterChange: m.BoxesAfterChange,
		UnitsPerBox:      m.UnitsPerBox,
		BatchID:          m.BatchID,
		Timestamp:        m.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("serializar movimiento: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(m.UserID + ":" + m.ProductCode),
		Value: body,
		Time:  m.Timestamp,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventType)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close cierra el writer subyacente.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
