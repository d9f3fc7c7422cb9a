package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain/entity"
)

var _ inventory.EventPublisher = (*LedgerPublisher)(nil)

// messageWriter subconjunto de *kafka.Writer usado por el publicador.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// LedgerEvent representación en el tópico de una entrada del libro mayor.
type LedgerEvent struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	WarehouseID     string    `json:"warehouse_id"`
	LocationID      string    `json:"location_id,omitempty"`
	QuantityChanged int64     `json:"quantity_changed"`
	TransactionType string    `json:"transaction_type"`
	Timestamp       time.Time `json:"timestamp"`
	Reference       string    `json:"reference,omitempty"`
	CreatedBy       string    `json:"created_by,omitempty"`
}

// LedgerPublisher publica entradas confirmadas del libro mayor. La clave del mensaje es
// producto/bodega/ubicación, así los movimientos de una misma fila van a la misma partición en orden.
type LedgerPublisher struct {
	w messageWriter
}

// NewLedgerPublisher crea un writer síncrono hacia topic.
func NewLedgerPublisher(brokers []string, topic string) *LedgerPublisher {
	return &LedgerPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}}
}

// PublishLedgerEntries envía todas las entradas en un solo lote.
func (p *LedgerPublisher) PublishLedgerEntries(ctx context.Context, entries []entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(LedgerEvent{
			ID:              e.ID,
			ProductID:       e.ProductID,
			WarehouseID:     e.WarehouseID,
			LocationID:      e.LocationID,
			QuantityChanged: e.QuantityChanged,
			TransactionType: e.TransactionType,
			Timestamp:       e.Timestamp,
			Reference:       e.Reference,
			CreatedBy:       e.CreatedBy,
		})
		if err != nil {
			return fmt.Errorf("serializar entrada %s: %w", e.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Key().String()),
			Value: data,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(e.TransactionType)},
				{Key: "content-type", Value: []byte("application/json")},
			},
			Time: e.Timestamp,
		})
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publicar %d entradas: %w", len(msgs), err)
	}
	return nil
}

// Close cierra el writer.
func (p *LedgerPublisher) Close() error {
	return p.w.Close()
}
