// Package eventlog publishes book.Observer callbacks onto an external
// log. It is the egress analogue of a message queue producer: every
// accept, cancel, and trade becomes one JSON record on a topic, so a
// downstream reader can reconstruct the order flow without touching the
// matcher itself.
package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/rs/zerolog/log"

	"github.com/kestrel-markets/lobengine/internal/book"
)

// RecordKind distinguishes the three event shapes written to the log.
type RecordKind string

const (
	KindAccepted RecordKind = "accepted"
	KindCanceled RecordKind = "canceled"
	KindTrade    RecordKind = "trade"
)

// Record is the wire shape written to the topic. Only the fields that
// belong to Kind are populated: OrderID and Side for accepted and
// canceled records, RestingID and TakerID for trades, Price and Qty for
// all three.
type Record struct {
	Kind RecordKind `json:"kind"`
	TS   int64      `json:"ts"`

	OrderID OrderID `json:"order_id,omitempty"`
	Side    string  `json:"side,omitempty"`
	Price   int64   `json:"price,omitempty"`
	Qty     int64   `json:"qty,omitempty"`

	RestingID OrderID `json:"resting_id,omitempty"`
	TakerID   OrderID `json:"taker_id,omitempty"`
}

// OrderID mirrors book.OrderId so this package's wire type doesn't leak
// an internal one into JSON field names.
type OrderID uint64

// KafkaEventLog implements book.Observer by JSON-encoding each callback
// onto a Kafka topic via segmentio/kafka-go. Each callback publishes with
// a synchronous WriteMessages call; a publish error is logged, never
// returned, since Observer has no error-reporting path back to BookCore.
type KafkaEventLog struct {
	writer *kafka.Writer
}

// NewKafkaEventLog dials no connection up front — kafka.Writer connects
// lazily on first write — and targets topic across brokers.
func NewKafkaEventLog(brokers []string, topic string) *KafkaEventLog {
	return &KafkaEventLog{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (k *KafkaEventLog) OnAccepted(n *book.OrderNode) {
	k.publish(Record{
		Kind:    KindAccepted,
		TS:      int64(n.TS),
		OrderID: OrderID(n.ID),
		Side:    n.Side.String(),
		Price:   int64(n.Price),
		Qty:     int64(n.Qty),
	})
}

func (k *KafkaEventLog) OnCanceled(n *book.OrderNode) {
	k.publish(Record{
		Kind:    KindCanceled,
		TS:      int64(n.TS),
		OrderID: OrderID(n.ID),
		Side:    n.Side.String(),
		Price:   int64(n.Price),
		Qty:     int64(n.Qty),
	})
}

func (k *KafkaEventLog) OnTrade(restingID, takerID book.OrderId, price book.Tick, qty book.Quantity, ts book.Timestamp) {
	k.publish(Record{
		Kind:      KindTrade,
		TS:        int64(ts),
		RestingID: OrderID(restingID),
		TakerID:   OrderID(takerID),
		Price:     int64(price),
		Qty:       int64(qty),
	})
}

// BindSnapshot is a no-op: KafkaEventLog only publishes discrete
// events, leaving full-book snapshots to pkg/snapshot.
func (k *KafkaEventLog) BindSnapshot(bids, asks book.PriceLevels) {}

func (k *KafkaEventLog) publish(r Record) {
	data, err := json.Marshal(r)
	if err != nil {
		log.Error().Err(err).Str("kind", string(r.Kind)).Msg("eventlog: marshal failed")
		return
	}
	err = k.writer.WriteMessages(context.Background(), kafka.Message{Value: data})
	if err != nil {
		log.Error().Err(err).Str("kind", string(r.Kind)).Msg("eventlog: publish failed")
	}
}

// Close flushes and closes the underlying Kafka writer.
func (k *KafkaEventLog) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("eventlog: close: %w", err)
	}
	return nil
}

var _ book.Observer = (*KafkaEventLog)(nil)

// NopEventLog is an Observer whose every callback is absorbed silently,
// for when no downstream reader needs to see book events. (A BookCore
// with no Observer bound uses book.NopObserver.)
type NopEventLog struct{}

func (NopEventLog) OnAccepted(*book.OrderNode) {}
func (NopEventLog) OnCanceled(*book.OrderNode) {}
func (NopEventLog) OnTrade(restingID, takerID book.OrderId, price book.Tick, qty book.Quantity, ts book.Timestamp) {
}
func (NopEventLog) BindSnapshot(bids, asks book.PriceLevels) {}

var _ book.Observer = NopEventLog{}
