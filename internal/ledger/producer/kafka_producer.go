package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/chat-wager-ledger/pkg/contracts/events"
)

// KafkaPublisher publica os eventos do ledger nos tópicos de apostas.
type KafkaPublisher struct {
	Placed  *kafka.Writer
	Settled *kafka.Writer
}

func NewKafkaPublisher(placed, settled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Placed: placed, Settled: settled}
}

func (p *KafkaPublisher) PublishWagerPlaced(ctx context.Context, e events.WagerPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.Placed.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Game + "/" + e.User + "/" + e.Target),
		Value: b,
	})
}

func (p *KafkaPublisher) PublishWagerSettled(ctx context.Context, e events.WagerSettled) error {
	b, _ := json.Marshal(e)
	return p.Settled.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.RecordID),
		Value: b,
	})
}
