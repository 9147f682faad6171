// Package events publishes library activity to Kafka.
//
// Every audit event is mirrored as a JSON message keyed by user ID so a
// consumer sees one user's activity in order. Without configured brokers the
// NopPublisher is used.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Activity is the message payload.
type Activity struct {
	UserID      uint      `json:"user_id"`
	Type        string    `json:"type"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type,omitempty"`
	EntityID    *uint     `json:"entity_id,omitempty"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, activity Activity) error
	Close() error
}

// NewProducer creates a synchronous producer that waits for all in-sync replicas.
func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return producer, nil
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, log: log.Named("events")}
}

func (p *KafkaPublisher) Publish(ctx context.Context, activity Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(activity.UserID), 10)),
		Value: sarama.ByteEncoder(data),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send activity: %w", err)
	}
	p.log.Debug("activity published",
		zap.String("action", activity.Action),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher discards activity.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Activity) error { return nil }
func (NopPublisher) Close() error                            { return nil }
