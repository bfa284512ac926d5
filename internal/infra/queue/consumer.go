package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ForgeClient/internal/domain"
	"github.com/ForgeClient/internal/infra/metrics"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaConsumer decodes exported records off a topic and hands them to a handler.
// Records the handler rejects are republished on the dead-letter producer.
type KafkaConsumer struct {
	reader MessageReader
	dlq    domain.EventProducer
}

func NewKafkaConsumer(brokers []string, topic, groupID string, dlq domain.EventProducer) *KafkaConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	slog.Info("Kafka consumer initialized", "brokers", brokers, "topic", topic, "group", groupID)
	return NewKafkaConsumerWithReader(r, dlq)
}

func NewKafkaConsumerWithReader(r MessageReader, dlq domain.EventProducer) *KafkaConsumer {
	return &KafkaConsumer{reader: r, dlq: dlq}
}

// Start blocks until the reader fails, which includes ctx being cancelled.
// Messages that are not records are logged and skipped.
func (c *KafkaConsumer) Start(ctx context.Context, handler domain.RecordHandler) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				slog.Error("Kafka read failed, consumer stopping", "error", err)
			}
			return
		}

		record, err := decode(m)
		if err != nil {
			slog.Error("Skipping undecodable message", "partition", m.Partition, "offset", m.Offset, "error", err)
			continue
		}

		if err := handler(ctx, record); err != nil {
			slog.Error("Record handler failed", "id", record.ID, "error", err)
			c.deadLetter(ctx, record)
		}
	}
}

func (c *KafkaConsumer) deadLetter(ctx context.Context, record *domain.Record) {
	if c.dlq == nil {
		return
	}
	if err := c.dlq.Publish(ctx, record); err != nil {
		slog.Error("Failed to publish to DLQ", "id", record.ID, "error", err)
		return
	}
	metrics.DLQMessagesPublished.WithLabelValues(record.Kind).Inc()
	slog.Info("Record sent to DLQ", "id", record.ID)
}

func decode(m kafka.Message) (*domain.Record, error) {
	var record domain.Record
	if err := json.Unmarshal(m.Value, &record); err != nil {
		return nil, fmt.Errorf("decode record at offset %d: %w", m.Offset, err)
	}
	if record.ID == "" {
		record.ID = string(m.Key)
	}
	return &record, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
