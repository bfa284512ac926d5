// Package factory holds the constructors cmd/server hands to fx.
package factory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ForgeClient/internal/infra/queue"
	"github.com/ForgeClient/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

const (
	archiveGroup   = "forge-archive-group"
	connectTimeout = 10 * time.Second
)

// NewMongoClient connects to MongoDB and disconnects when the app stops.
func NewMongoClient(lc fx.Lifecycle, cfg *config.Config) (*mongo.Client, error) {
	if cfg.MongoURI == "" {
		return nil, errors.New("mongo URI not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName("forge-client").
		SetConnectTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	lc.Append(fx.StopHook(client.Disconnect))
	return client, nil
}

// NewMainKafkaProducer publishes changed records on KAFKA_TOPIC.
func NewMainKafkaProducer(cfg *config.Config, lc fx.Lifecycle) (*queue.KafkaProducer, error) {
	return newProducer(lc, cfg.KafkaBrokers, cfg.KafkaTopic)
}

// NewDLQProducer publishes records the archive rejected on KAFKA_DLQ_TOPIC.
func NewDLQProducer(cfg *config.Config, lc fx.Lifecycle) (*queue.KafkaProducer, error) {
	return newProducer(lc, cfg.KafkaBrokers, cfg.KafkaDLQTopic)
}

func newProducer(lc fx.Lifecycle, brokers []string, topic string) (*queue.KafkaProducer, error) {
	if err := checkKafkaConfig(brokers, topic); err != nil {
		return nil, err
	}
	producer := queue.NewKafkaProducer(brokers, topic)
	lc.Append(fx.StopHook(producer.Close))
	return producer, nil
}

// NewKafkaConsumer reads exported records for the archive, dead-lettering failures.
func NewKafkaConsumer(cfg *config.Config, dlq *queue.KafkaProducer, lc fx.Lifecycle) (*queue.KafkaConsumer, error) {
	if err := checkKafkaConfig(cfg.KafkaBrokers, cfg.KafkaTopic); err != nil {
		return nil, err
	}
	consumer := queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, archiveGroup, dlq)
	lc.Append(fx.StopHook(consumer.Close))
	return consumer, nil
}

func checkKafkaConfig(brokers []string, topic string) error {
	if len(brokers) == 0 {
		return errors.New("kafka brokers not configured")
	}
	if topic == "" {
		return errors.New("kafka topic not configured")
	}
	return nil
}
