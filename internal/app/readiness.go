package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Check is a named dependency probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// ReadinessWaiter polls each check in order until it passes or the context ends.
type ReadinessWaiter struct {
	interval time.Duration
	checks   []Check
}

func NewReadinessWaiter(interval time.Duration, checks ...Check) *ReadinessWaiter {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &ReadinessWaiter{interval: interval, checks: checks}
}

func (w *ReadinessWaiter) WaitForDependencies(ctx context.Context) error {
	for _, c := range w.checks {
		if err := w.waitFor(ctx, c); err != nil {
			return fmt.Errorf("waiting for %s: %w", c.Name, err)
		}
	}
	return nil
}

// waitFor has no deadline of its own; dependencies may be slow to start in development.
func (w *ReadinessWaiter) waitFor(ctx context.Context, c Check) error {
	slog.Info("Waiting for dependency", "dependency", c.Name)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.Probe(ctx); err != nil {
				slog.Warn("Dependency not ready yet", "dependency", c.Name, "error", err)
				continue
			}
			slog.Info("Dependency is ready", "dependency", c.Name)
			return nil
		}
	}
}

func MongoCheck(client *mongo.Client) Check {
	return Check{
		Name: "mongodb",
		Probe: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}
}

func KafkaCheck(brokers []string, topic string) Check {
	return Check{
		Name: "kafka",
		Probe: func(ctx context.Context) error {
			return checkKafka(brokers, topic)
		},
	}
}

func checkKafka(brokers []string, topic string) error {
	if len(brokers) == 0 {
		return fmt.Errorf("no brokers configured")
	}
	for _, broker := range brokers {
		conn, err := net.DialTimeout("tcp", broker, 2*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to broker %s: %w", broker, err)
		}
		_ = conn.Close()
	}

	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	partitions, err := conn.ReadPartitions(topic)
	if err != nil {
		return fmt.Errorf("failed to read partitions for topic %s: %w", topic, err)
	}
	if len(partitions) == 0 {
		return fmt.Errorf("topic %s has no partitions", topic)
	}
	return nil
}
