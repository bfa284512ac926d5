package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/ForgeClient/internal/domain"
	"github.com/ForgeClient/internal/infra/metrics"
)

// RecordConsumer delivers queued records to a handler until its context ends.
type RecordConsumer interface {
	Start(ctx context.Context, handler domain.RecordHandler)
	Close() error
}

// ArchiveService consumes exported records from the queue and hands them to the archive.
type ArchiveService struct {
	consumer RecordConsumer
	archive  domain.Archive
}

func NewArchiveService(consumer RecordConsumer, archive domain.Archive) *ArchiveService {
	return &ArchiveService{
		consumer: consumer,
		archive:  archive,
	}
}

func (s *ArchiveService) Start(ctx context.Context) {
	slog.Info("Starting archive service (Kafka Consumer)")
	go s.consumer.Start(ctx, s.handleEvent)
}

func (s *ArchiveService) handleEvent(ctx context.Context, record *domain.Record) error {
	start := time.Now()
	slog.Debug("Consuming record for archive", "record_id", record.ID, "target", record.Target)

	err := s.archive.Store(ctx, record)
	metrics.ArchiveDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		slog.Error("Failed to archive record", "record_id", record.ID, "error", err)
		metrics.ArchiveErrors.WithLabelValues(record.Kind).Inc()
		return err
	}

	metrics.ArchiveSuccess.WithLabelValues(record.Kind).Inc()
	return nil
}

func (s *ArchiveService) Stop() error {
	return s.consumer.Close()
}
