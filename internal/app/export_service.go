package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ForgeClient/internal/domain"
	"github.com/ForgeClient/internal/infra/metrics"
	"github.com/ForgeClient/pkg/logging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ExportService periodically collects every target, stores the records and publishes
// the ones whose content changed. Each target is fetched by at most one worker at a time.
type ExportService struct {
	client        *Client
	repo          domain.Repository
	eventProducer domain.EventProducer
	targets       []Target
	interval      time.Duration
	workerCount   int
	jobs          chan job
	wg            sync.WaitGroup
	activeTargets sync.Map
	sampler       *logging.ErrorSampler
	now           func() time.Time
}

type job struct {
	target Target
}

func NewExportService(
	client *Client,
	repo domain.Repository,
	eventProducer domain.EventProducer,
	targets []Target,
	interval time.Duration,
	workerCount int,
) *ExportService {
	return &ExportService{
		client:        client,
		repo:          repo,
		eventProducer: eventProducer,
		targets:       targets,
		interval:      interval,
		workerCount:   workerCount,
		jobs:          make(chan job, workerCount*2),
		sampler:       logging.NewErrorSampler(10),
		now:           time.Now,
	}
}

func (s *ExportService) Start(ctx context.Context) {
	slog.Info("Starting export service", "interval", s.interval, "workers", s.workerCount, "targets", len(s.targets))

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	var targetsWg sync.WaitGroup
	for _, target := range s.targets {
		targetsWg.Add(1)
		go s.runTargetLoop(ctx, target, &targetsWg)
	}

	<-ctx.Done()
	slog.Info("Context cancelled, stopping export service...")

	targetsWg.Wait()
	close(s.jobs)

	s.wg.Wait()
	slog.Info("All workers stopped")
}

func (s *ExportService) runTargetLoop(ctx context.Context, t Target, wg *sync.WaitGroup) {
	defer wg.Done()

	select {
	case s.jobs <- job{target: t}:
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case s.jobs <- job{target: t}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *ExportService) worker(ctx context.Context, id int) {
	defer s.wg.Done()
	slog.Info("Worker started", "worker_id", id)

	for j := range s.jobs {
		name := j.target.String()
		if _, loaded := s.activeTargets.LoadOrStore(name, true); loaded {
			slog.Warn("Skipping concurrent run", "target", name, "worker_id", id)
			continue
		}

		metrics.WorkerActiveCount.Inc()
		func() {
			defer s.activeTargets.Delete(name)
			if err := s.ExportTarget(ctx, j.target); err != nil {
				s.logExportError(j.target, err)
			}
		}()
		metrics.WorkerActiveCount.Dec()
	}
	slog.Info("Worker stopped", "worker_id", id)
}

// ExportOnce exports every target sequentially and returns the first error.
// Remaining targets are still exported after a failure.
func (s *ExportService) ExportOnce(ctx context.Context) error {
	var firstErr error
	for _, t := range s.targets {
		if err := s.ExportTarget(ctx, t); err != nil {
			s.logExportError(t, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ExportTarget collects one target and stores/publishes its records.
func (s *ExportService) ExportTarget(ctx context.Context, t Target) error {
	tr := otel.Tracer("forge-client")
	ctx, span := tr.Start(ctx, "exportTarget")
	defer span.End()

	runID := uuid.NewString()
	span.SetAttributes(attribute.String("target", t.String()), attribute.String("run_id", runID))
	slog.Debug("Exporting target", "target", t.String(), "run_id", runID)

	start := s.now()
	records, err := s.client.Collect(ctx, t, start)
	if err != nil {
		span.RecordError(err)
		metrics.RecordsExported.WithLabelValues(t.Kind, "error_fetch").Inc()
		return fmt.Errorf("collect %s: %w", t, err)
	}
	if failures := s.sampler.Recover(t.String()); failures > 0 {
		slog.Info("Target recovered", "target", t.String(), "failed_runs", failures)
	}

	if err := s.processBatch(ctx, t, records); err != nil {
		span.RecordError(err)
		return err
	}
	metrics.ExportDuration.WithLabelValues(t.Kind).Observe(time.Since(start).Seconds())
	slog.Info("Exported target", "target", t.String(), "run_id", runID, "records", len(records))
	return nil
}

func (s *ExportService) processBatch(ctx context.Context, t Target, records []domain.Record) error {
	// Dedup within batch; the same key can appear twice in a search result.
	unique := make([]domain.Record, 0, len(records))
	seen := make(map[string]bool)
	for _, r := range records {
		if !seen[r.ID] {
			seen[r.ID] = true
			unique = append(unique, r)
		}
	}
	records = unique

	if len(records) == 0 {
		return nil
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}

	existingHashes, err := s.repo.GetContentHashes(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch hashes: %w", err)
	}

	var changed []domain.Record
	skipped := 0
	for _, r := range records {
		if old, exists := existingHashes[r.ID]; exists && old == r.ContentHash {
			skipped++
			continue
		}
		changed = append(changed, r)
	}
	if skipped > 0 {
		metrics.RecordsUnchangedSkipped.WithLabelValues(t.Kind).Add(float64(skipped))
	}

	if err := s.repo.BulkUpsert(ctx, records); err != nil {
		metrics.RecordsExported.WithLabelValues(t.Kind, "error_store").Inc()
		return fmt.Errorf("bulk upsert failed: %w", err)
	}
	metrics.RecordsExported.WithLabelValues(t.Kind, "success").Add(float64(len(records)))

	if len(changed) == 0 {
		return nil
	}

	slog.Info("Publishing changed records", "count", len(changed), "target", t.String())
	if err := s.eventProducer.PublishBatch(ctx, changed); err != nil {
		// The records are already stored; the next cycle will not republish them.
		slog.Error("Error publishing record batch", "count", len(changed), "error", err)
		metrics.PublishErrors.WithLabelValues(t.Kind).Inc()
		return nil
	}
	metrics.RecordsPublished.WithLabelValues(t.Kind).Add(float64(len(changed)))
	return nil
}

func (s *ExportService) logExportError(t Target, err error) {
	key := t.String()
	if logged, suppressed := s.sampler.Observe(key); logged {
		slog.Error("Export failed", "target", key, "error", err,
			"failures", s.sampler.Failures(key), "suppressed", suppressed)
	}
}
