// Package archive holds the sinks exported records are written to after they
// come off the queue.
package archive

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ForgeClient/internal/domain"
)

var ErrEmptyRecord = errors.New("record has no data")

// LogArchive writes every record as a structured log line and remembers the
// last content hash seen per record ID.
type LogArchive struct {
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]string
}

var _ domain.Archive = (*LogArchive)(nil)

func NewLogArchive(logger *slog.Logger) *LogArchive {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogArchive{
		logger: logger,
		seen:   make(map[string]string),
	}
}

func (a *LogArchive) Store(ctx context.Context, record *domain.Record) error {
	if record == nil || len(record.Data) == 0 {
		return ErrEmptyRecord
	}

	a.mu.Lock()
	prev, ok := a.seen[record.ID]
	a.seen[record.ID] = record.ContentHash
	a.mu.Unlock()

	if ok && prev == record.ContentHash {
		a.logger.DebugContext(ctx, "Record already archived", "id", record.ID)
		return nil
	}

	a.logger.InfoContext(ctx, "Archived record",
		"id", record.ID,
		"kind", record.Kind,
		"target", record.Target,
		"hash", record.ContentHash,
		"data", string(record.Data),
	)
	return nil
}

// Len reports how many distinct records were archived.
func (a *LogArchive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.seen)
}
