package factory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ForgeClient/internal/app"
	"github.com/ForgeClient/internal/domain"
	"github.com/ForgeClient/internal/infra/archive"
	"github.com/ForgeClient/internal/infra/queue"
	"github.com/ForgeClient/internal/infra/repository"
	"github.com/ForgeClient/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
)

const maxWorkers = 100

// NewMongoRepository stores exported records in MONGO_DB_NAME.MONGO_COLLECTION.
func NewMongoRepository(client *mongo.Client, cfg *config.Config) (domain.Repository, error) {
	switch {
	case cfg.MongoDBName == "":
		return nil, errors.New("mongo database name not configured")
	case cfg.MongoColl == "":
		return nil, errors.New("mongo collection name not configured")
	}
	return repository.NewMongoRepository(client, cfg.MongoDBName, cfg.MongoColl)
}

func NewArchive() domain.Archive {
	return archive.NewLogArchive(slog.Default().With("component", "archive"))
}

// NewEventProducer exposes the records producer through the domain port.
func NewEventProducer(p *queue.KafkaProducer) (domain.EventProducer, error) {
	if p == nil {
		return nil, errors.New("kafka producer is nil")
	}
	return p, nil
}

func NewExportService(
	client *app.Client,
	repo domain.Repository,
	targets []app.Target,
	producer domain.EventProducer,
	cfg *config.Config,
) (*app.ExportService, error) {
	switch {
	case repo == nil:
		return nil, errors.New("repository is nil")
	case producer == nil:
		return nil, errors.New("event producer is nil")
	case len(targets) == 0:
		return nil, errors.New("no export targets")
	case cfg.PollInterval <= 0:
		return nil, fmt.Errorf("invalid poll interval: %s", cfg.PollInterval)
	case cfg.WorkerPoolSize < 1 || cfg.WorkerPoolSize > maxWorkers:
		return nil, fmt.Errorf("invalid worker pool size: %d (must be 1-%d)", cfg.WorkerPoolSize, maxWorkers)
	}
	return app.NewExportService(client, repo, producer, targets, cfg.PollInterval, cfg.WorkerPoolSize), nil
}

func NewArchiveService(consumer *queue.KafkaConsumer, a domain.Archive) (*app.ArchiveService, error) {
	if consumer == nil || a == nil {
		return nil, errors.New("archive service needs a consumer and an archive")
	}
	return app.NewArchiveService(consumer, a), nil
}
