package domain

import "context"

// RecordWriter handles exported record persistence.
type RecordWriter interface {
	BulkUpsert(ctx context.Context, records []Record) error
}

// RecordReader handles exported record retrieval.
type RecordReader interface {
	GetLatest(ctx context.Context, target string) (*Record, error)
}

// HashReader handles content hash retrieval for deduplication.
type HashReader interface {
	GetContentHashes(ctx context.Context, ids []string) (map[string]string, error)
}

// Repository is the composite storage port used by the export service.
type Repository interface {
	RecordWriter
	RecordReader
	HashReader
}

// EventProducer publishes exported records to a queue.
type EventProducer interface {
	Publish(ctx context.Context, record *Record) error
	PublishBatch(ctx context.Context, records []Record) error
	Close() error
}

// Archive is the downstream system that receives records consumed from the queue.
type Archive interface {
	Store(ctx context.Context, record *Record) error
}

// RecordHandler processes one record consumed from the queue.
type RecordHandler func(ctx context.Context, record *Record) error
