package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_fetch_requests_total",
			Help: "The total number of GET requests issued to the forge API",
		},
		[]string{"resource", "status"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forge_fetch_duration_seconds",
			Help:    "Duration of forge API requests including body read",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	RecordsExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_exported_total",
			Help: "The total number of records exported",
		},
		[]string{"kind", "status"},
	)

	RecordsUnchangedSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_unchanged_skipped_total",
			Help: "The total number of records not republished because their content hash did not change",
		},
		[]string{"kind"},
	)

	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "export_duration_seconds",
			Help:    "Duration of a single target export",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	WorkerActiveCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_active_count",
			Help: "Number of workers currently processing jobs",
		},
	)

	RecordsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_published_total",
			Help: "Total number of records published to Kafka",
		},
		[]string{"kind"},
	)

	PublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_errors_total",
			Help: "Total number of failed Kafka batch publishes",
		},
		[]string{"kind"},
	)

	DLQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dlq_messages_published_total",
			Help: "Total number of messages published to DLQ",
		},
		[]string{"kind"},
	)

	ArchiveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "archive_duration_seconds",
			Help:    "Duration of archiving a consumed record",
			Buckets: prometheus.DefBuckets,
		},
	)

	ArchiveErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_errors_total",
			Help: "Total number of archive errors",
		},
		[]string{"kind"},
	)

	ArchiveSuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_records_processed_total",
			Help: "Total number of records successfully archived",
		},
		[]string{"kind"},
	)
)
