package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the indexer.
type Metrics struct {
	// --- Event fold ---
	EventsApplied   *prometheus.CounterVec
	EventsSkipped   *prometheus.CounterVec
	EventDuration   *prometheus.HistogramVec
	LastBlock       *prometheus.GaugeVec
	EventOutOfOrder *prometheus.CounterVec

	// --- Ingestion ---
	IngestMessages   *prometheus.CounterVec
	IngestParseError *prometheus.CounterVec
	NATSPullLatency  *prometheus.HistogramVec

	// --- Channels & backpressure ---
	ChannelSize         *prometheus.GaugeVec
	ChannelCapacity     *prometheus.GaugeVec
	ProjectionDrops     prometheus.Counter
	PersistBackpressure prometheus.Counter

	// --- Token metadata ---
	MetadataLookups   *prometheus.CounterVec
	MetadataCacheHits *prometheus.CounterVec
	MetadataDuration  prometheus.Histogram

	// --- Persistence ---
	PersistRowsWritten *prometheus.CounterVec
	PersistBatchSize   prometheus.Histogram
	PersistBatchDur    prometheus.Histogram
	PersistErrors      *prometheus.CounterVec
	PersistRetry       prometheus.Counter

	// --- Query API ---
	QueryRequests *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	QueryErrors   *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	foldBuckets := []float64{
		0.000001, 0.000005, 0.00001, 0.000025, 0.00005,
		0.0001, 0.00025, 0.0005, 0.001, 0.002, 0.005, 0.01,
	}

	ioBuckets := []float64{
		0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025,
		0.05, 0.1, 0.25, 0.5, 1, 2.5,
	}

	return &Metrics{
		EventsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_events_applied_total",
			Help: "Events successfully folded into entity state",
		}, []string{"chain_id", "event_type"}),

		EventsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_events_skipped_total",
			Help: "Events skipped before mutation (excluded pool, missing state)",
		}, []string{"chain_id", "event_type", "reason"}),

		EventDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pool_event_apply_duration_seconds",
			Help:    "Time to fold a single event",
			Buckets: foldBuckets,
		}, []string{"event_type"}),

		LastBlock: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pool_last_block_number",
			Help: "Block number of the last folded event per chain",
		}, []string{"chain_id"}),

		EventOutOfOrder: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_events_out_of_order_total",
			Help: "Events observed behind the previous block/log position",
		}, []string{"chain_id"}),

		IngestMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_ingest_messages_total",
			Help: "Messages pulled from the event stream",
		}, []string{"chain_id"}),

		IngestParseError: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_ingest_parse_errors_total",
			Help: "Messages dropped because the payload did not parse",
		}, []string{"chain_id", "reason"}),

		NATSPullLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pool_nats_pull_latency_seconds",
			Help:    "NATS fetch round-trip time",
			Buckets: ioBuckets,
		}, []string{"chain_id"}),

		ChannelSize: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pool_channel_size",
			Help: "Current occupancy of internal channels",
		}, []string{"channel"}),

		ChannelCapacity: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pool_channel_capacity",
			Help: "Capacity of internal channels",
		}, []string{"channel"}),

		ProjectionDrops: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pool_projection_drops_total",
			Help: "Outputs dropped on the non-blocking projection channel",
		}),

		PersistBackpressure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pool_persist_backpressure_total",
			Help: "Times the fold blocked on a full persistence channel",
		}),

		MetadataLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_metadata_lookups_total",
			Help: "Token metadata lookups by outcome",
		}, []string{"outcome"}),

		MetadataCacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_metadata_cache_hits_total",
			Help: "Token metadata cache hits by tier",
		}, []string{"tier"}),

		MetadataDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pool_metadata_lookup_duration_seconds",
			Help:    "Token metadata RPC round-trip time",
			Buckets: ioBuckets,
		}),

		PersistRowsWritten: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_persist_rows_written_total",
			Help: "Entity rows upserted into Postgres",
		}, []string{"kind"}),

		PersistBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pool_persist_batch_size",
			Help:    "Entity rows per persistence batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),

		PersistBatchDur: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pool_persist_batch_duration_seconds",
			Help:    "Time to flush a persistence batch",
			Buckets: ioBuckets,
		}),

		PersistErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_persist_errors_total",
			Help: "Persistence failures by kind",
		}, []string{"kind"}),

		PersistRetry: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pool_persist_retries_total",
			Help: "Persistence batch retries",
		}),

		QueryRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_query_requests_total",
			Help: "Query API requests by route",
		}, []string{"route"}),

		QueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pool_query_duration_seconds",
			Help:    "Query API latency by route",
			Buckets: ioBuckets,
		}, []string{"route"}),

		QueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_query_errors_total",
			Help: "Query API errors by route and status",
		}, []string{"route", "status"}),
	}
}
