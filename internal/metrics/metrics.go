package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mosaic_gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPNotModifiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_http_not_modified_total",
			Help: "Gallery responses answered with 304 Not Modified",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mosaic_gallery_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mosaic_gallery_db_transaction_duration_seconds",
			Help:    "Duration of catalog write transactions",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	DBRowsAffected = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mosaic_gallery_db_rows_affected",
			Help:    "Rows affected by write operations",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_gallery_db_connections_open",
			Help: "Number of open database connections",
		},
	)
)

// Pipeline metrics
var (
	TierResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_tier_resolutions_total",
			Help: "Gallery resolutions by size tier and whether the tier was overridden",
		},
		[]string{"tier", "source"}, // source: "breakpoint" or "override"
	)

	FolderResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_folder_resolutions_total",
			Help: "Author to folder resolutions by matching rule",
		},
		[]string{"rule"},
	)

	MergeRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_merge_rows_total",
			Help: "Rows produced by multi-source merges, and rows replaced by the curated source",
		},
		[]string{"kind"}, // "output" or "replaced"
	)

	SourceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_source_failures_total",
			Help: "Catalog sources that failed and were treated as empty",
		},
		[]string{"source"},
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mosaic_gallery_source_fetch_duration_seconds",
			Help:    "Catalog source fetch duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"source"},
	)
)

// Indexer metrics
var (
	IndexerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_indexer_runs_total",
			Help: "Total number of indexer runs",
		},
	)

	IndexerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_gallery_indexer_last_run_timestamp",
			Help: "Unix timestamp of the last completed indexer run",
		},
	)

	IndexerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_gallery_indexer_last_run_duration_seconds",
			Help: "Duration of the last indexer run in seconds",
		},
	)

	IndexerFilesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_indexer_files_processed_total",
			Help: "Total number of images processed by the indexer",
		},
	)

	IndexerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_indexer_errors_total",
			Help: "Total number of indexer errors",
		},
	)

	IndexerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_gallery_indexer_running",
			Help: "Whether the indexer is currently running (1 = running, 0 = idle)",
		},
	)
)

// Rendition metrics
var (
	RenditionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_renditions_total",
			Help: "Renditions written to the origin by tier and status",
		},
		[]string{"tier", "status"}, // status: "rendered", "skipped", "failed"
	)

	RenditionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mosaic_gallery_rendition_duration_seconds",
			Help:    "Time to render one tier of one image",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"backend"},
	)
)

// Catalog metrics
var (
	CatalogImagesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mosaic_gallery_catalog_images",
			Help: "Catalog images by visibility class",
		},
		[]string{"class"}, // "all", "sensitive", "always_shown"
	)

	CatalogAuthorsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_gallery_catalog_authors",
			Help: "Number of photographers in the catalog",
		},
	)
)

// Filesystem metrics
var (
	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_filesystem_stale_errors_total",
			Help: "ESTALE errors seen on NFS-backed paths",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gallery_filesystem_retries_total",
			Help: "Filesystem operations retried after a stale file handle, by outcome",
		},
		[]string{"operation", "volume", "outcome"}, // outcome: "success", "failure"
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_gallery_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_gallery_memory_paused",
			Help: "1 while rendering is paused for memory pressure",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mosaic_gallery_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
