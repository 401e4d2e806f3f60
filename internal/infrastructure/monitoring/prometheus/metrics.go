package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every application-level metric, registered once at startup
// and shared by injection.  Label cardinality is kept deliberately low: the
// category label is bounded by the category table, marketplace by the
// marketplace table, and outcome/status labels by small fixed enumerations.
// The package-level Record helpers accept a nil *AppMetrics and become
// no-ops, so components can run without instrumentation.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPRequestSize     HistogramVec
	HTTPResponseSize    HistogramVec
	HTTPActiveRequests  GaugeVec

	// Scoring layer
	KeywordScoresTotal CounterVec
	ScoringDuration    HistogramVec
	MagnetScoreSpread  HistogramVec

	// Expansion layer
	SuggestionsGenerated CounterVec
	ExpansionDuration    HistogramVec
	SourceRequestsTotal  CounterVec
	SourceRequestLatency HistogramVec

	// Bulk layer
	BulkBatchesTotal  CounterVec
	BulkKeywordsTotal CounterVec
	BulkBatchDuration HistogramVec
	BulkActiveWorkers GaugeVec
	BulkQueueDepth    GaugeVec

	// Report layer
	ReportsBuiltTotal   CounterVec
	ReportBuildDuration HistogramVec
	ReportExportsTotal  CounterVec

	// Infrastructure layer
	DBPoolSize       GaugeVec
	DBPoolActive     GaugeVec
	DBQueryDuration  HistogramVec
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	MQPublishTotal   CounterVec
	MQProcessLatency HistogramVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default histogram buckets per concern.
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultScoreDurationBuckets = []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1}
	DefaultBulkDurationBuckets  = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
	DefaultSourceLatencyBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultSizeBuckets          = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
	DefaultDBDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultMagnetScoreBuckets   = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// NewAppMetrics registers all application metrics against the collector and
// returns the populated struct.  Safe to call more than once on the same
// collector; registration is idempotent per metric name.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPRequestSize = collector.RegisterHistogram("http_request_size_bytes", "HTTP request size", DefaultSizeBuckets, "method", "path")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response size", DefaultSizeBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Scoring
	m.KeywordScoresTotal = collector.RegisterCounter("keyword_scores_total", "Keywords scored", "category", "source")
	m.ScoringDuration = collector.RegisterHistogram("scoring_duration_seconds", "Single-keyword scoring duration", DefaultScoreDurationBuckets, "category")
	m.MagnetScoreSpread = collector.RegisterHistogram("magnet_score", "Distribution of magnet scores", DefaultMagnetScoreBuckets, "category")

	// Expansion
	m.SuggestionsGenerated = collector.RegisterCounter("suggestions_generated_total", "Suggestions generated", "origin")
	m.ExpansionDuration = collector.RegisterHistogram("expansion_duration_seconds", "Seed expansion duration", DefaultBulkDurationBuckets, "origin")
	m.SourceRequestsTotal = collector.RegisterCounter("source_requests_total", "Autocomplete source requests", "marketplace", "status")
	m.SourceRequestLatency = collector.RegisterHistogram("source_request_duration_seconds", "Autocomplete source latency", DefaultSourceLatencyBuckets, "marketplace")

	// Bulk
	m.BulkBatchesTotal = collector.RegisterCounter("bulk_batches_total", "Bulk batches processed", "mode", "status")
	m.BulkKeywordsTotal = collector.RegisterCounter("bulk_keywords_total", "Keywords processed in bulk batches", "outcome")
	m.BulkBatchDuration = collector.RegisterHistogram("bulk_batch_duration_seconds", "Bulk batch duration", DefaultBulkDurationBuckets, "mode")
	m.BulkActiveWorkers = collector.RegisterGauge("bulk_active_workers", "Concurrent bulk analysis workers", "mode")
	m.BulkQueueDepth = collector.RegisterGauge("bulk_queue_depth", "Pending async bulk jobs", "topic")

	// Reports
	m.ReportsBuiltTotal = collector.RegisterCounter("reports_built_total", "Competitor reports built", "status")
	m.ReportBuildDuration = collector.RegisterHistogram("report_build_duration_seconds", "Competitor report build duration", DefaultBulkDurationBuckets)
	m.ReportExportsTotal = collector.RegisterCounter("report_exports_total", "Report archive exports", "status")

	// Infrastructure
	m.DBPoolSize = collector.RegisterGauge("db_pool_size", "Database connection pool size", "db")
	m.DBPoolActive = collector.RegisterGauge("db_pool_active", "Database active connections", "db")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.MQPublishTotal = collector.RegisterCounter("mq_publish_total", "Messages published", "topic", "status")
	m.MQProcessLatency = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultHTTPDurationBuckets, "topic")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// ── Recording helpers ─────────────────────────────────────────────────────────

// RecordHTTPRequest records the standard per-request HTTP metrics.
func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration, reqSize, respSize int64) {
	if m == nil {
		return
	}
	status := strconv.Itoa(statusCode)
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordScore records one scored keyword with its category, origin and magnet
// score.
func RecordScore(m *AppMetrics, category, source string, magnetScore int, duration time.Duration) {
	if m == nil {
		return
	}
	m.KeywordScoresTotal.WithLabelValues(category, source).Inc()
	m.ScoringDuration.WithLabelValues(category).Observe(duration.Seconds())
	m.MagnetScoreSpread.WithLabelValues(category).Observe(float64(magnetScore))
}

// RecordExpansion records one expansion phase and how many suggestions it
// contributed. Origin is "external" for autocomplete entries and "generated"
// for template variants.
func RecordExpansion(m *AppMetrics, origin string, produced int, duration time.Duration) {
	if m == nil {
		return
	}
	m.SuggestionsGenerated.WithLabelValues(origin).Add(float64(produced))
	m.ExpansionDuration.WithLabelValues(origin).Observe(duration.Seconds())
}

// RecordBulkBatch records a finished bulk batch with per-keyword outcomes.
func RecordBulkBatch(m *AppMetrics, mode string, analyzed, failed int, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if failed > 0 {
		status = "partial"
	}
	m.BulkBatchesTotal.WithLabelValues(mode, status).Inc()
	m.BulkKeywordsTotal.WithLabelValues("analyzed").Add(float64(analyzed))
	m.BulkKeywordsTotal.WithLabelValues("failed").Add(float64(failed))
	m.BulkBatchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordReport records one competitor report build. Status is "ok" for a
// populated report and "empty" when expansion found nothing to analyze.
func RecordReport(m *AppMetrics, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ReportsBuiltTotal.WithLabelValues(status).Inc()
	m.ReportBuildDuration.WithLabelValues().Observe(duration.Seconds())
}

// RecordSourceRequest records one autocomplete upstream call.
func RecordSourceRequest(m *AppMetrics, marketplace, status string, latency time.Duration) {
	if m == nil {
		return
	}
	m.SourceRequestsTotal.WithLabelValues(marketplace, status).Inc()
	m.SourceRequestLatency.WithLabelValues(marketplace).Observe(latency.Seconds())
}

// RecordCacheAccess records a cache hit or miss for the named cache.
func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordDBQuery records query duration and counts failures under ErrorsTotal.
func RecordDBQuery(m *AppMetrics, db, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues(db, "query_error").Inc()
	}
}

// RecordError counts an error against a component with its platform code.
func RecordError(m *AppMetrics, component, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
