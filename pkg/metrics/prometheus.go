// Package metrics provides Prometheus metrics for the hbelo rating engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the rating engine.
type Manager struct {
	namespace    string
	subsystem    string
	deltaBuckets []float64
	constLabels  map[string]string
	registry     prometheus.Registerer

	// Engine throughput
	matchesProcessed *prometheus.CounterVec
	matchesSkipped   *prometheus.CounterVec
	actionsApplied   prometheus.Counter
	actionsDropped   *prometheus.CounterVec
	seasonDuration   *prometheus.HistogramVec

	// Rating behaviour
	ratingDelta       *prometheus.HistogramVec
	contextMultiplier prometheus.Histogram
	goalkeeperChanges *prometheus.CounterVec
	playersTracked    *prometheus.GaugeVec
	teamsTracked      *prometheus.GaugeVec

	// Orchestration
	refreshRuns     *prometheus.CounterVec
	sinkWrites      *prometheus.CounterVec
	workerBusy      prometheus.Gauge
	leaderboardSize *prometheus.GaugeVec
	queueDepth      prometheus.Gauge
	queueRejected   *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "hbelo",
		subsystem:    "engine",
		deltaBuckets: []float64{-16, -8, -4, -2, -1, -0.25, 0, 0.25, 1, 2, 4, 8, 16},
		constLabels:  map[string]string{},
		registry:     prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.matchesProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches_processed_total",
		Help:        "Matches applied to a rating store",
		ConstLabels: m.constLabels,
	}, []string{"league"})

	m.matchesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches_skipped_total",
		Help:        "Matches skipped in their entirety, by reason",
		ConstLabels: m.constLabels,
	}, []string{"league", "reason"})

	m.actionsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "actions_applied_total",
		Help:        "Resolved actions applied by the player rating updater",
		ConstLabels: m.constLabels,
	})

	m.actionsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "actions_dropped_total",
		Help:        "Events or actions dropped during normalization (data quality)",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.seasonDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "season_duration_seconds",
		Help:        "Wall time spent rating one season",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: m.constLabels,
	}, []string{"league"})

	m.ratingDelta = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rating_delta",
		Help:        "Distribution of applied rating deltas",
		Buckets:     m.deltaBuckets,
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.contextMultiplier = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "context_multiplier",
		Help:        "Distribution of context importance multipliers",
		Buckets:     []float64{0.4, 0.8, 1.0, 1.2, 1.5, 2.0, 2.5, 3.0, 4.0, 5.0},
		ConstLabels: m.constLabels,
	})

	m.goalkeeperChanges = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "goalkeeper_transitions_total",
		Help:        "Goalkeeper promotions and demotions",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.playersTracked = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players_tracked",
		Help:        "Players in the latest rating table",
		ConstLabels: m.constLabels,
	}, []string{"league"})

	m.teamsTracked = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "teams_tracked",
		Help:        "Teams in the latest rating table",
		ConstLabels: m.constLabels,
	}, []string{"league"})

	m.refreshRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_runs_total",
		Help:        "League refresh runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"league", "outcome"})

	m.sinkWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sink_rows_written_total",
		Help:        "Rows persisted by the rating sink, by table",
		ConstLabels: m.constLabels,
	}, []string{"table"})

	m.workerBusy = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "workers_busy",
		Help:        "League workers currently running a job",
		ConstLabels: m.constLabels,
	})

	m.leaderboardSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "leaderboard_entries",
		Help:        "Entries in the ranked leaderboard index",
		ConstLabels: m.constLabels,
	}, []string{"league"})

	m.queueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_queue_depth",
		Help:        "League refresh jobs waiting for a worker",
		ConstLabels: m.constLabels,
	})

	m.queueRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_queue_rejected_total",
		Help:        "League refresh jobs rejected by the queue, by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_seconds",
		Help:        "HTTP request duration in seconds",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status"})
}

// RecordMatchProcessed increments the processed matches counter.
func RecordMatchProcessed(league string) {
	globalManager.matchesProcessed.WithLabelValues(league).Inc()
}

// RecordMatchSkipped increments the skipped matches counter.
func RecordMatchSkipped(league, reason string) {
	globalManager.matchesSkipped.WithLabelValues(league, reason).Inc()
}

// RecordActionApplied increments the applied actions counter.
func RecordActionApplied() {
	globalManager.actionsApplied.Inc()
}

// RecordActionDropped increments the dropped actions counter.
func RecordActionDropped(reason string) {
	globalManager.actionsDropped.WithLabelValues(reason).Inc()
}

// RecordSeasonDuration observes the time spent on one season in seconds.
func RecordSeasonDuration(league string, seconds float64) {
	globalManager.seasonDuration.WithLabelValues(league).Observe(seconds)
}

// RecordRatingDelta observes an applied delta. kind is player, spillover or team.
func RecordRatingDelta(kind string, delta float64) {
	globalManager.ratingDelta.WithLabelValues(kind).Observe(delta)
}

// RecordContextMultiplier observes a context importance multiplier.
func RecordContextMultiplier(v float64) {
	globalManager.contextMultiplier.Observe(v)
}

// RecordGoalkeeperTransition counts a promotion or demotion.
func RecordGoalkeeperTransition(kind string) {
	globalManager.goalkeeperChanges.WithLabelValues(kind).Inc()
}

// UpdatePlayersTracked sets the player table size for a league.
func UpdatePlayersTracked(league string, n int) {
	globalManager.playersTracked.WithLabelValues(league).Set(float64(n))
}

// UpdateTeamsTracked sets the team table size for a league.
func UpdateTeamsTracked(league string, n int) {
	globalManager.teamsTracked.WithLabelValues(league).Set(float64(n))
}

// RecordRefresh counts a league refresh by outcome (ok, error).
func RecordRefresh(league, outcome string) {
	globalManager.refreshRuns.WithLabelValues(league, outcome).Inc()
}

// RecordSinkRows adds persisted rows for a table.
func RecordSinkRows(table string, n int) {
	globalManager.sinkWrites.WithLabelValues(table).Add(float64(n))
}

// UpdateWorkersBusy sets the number of busy league workers.
func UpdateWorkersBusy(n int) {
	globalManager.workerBusy.Set(float64(n))
}

// UpdateLeaderboardSize sets the leaderboard index size for a league.
func UpdateLeaderboardSize(league string, n int) {
	globalManager.leaderboardSize.WithLabelValues(league).Set(float64(n))
}

// UpdateQueueDepth sets the number of queued refresh jobs.
func UpdateQueueDepth(n int) {
	globalManager.queueDepth.Set(float64(n))
}

// RecordQueueRejected counts a refresh job the queue did not accept.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
