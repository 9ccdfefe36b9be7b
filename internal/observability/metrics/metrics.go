package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                           sync.Once
	metricsRouter                  *chi.Mux
	clientRequestDurationHistogram *prometheus.HistogramVec
	authorityClientLatency         *prometheus.HistogramVec
	derivativeClientLatency        *prometheus.HistogramVec
	hookEventProcessingDuration    *prometheus.HistogramVec
	claimsCreatedCounter           *prometheus.CounterVec
	claimsDestroyedCounter         *prometheus.CounterVec
	helperResolutionConflictCount  prometheus.Counter
	issuanceRollbackCounter        prometheus.Counter
	retirementRollbackCounter      prometheus.Counter
	lockedPositionsGauge           prometheus.Gauge
	pollerDurationHistogram        *prometheus.HistogramVec
	dbLatency                      *prometheus.HistogramVec
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	// client requests are the ones sending to other service
	clientRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_request_duration_seconds",
			Help:    "Histogram of outgoing client request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"baseurl", "method", "path", "status"},
	)

	authorityClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authority_client_latency_seconds",
			Help:    "Histogram of staking authority client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	derivativeClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "derivative_client_latency_seconds",
			Help:    "Histogram of derivative/helper client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	hookEventProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hook_event_processing_duration_seconds",
			Help:    "Authority hook event processing duration in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"event_type", "status"},
	)

	claimsCreatedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_created_total",
			Help: "The total number of claims created, by claim type",
		},
		[]string{"claim_type"},
	)

	claimsDestroyedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_destroyed_total",
			Help: "The total number of claims destroyed, by claim type",
		},
		[]string{"claim_type"},
	)

	helperResolutionConflictCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "helper_resolution_conflict_count",
			Help: "Number of creates rejected due to a forced-default helper conflict",
		},
	)

	issuanceRollbackCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "issuance_rollback_count",
			Help: "Number of outstanding flags rolled back after a failed issuance call",
		},
	)

	retirementRollbackCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "retirement_rollback_count",
			Help: "Number of outstanding flags restored after a failed retirement call",
		},
	)

	lockedPositionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "locked_positions_count",
			Help: "Number of positions with at least one outstanding claim",
		},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	prometheus.MustRegister(
		clientRequestDurationHistogram,
		authorityClientLatency,
		derivativeClientLatency,
		hookEventProcessingDuration,
		claimsCreatedCounter,
		claimsDestroyedCounter,
		helperResolutionConflictCount,
		issuanceRollbackCounter,
		retirementRollbackCounter,
		lockedPositionsGauge,
		pollerDurationHistogram,
		dbLatency,
	)
}

func outcomeOf(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

func RecordAuthorityClientLatency(d time.Duration, method string, failure bool) {
	if authorityClientLatency == nil {
		return
	}
	authorityClientLatency.WithLabelValues(method, outcomeOf(failure).String()).Observe(d.Seconds())
}

func RecordDerivativeClientLatency(d time.Duration, method string, failure bool) {
	if derivativeClientLatency == nil {
		return
	}
	derivativeClientLatency.WithLabelValues(method, outcomeOf(failure).String()).Observe(d.Seconds())
}

func ObserveDbLatency(method string, d time.Duration, success bool) {
	if dbLatency == nil {
		return
	}
	dbLatency.WithLabelValues(method, outcomeOf(!success).String()).Observe(d.Seconds())
}

func ObserveHookEventProcessing(eventType string, d time.Duration, failure bool) {
	if hookEventProcessingDuration == nil {
		return
	}
	hookEventProcessingDuration.WithLabelValues(eventType, outcomeOf(failure).String()).Observe(d.Seconds())
}

func RecordClaimCreated(claimType uint8) {
	if claimsCreatedCounter == nil {
		return
	}
	claimsCreatedCounter.WithLabelValues(strconv.Itoa(int(claimType))).Inc()
}

func RecordClaimDestroyed(claimType uint8) {
	if claimsDestroyedCounter == nil {
		return
	}
	claimsDestroyedCounter.WithLabelValues(strconv.Itoa(int(claimType))).Inc()
}

func RecordHelperResolutionConflict() {
	if helperResolutionConflictCount == nil {
		return
	}
	helperResolutionConflictCount.Inc()
}

func RecordIssuanceRollback() {
	if issuanceRollbackCounter == nil {
		return
	}
	issuanceRollbackCounter.Inc()
}

func RecordRetirementRollback() {
	if retirementRollbackCounter == nil {
		return
	}
	retirementRollbackCounter.Inc()
}

func SetLockedPositions(count int64) {
	if lockedPositionsGauge == nil {
		return
	}
	lockedPositionsGauge.Set(float64(count))
}

func ObservePollerDuration(pollerType string, d time.Duration, failure bool) {
	if pollerDurationHistogram == nil {
		return
	}
	pollerDurationHistogram.WithLabelValues(pollerType, outcomeOf(failure).String()).Observe(d.Seconds())
}

// RecordClientRequestDuration records the duration of a generic outgoing
// HTTP request.
func RecordClientRequestDuration(baseUrl, method, path string, statusCode int, d time.Duration) {
	if clientRequestDurationHistogram == nil {
		return
	}
	clientRequestDurationHistogram.
		WithLabelValues(baseUrl, method, path, strconv.Itoa(statusCode)).
		Observe(d.Seconds())
}
