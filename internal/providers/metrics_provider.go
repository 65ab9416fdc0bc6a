package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pad/internal/structures"
)

// EngineStats is the small slice of the presence service the gauge
// functions read from.
type EngineStats interface {
	GetBufferSize() int
	PingCount() int
	UserCount() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncRefreshes()
	ObserveRefreshDuration(duration time.Duration)
	AddRowsRejected(count int)
	AddVipNotifications(count int)
	SetOnlineUsers(count int)
	SetGhostUsers(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	refreshesTotal      prometheus.Counter
	refreshDuration     prometheus.Histogram
	rowsRejected        prometheus.Counter
	vipNotifications    prometheus.Counter
	onlineUsers         prometheus.Gauge
	ghostUsers          prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncRefreshes() {
	m.refreshesTotal.Inc()
}

func (m *MetricsProvider) ObserveRefreshDuration(duration time.Duration) {
	m.refreshDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) AddRowsRejected(count int) {
	m.rowsRejected.Add(float64(count))
}

func (m *MetricsProvider) AddVipNotifications(count int) {
	m.vipNotifications.Add(float64(count))
}

func (m *MetricsProvider) SetOnlineUsers(count int) {
	m.onlineUsers.Set(float64(count))
}

func (m *MetricsProvider) SetGhostUsers(count int) {
	m.ghostUsers.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, stats EngineStats) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pad_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pad_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pad_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pad_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pad_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		refreshesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pad_refreshes_total",
			Help: "Total number of pipeline refreshes",
		}),

		refreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pad_refresh_duration_seconds",
			Help:    "Duration of pipeline refreshes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		rowsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pad_rows_rejected_total",
			Help: "Total number of feed rows dropped at the ingest boundary",
		}),

		vipNotifications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pad_vip_notifications_total",
			Help: "Total number of VIP online notifications emitted",
		}),

		onlineUsers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pad_users_online",
			Help: "Users in the latest polling block",
		}),

		ghostUsers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pad_users_ghost",
			Help: "Users present a polling cycle ago but absent now",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "pad_buffer_size",
		Help: "Current number of pings in the active ingest buffer",
	}, func() float64 {
		return float64(stats.GetBufferSize())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "pad_pings_total",
		Help: "Total number of pings in the materialized snapshot",
	}, func() float64 {
		return float64(stats.PingCount())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "pad_users_total",
		Help: "Distinct users in the materialized snapshot",
	}, func() float64 {
		return float64(stats.UserCount())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncRefreshes()                                    {}
func (n *noopMetrics) ObserveRefreshDuration(_ time.Duration)           {}
func (n *noopMetrics) AddRowsRejected(_ int)                            {}
func (n *noopMetrics) AddVipNotifications(_ int)                        {}
func (n *noopMetrics) SetOnlineUsers(_ int)                             {}
func (n *noopMetrics) SetGhostUsers(_ int)                              {}
