package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// KillBillMetrics holds the Prometheus metrics for calls made to the Kill Bill API.
type KillBillMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TransportErrors prometheus.Counter
	PluginCacheHits prometheus.Counter
	PluginCacheMiss prometheus.Counter
}

var killBill = newKillBillMetrics()

func newKillBillMetrics() *KillBillMetrics {
	return &KillBillMetrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kaui",
			Subsystem: "killbill",
			Name:      "requests_total",
			Help:      "Total number of Kill Bill API requests by method and response status.",
		}, []string{"method", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kaui",
			Subsystem: "killbill",
			Name:      "request_duration_seconds",
			Help:      "Latency of Kill Bill API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		TransportErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "kaui",
			Subsystem: "killbill",
			Name:      "transport_errors_total",
			Help:      "Total number of Kill Bill API requests that never got a response.",
		}),
		PluginCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "kaui",
			Subsystem: "killbill",
			Name:      "plugin_cache_hits_total",
			Help:      "Total number of plugin availability lookups served from cache.",
		}),
		PluginCacheMiss: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "kaui",
			Subsystem: "killbill",
			Name:      "plugin_cache_misses_total",
			Help:      "Total number of plugin availability lookups that hit Kill Bill.",
		}),
	}
}

// KillBill returns the process wide Kill Bill metrics.
func KillBill() *KillBillMetrics {
	return killBill
}

// ObserveRequest records one answered Kill Bill request.
func (m *KillBillMetrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
