package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the service's Prometheus collectors. A nil
// *MetricsManager is valid and records nothing.
type MetricsManager struct {
	Registry *prometheus.Registry

	ActiveSessions      prometheus.Gauge
	FilterResults       prometheus.Histogram
	FavoriteToggles     *prometheus.CounterVec
	LoginRequired       *prometheus.CounterVec
	MessagesSent        prometheus.Counter
	AgentReplies        *prometheus.CounterVec
	DescriptionRequests *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPLatency         *prometheus.HistogramVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live browsing sessions.",
		}),
		FilterResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_result_size",
			Help:      "Number of properties visible after a filter change.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		FavoriteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorite_toggles_total",
			Help:      "Favorite toggles by resulting state.",
		}, []string{"favorite"}),
		LoginRequired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_required_total",
			Help:      "Actions rejected because nobody was logged in.",
		}, []string{"action"}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "User messages appended to conversations.",
		}),
		AgentReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_replies_total",
			Help:      "Scheduled agent replies by outcome.",
		}, []string{"outcome"}),
		DescriptionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "description_requests_total",
			Help:      "Description generations by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_latency_seconds",
			Help:      "Latency of HTTP requests by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		m.ActiveSessions,
		m.FilterResults,
		m.FavoriteToggles,
		m.LoginRequired,
		m.MessagesSent,
		m.AgentReplies,
		m.DescriptionRequests,
		m.HTTPRequests,
		m.HTTPLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *MetricsManager) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *MetricsManager) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

func (m *MetricsManager) ObserveFilter(visible int) {
	if m == nil {
		return
	}
	m.FilterResults.Observe(float64(visible))
}

func (m *MetricsManager) FavoriteToggled(favorite bool) {
	if m == nil {
		return
	}
	m.FavoriteToggles.WithLabelValues(strconv.FormatBool(favorite)).Inc()
}

func (m *MetricsManager) LoginRequiredFor(action string) {
	if m == nil {
		return
	}
	m.LoginRequired.WithLabelValues(action).Inc()
}

func (m *MetricsManager) MessageSent() {
	if m == nil {
		return
	}
	m.MessagesSent.Inc()
}

// AgentReply records "delivered" or "dropped".
func (m *MetricsManager) AgentReply(outcome string) {
	if m == nil {
		return
	}
	m.AgentReplies.WithLabelValues(outcome).Inc()
}

// Description records "resolved", "failed" or "discarded".
func (m *MetricsManager) Description(outcome string) {
	if m == nil {
		return
	}
	m.DescriptionRequests.WithLabelValues(outcome).Inc()
}

func (m *MetricsManager) ObserveHTTP(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(method, route).Observe(seconds)
}
