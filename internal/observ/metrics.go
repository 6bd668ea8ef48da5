package observ

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lalith-99/skillswap/internal/models"
)

// Metrics holds every collector the service exports. Each instance has
// its own registry, so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	listingsPosted prometheus.Counter
	requestsPosted prometheus.Counter
	messagesStored *prometheus.CounterVec
	storeFallbacks *prometheus.CounterVec
	notifications  *prometheus.CounterVec
	httpRequests   *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		listingsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "listings_posted_total",
			Help:      "Listings published.",
		}),
		requestsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "requests_posted_total",
			Help:      "Help requests published.",
		}),
		messagesStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "messages_stored_total",
			Help:      "Inbox messages appended, by status.",
		}, []string{"status"}),
		storeFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "store_fallbacks_total",
			Help:      "State keys that loaded as their default, by key and reason.",
		}, []string{"key", "reason"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "notifications_total",
			Help:      "Notifications by notifier and outcome.",
		}, []string{"notifier", "outcome"}),
		httpRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skillswap",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.listingsPosted,
		m.requestsPosted,
		m.messagesStored,
		m.storeFallbacks,
		m.notifications,
		m.httpRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ListingPosted() { m.listingsPosted.Inc() }
func (m *Metrics) RequestPosted() { m.requestsPosted.Inc() }

func (m *Metrics) MessageStored(status models.MessageStatus) {
	m.messagesStored.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) StoreFallback(key, reason string) {
	m.storeFallbacks.WithLabelValues(key, reason).Inc()
}

func (m *Metrics) Notification(notifier, outcome string) {
	m.notifications.WithLabelValues(notifier, outcome).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, took time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(took.Seconds())
}
