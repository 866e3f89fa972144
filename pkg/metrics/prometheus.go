// Package metrics provides Prometheus metrics for the expenses client.
package metrics

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess     = "success"
	OutcomeStatusError = "status_error"
	OutcomeFailure     = "failure"
)

// ErrNoTextfile is returned when a textfile export is requested without a path.
var ErrNoTextfile = errors.New("metrics textfile path is empty")

// Manager owns the client metrics and the registry they live on.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responseStatus  *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
}

// NewManager creates a metrics manager on a private registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "expenses",
		subsystem:        "client",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.requests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "requests_total",
			Help:        "Total number of API calls by operation, method and outcome",
			ConstLabels: m.constLabels,
		},
		[]string{"operation", "method", "outcome"},
	)

	m.requestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "request_duration_seconds",
			Help:        "API call latency in seconds by operation",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"operation"},
	)

	m.responseStatus = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "responses_total",
			Help:        "Responses received by HTTP status code",
			ConstLabels: m.constLabels,
		},
		[]string{"status_code"},
	)

	m.eventsPublished = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "events_published_total",
			Help:        "Mutation events handed to publishers by outcome",
			ConstLabels: m.constLabels,
		},
		[]string{"outcome"},
	)
}

// ObserveRequest records one API call.
func (m *Manager) ObserveRequest(operation, method string, statusCode int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	operation = labelValue(operation)
	method = labelValue(strings.ToUpper(method))

	m.requests.WithLabelValues(operation, method, outcome(statusCode, err)).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if statusCode > 0 {
		m.responseStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	}
}

// ObservePublish records the delivery result of one mutation event.
func (m *Manager) ObservePublish(delivered int, err error) {
	if m == nil {
		return
	}
	switch {
	case err == nil:
		m.eventsPublished.WithLabelValues(OutcomeSuccess).Inc()
	case delivered > 0:
		m.eventsPublished.WithLabelValues("partial").Inc()
	default:
		m.eventsPublished.WithLabelValues(OutcomeFailure).Inc()
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes the current metrics in the node exporter textfile format.
func (m *Manager) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrNoTextfile
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func outcome(statusCode int, err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case statusCode > 0:
		return OutcomeStatusError
	default:
		return OutcomeFailure
	}
}

func labelValue(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return "unknown"
	}
	return v
}
