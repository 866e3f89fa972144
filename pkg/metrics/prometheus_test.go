package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequestCountsOutcomes(t *testing.T) {
	m := NewManager()

	m.ObserveRequest("get_expenses", "get", 200, 20*time.Millisecond, nil)
	m.ObserveRequest("get_expenses", "GET", 404, 5*time.Millisecond, errors.New("not found"))
	m.ObserveRequest("post_expense", "POST", 0, time.Millisecond, errors.New("dial tcp"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("get_expenses", "GET", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("get_expenses", "GET", OutcomeStatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("post_expense", "POST", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.responseStatus.WithLabelValues("404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestObserveRequestBlankLabels(t *testing.T) {
	m := NewManager(WithNamespace("test"))
	m.ObserveRequest(" ", "", 204, 0, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unknown", "unknown", OutcomeSuccess)))
}

func TestObservePublish(t *testing.T) {
	m := NewManager()
	m.ObservePublish(2, nil)
	m.ObservePublish(1, errors.New("one failed"))
	m.ObservePublish(0, errors.New("all failed"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues(OutcomeFailure)))
}

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager
	m.ObserveRequest("x", "GET", 200, time.Millisecond, nil)
	m.ObservePublish(0, nil)
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("ignored"))
}

func TestOptionsApply(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithRegistry(reg),
		WithNamespace("acme"),
		WithSubsystem("api"),
		WithHistogramBuckets([]float64{0.1, 1}),
		WithConstLabels(map[string]string{"profile": "staging"}),
	)
	m.ObserveRequest("get_settings", "GET", 200, time.Millisecond, nil)

	require.Same(t, reg, m.Registry())
	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "acme_api_requests_total")
	assert.Contains(t, names, "acme_api_request_duration_seconds")
}

func TestWriteTextfile(t *testing.T) {
	m := NewManager()
	m.ObserveRequest("get_uploads", "GET", 200, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "expenses.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `expenses_client_requests_total{method="GET",operation="get_uploads",outcome="success"} 1`))

	assert.ErrorIs(t, m.WriteTextfile("  "), ErrNoTextfile)
}
