package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.Received()
	m.Received()
	m.Duplicate()
	m.IgnoredBot()
	m.Matched("rent")
	m.Sent("rent")
	m.Failed("rent", "forbidden")
	m.RateLimited()
	m.Retried()
	m.AuditFailed("rent")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesReceived))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DuplicatesDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BotMessagesIgnored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Matches.WithLabelValues("rent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("rent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed.WithLabelValues("rent", "forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitWaits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SendRetries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditWriteErrors.WithLabelValues("rent")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Received()
		m.Duplicate()
		m.Matched("g")
		m.Failed("g", "r")
		m.AuditFailed("g")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Matched("rent")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `keyword_monitor_matches_total{group="rent"} 1`)
}

func TestMetrics_PrivateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
