package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersRegisterAndIncrement(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SocialAction("like")
	m.SocialAction("like")
	m.BestEffortFailed("like_counter")
	m.CacheFallback("programs")
	m.HTTPRequest("/api/v1/feed", "200")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SocialActions.WithLabelValues("like")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BestEffortFailures.WithLabelValues("like_counter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheFallbacks.WithLabelValues("programs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/v1/feed", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SocialAction("like")
		m.BestEffortFailed("notification")
		m.CacheFallback("users")
		m.HTTPRequest("/", "500")
	})
}
