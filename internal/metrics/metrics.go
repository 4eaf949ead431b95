package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the application counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	SocialActions      *prometheus.CounterVec
	BestEffortFailures *prometheus.CounterVec
	CacheFallbacks     *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SocialActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reptrack_social_actions_total",
				Help: "Total number of completed social actions",
			},
			[]string{"action"},
		),
		BestEffortFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reptrack_best_effort_failures_total",
				Help: "Total number of secondary effects that failed after the primary write succeeded",
			},
			[]string{"effect"},
		),
		CacheFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reptrack_cache_fallbacks_total",
				Help: "Total number of reads answered from the local cache because the remote store failed",
			},
			[]string{"entity"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reptrack_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"path", "status"},
		),
	}

	reg.MustRegister(m.SocialActions, m.BestEffortFailures, m.CacheFallbacks, m.HTTPRequests)
	return m
}

func (m *Metrics) SocialAction(action string) {
	if m == nil {
		return
	}
	m.SocialActions.WithLabelValues(action).Inc()
}

func (m *Metrics) BestEffortFailed(effect string) {
	if m == nil {
		return
	}
	m.BestEffortFailures.WithLabelValues(effect).Inc()
}

func (m *Metrics) CacheFallback(entity string) {
	if m == nil {
		return
	}
	m.CacheFallbacks.WithLabelValues(entity).Inc()
}

func (m *Metrics) HTTPRequest(path, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(path, status).Inc()
}
