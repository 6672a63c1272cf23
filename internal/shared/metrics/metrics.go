package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the keyword monitor.
// Every method is safe to call on a nil receiver so components can run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Inbound
	MessagesReceived   prometheus.Counter
	DuplicatesDropped  prometheus.Counter
	BotMessagesIgnored prometheus.Counter

	// Matching
	Matches *prometheus.CounterVec

	// Delivery
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
	RateLimitWaits      prometheus.Counter
	SendRetries         prometheus.Counter

	// Audit
	AuditWriteErrors *prometheus.CounterVec
}

// New creates metrics registered on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		MessagesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "keyword_monitor_messages_received_total",
			Help: "Total number of inbound messages handed to the pipeline",
		}),
		DuplicatesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "keyword_monitor_duplicates_dropped_total",
			Help: "Total number of inbound messages dropped as duplicates",
		}),
		BotMessagesIgnored: factory.NewCounter(prometheus.CounterOpts{
			Name: "keyword_monitor_bot_messages_ignored_total",
			Help: "Total number of inbound messages skipped because the sender is a bot",
		}),
		Matches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyword_monitor_matches_total",
				Help: "Total number of keyword matches",
			},
			[]string{"group"},
		),
		NotificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyword_monitor_notifications_sent_total",
				Help: "Total number of alerts delivered to target channels",
			},
			[]string{"group"},
		),
		NotificationsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyword_monitor_notifications_failed_total",
				Help: "Total number of alerts that could not be delivered",
			},
			[]string{"group", "reason"},
		),
		RateLimitWaits: factory.NewCounter(prometheus.CounterOpts{
			Name: "keyword_monitor_rate_limit_waits_total",
			Help: "Total number of provider rate-limit pauses",
		}),
		SendRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "keyword_monitor_send_retries_total",
			Help: "Total number of send retries after transient failures",
		}),
		AuditWriteErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyword_monitor_audit_write_errors_total",
				Help: "Total number of audit records that failed to be written",
			},
			[]string{"group"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Received() {
	if m != nil {
		m.MessagesReceived.Inc()
	}
}

func (m *Metrics) Duplicate() {
	if m != nil {
		m.DuplicatesDropped.Inc()
	}
}

func (m *Metrics) IgnoredBot() {
	if m != nil {
		m.BotMessagesIgnored.Inc()
	}
}

func (m *Metrics) Matched(group string) {
	if m != nil {
		m.Matches.WithLabelValues(group).Inc()
	}
}

func (m *Metrics) Sent(group string) {
	if m != nil {
		m.NotificationsSent.WithLabelValues(group).Inc()
	}
}

func (m *Metrics) Failed(group, reason string) {
	if m != nil {
		m.NotificationsFailed.WithLabelValues(group, reason).Inc()
	}
}

func (m *Metrics) RateLimited() {
	if m != nil {
		m.RateLimitWaits.Inc()
	}
}

func (m *Metrics) Retried() {
	if m != nil {
		m.SendRetries.Inc()
	}
}

func (m *Metrics) AuditFailed(group string) {
	if m != nil {
		m.AuditWriteErrors.WithLabelValues(group).Inc()
	}
}
