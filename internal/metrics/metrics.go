package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the decision workflow.
type Metrics struct {
	// Decisions recorded by verification path ("verification", "nhs_login")
	DecisionsRecorded *prometheus.CounterVec

	// Verification attempts rejected by reason
	VerificationFailures *prometheus.CounterVec

	// Translated service errors by bounded context and kind
	ServiceErrors *prometheus.CounterVec

	// Notifications handed to the provider by channel and purpose
	NotificationsSent *prometheus.CounterVec

	// HTTP request latency by route
	RequestLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Metrics instance registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DecisionsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "decision_mgt_decisions_recorded_total",
			Help: "Total decisions recorded by verification path",
		}, []string{"path"}),

		VerificationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "decision_mgt_verification_failures_total",
			Help: "Total rejected verification attempts by reason",
		}, []string{"reason"}),

		ServiceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "decision_mgt_service_errors_total",
			Help: "Total translated service errors by context and kind",
		}, []string{"context", "kind"}),

		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "decision_mgt_notifications_sent_total",
			Help: "Total notifications accepted by the provider by channel and purpose",
		}, []string{"channel", "purpose"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "decision_mgt_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
	}
}

// IncDecisionRecorded records a stored decision.
func (m *Metrics) IncDecisionRecorded(path string) {
	if m != nil {
		m.DecisionsRecorded.WithLabelValues(path).Inc()
	}
}

// IncVerificationFailure records a rejected verification attempt.
func (m *Metrics) IncVerificationFailure(reason string) {
	if m != nil {
		m.VerificationFailures.WithLabelValues(reason).Inc()
	}
}

// IncServiceError records a translated service error.
func (m *Metrics) IncServiceError(context, kind string) {
	if m != nil {
		m.ServiceErrors.WithLabelValues(context, kind).Inc()
	}
}

// IncNotificationSent records a notification accepted by the provider.
func (m *Metrics) IncNotificationSent(channel, purpose string) {
	if m != nil {
		m.NotificationsSent.WithLabelValues(channel, purpose).Inc()
	}
}

// ObserveRequest records an HTTP request duration.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(method, route, status).Observe(d.Seconds())
	}
}
