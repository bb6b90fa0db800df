package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the storefront.
type Metrics struct {
	CheckoutDecisions   *prometheus.CounterVec
	CheckoutStepLatency *prometheus.HistogramVec
	TokenRenewals       *prometheus.CounterVec
	SessionTransitions  *prometheus.CounterVec
	HTTPRequestLatency  *prometheus.HistogramVec
}

// New creates and registers all metrics on reg. Tests pass a fresh
// prometheus.NewRegistry(); main passes prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CheckoutDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_checkout_decisions_total",
			Help: "Checkout authorization outcomes by reason",
		}, []string{"reason"}),
		CheckoutStepLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_checkout_step_duration_seconds",
			Help:    "Latency of each checkout authorization step",
			Buckets: prometheus.DefBuckets,
		}, []string{"step"}),
		TokenRenewals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_token_renewals_total",
			Help: "Credential renewals by trigger and outcome",
		}, []string{"trigger", "outcome"}),
		SessionTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_session_transitions_total",
			Help: "Session state transitions by target state",
		}, []string{"state"}),
		HTTPRequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) IncrementCheckoutDecision(reason string) {
	m.CheckoutDecisions.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveCheckoutStep(step string, d time.Duration) {
	m.CheckoutStepLatency.WithLabelValues(step).Observe(d.Seconds())
}

func (m *Metrics) IncrementTokenRenewal(trigger, outcome string) {
	m.TokenRenewals.WithLabelValues(trigger, outcome).Inc()
}

func (m *Metrics) IncrementSessionTransition(state string) {
	m.SessionTransitions.WithLabelValues(state).Inc()
}

func (m *Metrics) ObserveHTTPRequest(route, method string, status int, d time.Duration) {
	m.HTTPRequestLatency.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}
