// Package metrics provides Prometheus metrics for the CRM service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	LoginsTotal      *prometheus.CounterVec
	GuardRedirects   prometheus.Counter
	RenewalsByTier   *prometheus.GaugeVec
	DigestsDelivered *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_http_requests_total",
				Help: "Total HTTP requests by route and status.",
			},
			[]string{"route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crm_http_request_duration_seconds",
				Help:    "HTTP request duration by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_logins_total",
				Help: "Login attempts by result.",
			},
			[]string{"result"},
		),
		GuardRedirects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "crm_guard_redirects_total",
				Help: "Unauthenticated requests redirected to the login page.",
			},
		),
		RenewalsByTier: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "crm_renewals_by_tier",
				Help: "Policies in the renewal window, broken down by urgency tier.",
			},
			[]string{"tier"},
		),
		DigestsDelivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_renewal_digests_total",
				Help: "Renewal digest deliveries by result.",
			},
			[]string{"result"},
		),
		registry: reg,
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.LoginsTotal)
	reg.MustRegister(m.GuardRedirects)
	reg.MustRegister(m.RenewalsByTier)
	reg.MustRegister(m.DigestsDelivered)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments the request counter.
func (m *Metrics) RecordRequest(route, status string) {
	m.RequestsTotal.WithLabelValues(route, status).Inc()
}

// ObserveDuration records request duration for a route.
func (m *Metrics) ObserveDuration(route string, seconds float64) {
	m.RequestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordLogin increments the login counter ("success" or "failure").
func (m *Metrics) RecordLogin(result string) {
	m.LoginsTotal.WithLabelValues(result).Inc()
}

// RecordGuardRedirect increments the guard redirect counter.
func (m *Metrics) RecordGuardRedirect() {
	m.GuardRedirects.Inc()
}

// SetRenewalTier sets the gauge for one urgency tier.
func (m *Metrics) SetRenewalTier(tier string, count float64) {
	m.RenewalsByTier.WithLabelValues(tier).Set(count)
}

// RecordDigest increments the digest delivery counter ("ok" or "error").
func (m *Metrics) RecordDigest(result string) {
	m.DigestsDelivered.WithLabelValues(result).Inc()
}
