package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeBusy    = "busy"
	OutcomeFailed  = "failed"
)

// Metrics owns a private registry so that tests and multiple servers in one
// process do not collide on the default one.
type Metrics struct {
	registry      *prometheus.Registry
	submissions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// New registers the collectors. activeSessions is sampled on every scrape.
func New(activeSessions func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_submissions_total",
			Help: "Company registration submit attempts by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_notifications_total",
			Help: "Discord announcements of new registrations by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.submissions,
		m.notifications,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "form_sessions_active",
			Help: "Form sessions currently held in memory.",
		}, func() float64 {
			if activeSessions == nil {
				return 0
			}
			return float64(activeSessions())
		}),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Submission(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Notification(outcome string) {
	m.notifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
