// Package metrics exposes Prometheus counters for the registration form.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeStored  = "stored"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Metrics groups the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Submissions     *prometheus.CounterVec
	FieldRejections *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_submissions_total",
			Help: "Registration form submissions by outcome.",
		}, []string{"outcome"}),
		FieldRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_field_rejections_total",
			Help: "Field validation failures by field.",
		}, []string{"field"}),
	}
	m.registry.MustRegister(m.Submissions, m.FieldRejections)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
