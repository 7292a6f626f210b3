// Package metrics exposes Prometheus counters for envelope building and
// topology provisioning.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "relaypulse"

// Metrics holds the relaypulse collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	envelopesBuilt     *prometheus.CounterVec
	publishFailures    *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	declarations       *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil registerer
// leaves the collectors unregistered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		envelopesBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "envelopes_built_total", Help: "Envelopes built for outbound messages."},
			[]string{"type"},
		),
		publishFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "publish_failures_total", Help: "Messages the transport failed to publish."},
			[]string{"exchange"},
		),
		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "topology_validation_failures_total", Help: "Topology validations rejected at startup."},
			[]string{"rule"},
		),
		declarations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "topology_declarations_total", Help: "Broker entities declared."},
			[]string{"component"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.envelopesBuilt, m.publishFailures, m.validationFailures, m.declarations} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// IncEnvelopeBuilt counts an envelope built for messageType
func (m *Metrics) IncEnvelopeBuilt(messageType string) {
	if m == nil {
		return
	}
	m.envelopesBuilt.WithLabelValues(messageType).Inc()
}

// IncPublishFailure counts a failed publish to exchange
func (m *Metrics) IncPublishFailure(exchange string) {
	if m == nil {
		return
	}
	m.publishFailures.WithLabelValues(exchange).Inc()
}

// IncValidationFailure counts a rejected topology by violated rule
func (m *Metrics) IncValidationFailure(rule string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(rule).Inc()
}

// AddDeclarations counts declared exchanges, queues or bindings
func (m *Metrics) AddDeclarations(component string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.declarations.WithLabelValues(component).Add(float64(n))
}
