package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/control"
)

// Collector owns the control loop's Prometheus metrics and their registry.
type Collector struct {
	registry *prometheus.Registry

	ticksTotal    *prometheus.CounterVec
	proposedTotal *prometheus.CounterVec
	appliedTotal  *prometheus.CounterVec
	rejectedTotal *prometheus.CounterVec
	confidence    prometheus.Histogram
	simulatedRisk *prometheus.HistogramVec
}

// NewCollector creates and registers the control loop metrics on a fresh
// registry, alongside the standard Go runtime collectors.
func NewCollector(cfg config.MetricsConfig) *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Collector{
		registry: registry,

		ticksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluation_ticks_total",
				Help:      "Total number of evaluation ticks by risk assessment",
			},
			[]string{"risk_assessment"},
		),

		proposedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "decisions_proposed_total",
				Help:      "Total number of proposed decisions by domain",
			},
			[]string{"domain"},
		),

		appliedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "decisions_applied_total",
				Help:      "Total number of applied decisions by domain",
			},
			[]string{"domain"},
		),

		rejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "decisions_rejected_total",
				Help:      "Total number of rejected decisions by domain and reason",
			},
			[]string{"domain", "reason"},
		),

		confidence: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "decision_confidence",
				Help:      "Distribution of per-tick confidence scores",
				Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
			},
		),

		simulatedRisk: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "simulated_risk",
				Help:      "Distribution of simulated decision risk by domain",
				Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"domain"},
		),
	}

	registry.MustRegister(
		c.ticksTotal,
		c.proposedTotal,
		c.appliedTotal,
		c.rejectedTotal,
		c.confidence,
		c.simulatedRisk,
	)

	return c
}

// ObserveAnalysis records one evaluation tick.
func (c *Collector) ObserveAnalysis(analysis *control.Analysis) {
	c.ticksTotal.WithLabelValues(string(analysis.RiskAssessment)).Inc()
	c.confidence.Observe(analysis.Confidence)
	for _, d := range analysis.Decisions {
		c.proposedTotal.WithLabelValues(string(d.Domain)).Inc()
		if sim, ok := analysis.Simulations[d.ID]; ok {
			c.simulatedRisk.WithLabelValues(string(d.Domain)).Observe(sim.Risk)
		}
	}
}

// ObserveApply records the outcome of one ApplyDecision call.
func (c *Collector) ObserveApply(domain control.Domain, result control.ApplyResult) {
	if result.Applied {
		c.appliedTotal.WithLabelValues(string(domain)).Inc()
		return
	}
	for _, reason := range result.Reasons {
		c.rejectedTotal.WithLabelValues(string(domain), string(reason)).Inc()
	}
}

// Handler returns an HTTP handler exposing the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
