// Package metrics exposes Prometheus collectors for the projector and the change feed.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "league_engine"

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Recorder owns a private registry so tests and multiple engines never collide on the
// default one.
type Recorder struct {
	registry *prometheus.Registry

	recomputeTotal    *prometheus.CounterVec
	recomputeDuration prometheus.Histogram
	lastRecomputeUnix prometheus.Gauge
	publishTotal      *prometheus.CounterVec
	triggersTotal     *prometheus.CounterVec
	breakerState      *prometheus.GaugeVec
}

func New() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		recomputeTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "recompute_total",
			Help:      "Standings snapshot recomputations by result.",
		}, []string{"result"}),
		recomputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "recompute_duration_seconds",
			Help:      "Time spent recomputing one league snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
		lastRecomputeUnix: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "last_recompute_unix",
			Help:      "Unix time of the last successful snapshot.",
		}),
		publishTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "changefeed",
			Name:      "publish_total",
			Help:      "Change notices published by kind and result.",
		}, []string{"kind", "result"}),
		triggersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "triggers_total",
			Help:      "Projection runs by trigger source.",
		}, []string{"source"}),
		breakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "changefeed",
			Name:      "breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half open, 2 open.",
		}, []string{"breaker"}),
	}
}

// ObserveRecompute records one league snapshot run. The league id is not used as a
// label to keep the series count bounded.
func (r *Recorder) ObserveRecompute(_ string, success bool, duration time.Duration) {
	if r == nil {
		return
	}
	r.recomputeTotal.WithLabelValues(resultLabel(success)).Inc()
	r.recomputeDuration.Observe(duration.Seconds())
	if success {
		r.lastRecomputeUnix.SetToCurrentTime()
	}
}

func (r *Recorder) ObservePublish(kind string, success bool) {
	if r == nil {
		return
	}
	r.publishTotal.WithLabelValues(kind, resultLabel(success)).Inc()
}

// ObserveTrigger counts projection runs started by the ticker or by a change notice.
func (r *Recorder) ObserveTrigger(source string) {
	if r == nil {
		return
	}
	r.triggersTotal.WithLabelValues(source).Inc()
}

// ObserveBreakerState records the current state of a named circuit breaker.
func (r *Recorder) ObserveBreakerState(breaker, state string) {
	if r == nil {
		return
	}
	value := 0.0
	switch state {
	case "half_open":
		value = 1
	case "open":
		value = 2
	}
	r.breakerState.WithLabelValues(breaker).Set(value)
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func resultLabel(success bool) string {
	if success {
		return resultSuccess
	}
	return resultFailure
}
