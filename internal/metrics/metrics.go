package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	simulations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cpusched",
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Number of completed simulations.",
		}, []string{"policy"},
	)
	simulatedTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cpusched",
			Subsystem: "simulation",
			Name:      "total_time_units",
			Help:      "Virtual time at which the last process completed.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"policy"},
	)
	contextSwitches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cpusched",
			Subsystem: "manager",
			Name:      "context_switches_total",
			Help:      "Number of processes put on the CPU.",
		}, []string{"policy"},
	)
	stateTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cpusched",
			Subsystem: "process",
			Name:      "state_transitions_total",
			Help:      "Number of process state transitions.",
		}, []string{"policy", "from", "to"},
	)
	rejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cpusched",
			Subsystem: "simulation",
			Name:      "rejected_total",
			Help:      "Simulations refused at configuration time.",
		}, []string{"reason"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{simulations, simulatedTime, contextSwitches, stateTransitions, rejected}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// The helpers below no-op until Register succeeds.

func ObserveSimulation(policy string, totalTime, switches int) {
	if regOK.Load() {
		simulations.WithLabelValues(policy).Inc()
		simulatedTime.WithLabelValues(policy).Observe(float64(totalTime))
		contextSwitches.WithLabelValues(policy).Add(float64(switches))
	}
}

func RecordStateTransition(policy, from, to string) {
	if regOK.Load() {
		stateTransitions.WithLabelValues(policy, from, to).Inc()
	}
}

func IncRejected(reason string) {
	if regOK.Load() {
		rejected.WithLabelValues(reason).Inc()
	}
}
