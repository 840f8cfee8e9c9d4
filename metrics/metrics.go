// Package metrics exposes Prometheus instrumentation for the planning
// engine's operations.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts planning operations. All methods are safe for
// concurrent use.
type Recorder struct {
	distributions   *prometheus.CounterVec
	distributedMDs  prometheus.Histogram
	redistributions *prometheus.CounterVec
	overflowChecks  *prometheus.CounterVec
}

// NewRecorder registers the planner metrics on reg (the default
// registerer when nil). Already-registered collectors are reused so
// tests can build multiple recorders.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	distributions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_distributions_total",
		Help: "Total number of budget distributions, by overflow outcome",
	}, []string{"overflow"})
	distributedMDs := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_distribution_mds",
		Help:    "Man-day budgets handed to the distribution engine",
		Buckets: []float64{5, 10, 22, 44, 66, 132, 264, 528},
	})
	redistributions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_redistributions_total",
		Help: "Total number of post-edit redistributions, by outcome",
	}, []string{"outcome"})
	overflowChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_overflow_checks_total",
		Help: "Total number of single-month overflow checks, by result",
	}, []string{"overflow"})

	r := &Recorder{
		distributions:   distributions,
		distributedMDs:  distributedMDs,
		redistributions: redistributions,
		overflowChecks:  overflowChecks,
	}

	for _, c := range []prometheus.Collector{distributions, distributedMDs, redistributions, overflowChecks} {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch existing := are.ExistingCollector.(type) {
			case *prometheus.CounterVec:
				switch c {
				case distributions:
					r.distributions = existing
				case redistributions:
					r.redistributions = existing
				case overflowChecks:
					r.overflowChecks = existing
				}
			case prometheus.Histogram:
				r.distributedMDs = existing
			}
		}
	}
	return r, nil
}

// RecordDistribution counts one distribution run.
func (r *Recorder) RecordDistribution(totalMDs float64, overflow bool) {
	r.distributions.WithLabelValues(strconv.FormatBool(overflow)).Inc()
	r.distributedMDs.Observe(totalMDs)
}

// RecordRedistribution counts one redistribution attempt.
func (r *Recorder) RecordRedistribution(outcome string) {
	r.redistributions.WithLabelValues(outcome).Inc()
}

// RecordOverflowCheck counts one single-month overflow check.
func (r *Recorder) RecordOverflowCheck(overflow bool) {
	r.overflowChecks.WithLabelValues(strconv.FormatBool(overflow)).Inc()
}
