package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pubule/capacity-planner/metrics"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	rec.RecordDistribution(100, true)
	rec.RecordDistribution(30, false)
	rec.RecordRedistribution("ok")
	rec.RecordRedistribution("error")
	rec.RecordOverflowCheck(false)

	count, err := testutil.GatherAndCount(reg,
		"planner_distributions_total",
		"planner_distribution_mds",
		"planner_redistributions_total",
		"planner_overflow_checks_total",
	)
	require.NoError(t, err)
	// Two overflow label values, one histogram, two outcomes, one
	// check result.
	assert.Equal(t, 6, count)
}

func TestNewRecorder_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := metrics.NewRecorder(reg)
	require.NoError(t, err)
	first.RecordRedistribution("ok")

	// A second recorder on the same registry must not fail with
	// duplicate registration.
	second, err := metrics.NewRecorder(reg)
	require.NoError(t, err)
	second.RecordRedistribution("ok")
}
