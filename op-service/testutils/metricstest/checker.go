// Package metricstest reads gathered prometheus metrics back in tests.
package metricstest

import (
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// Registry is a snapshot of every metric family in a registry at the time of Gather.
type Registry struct {
	t        require.TestingT
	families map[string]*dto.MetricFamily
}

func Gather(t require.TestingT, reg prometheus.Gatherer) *Registry {
	families, err := reg.Gather()
	require.NoError(t, err, "gather metrics")
	r := &Registry{t: t, families: make(map[string]*dto.MetricFamily, len(families))}
	for _, f := range families {
		r.families[f.GetName()] = f
	}
	return r
}

// Names lists the gathered family names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.families))
}

// Find returns the single metric of family name whose labels include labels.
// A missing family, or zero or several matches, fail the test.
func (r *Registry) Find(name string, labels map[string]string) *dto.Metric {
	fam, ok := r.families[name]
	require.Truef(r.t, ok, "no metric family %s, have %v", name, r.Names())
	var found *dto.Metric
	for _, m := range fam.GetMetric() {
		if !matches(m, labels) {
			continue
		}
		require.Nilf(r.t, found, "several %s metrics match %v", name, labels)
		found = m
	}
	require.NotNilf(r.t, found, "no %s metric matches %v", name, labels)
	return found
}

func (r *Registry) Counter(name string, labels map[string]string) float64 {
	return r.Find(name, labels).GetCounter().GetValue()
}

func (r *Registry) Gauge(name string, labels map[string]string) float64 {
	return r.Find(name, labels).GetGauge().GetValue()
}

// SampleCount is the number of observations of a histogram.
func (r *Registry) SampleCount(name string, labels map[string]string) uint64 {
	return r.Find(name, labels).GetHistogram().GetSampleCount()
}

func matches(m *dto.Metric, labels map[string]string) bool {
	have := make(map[string]string, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		have[l.GetName()] = l.GetValue()
	}
	for k, v := range labels {
		if got, ok := have[k]; !ok || got != v {
			return false
		}
	}
	return true
}
