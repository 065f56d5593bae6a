package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	opmetrics "github.com/chainprov/chainprov/op-service/metrics"
)

const Namespace = "op_provenance"

type Metrics struct {
	ns       string
	registry *prometheus.Registry
	factory  opmetrics.Factory

	validations   *prometheus.CounterVec
	contractCalls *prometheus.CounterVec
	duration      *prometheus.HistogramVec

	info prometheus.GaugeVec
	up   prometheus.Gauge
}

var _ Metricer = (*Metrics)(nil)

func NewMetrics(procName string) *Metrics {
	return newMetrics(procName, opmetrics.NewRegistry())
}

func newMetrics(procName string, registry *prometheus.Registry) *Metrics {
	if procName == "" {
		procName = "default"
	}
	ns := Namespace + "_" + procName

	factory := opmetrics.With(registry)
	return &Metrics{
		ns:       ns,
		registry: registry,
		factory:  factory,

		info: *factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "info",
			Help:      "Pseudo-metric tracking version and config info",
		}, []string{
			"version",
		}),
		up: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "up",
			Help:      "1 if op-provenance has finished starting up",
		}),

		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "validations_total",
			Help:      "Count of block validations, by result kind",
		}, []string{"chain", "mode", "result"}),

		contractCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "contract_calls_total",
			Help:      "Count of contract calls made against environments",
		}, []string{"chain"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "validation_duration_seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			Help:      "Duration of a block validation",
		}, []string{"chain", "mode"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Document() []opmetrics.DocumentedMetric {
	return m.factory.Document()
}

// RecordInfo sets a pseudo-metric that contains versioning and config info.
func (m *Metrics) RecordInfo(version string) {
	m.info.WithLabelValues(version).Set(1)
}

// RecordUp sets the up metric to 1.
func (m *Metrics) RecordUp() {
	m.up.Set(1)
}

func (m *Metrics) RecordValidation(chain provenance.ChainID, mode string) (onDone func(err error)) {
	timer := prometheus.NewTimer(m.duration.WithLabelValues(chain.String(), mode))
	return func(err error) {
		timer.ObserveDuration()
		m.validations.WithLabelValues(chain.String(), mode, provenance.Kind(err)).Inc()
	}
}

func (m *Metrics) RecordContractCall(chain provenance.ChainID) {
	m.contractCalls.WithLabelValues(chain.String()).Inc()
}
