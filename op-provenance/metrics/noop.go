package metrics

import "github.com/chainprov/chainprov/op-provenance/provenance"

type NoopMetrics struct{}

func (n NoopMetrics) RecordInfo(version string) {}

func (n NoopMetrics) RecordUp() {}

func (n NoopMetrics) RecordValidation(chain provenance.ChainID, mode string) (onDone func(err error)) {
	return func(err error) {}
}

func (n NoopMetrics) RecordContractCall(chain provenance.ChainID) {}

var _ Metricer = NoopMetrics{}
