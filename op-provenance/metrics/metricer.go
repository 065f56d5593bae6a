package metrics

import "github.com/chainprov/chainprov/op-provenance/provenance"

type Metricer interface {
	RecordInfo(version string)
	RecordUp()

	// RecordValidation starts timing a validation of chain in the given mode,
	// the result is recorded when onDone is called.
	RecordValidation(chain provenance.ChainID, mode string) (onDone func(err error))
	RecordContractCall(chain provenance.ChainID)
}
