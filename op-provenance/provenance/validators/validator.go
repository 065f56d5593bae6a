package validators

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/chainprov/chainprov/op-provenance/config"
	"github.com/chainprov/chainprov/op-provenance/metrics"
)

// Validator establishes authentic block hashes per chain. It holds no mutable state
// and is safe for concurrent use.
type Validator struct {
	log     log.Logger
	cfg     *config.Config
	metrics metrics.Metricer
}

func NewValidator(logger log.Logger, cfg *config.Config, m metrics.Metricer) *Validator {
	if m == nil {
		m = metrics.NoopMetrics{}
	}
	return &Validator{log: logger, cfg: cfg, metrics: m}
}

func (v *Validator) Config() *config.Config {
	return v.cfg
}
