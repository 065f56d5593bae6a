package query

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/chainprov/chainprov/op-provenance/config"
	"github.com/chainprov/chainprov/op-provenance/metrics"
	"github.com/chainprov/chainprov/op-provenance/provenance/validators"
)

// Executor validates proof-data queries end to end.
type Executor struct {
	log       log.Logger
	cfg       *config.Config
	metrics   metrics.Metricer
	validator *validators.Validator
}

func NewExecutor(logger log.Logger, cfg *config.Config, m metrics.Metricer) *Executor {
	if m == nil {
		m = metrics.NoopMetrics{}
	}
	return &Executor{
		log:       logger,
		cfg:       cfg,
		metrics:   m,
		validator: validators.NewValidator(logger, cfg, m),
	}
}

// ValidateProofDataQuery validates the block q reads from, links it to the
// environment through the reorg check, and then reads the proof data.
// Any failure aborts the whole query.
func (e *Executor) ValidateProofDataQuery(ctx context.Context, q *ProofDataQuery) (records []ProofDataRecord, err error) {
	if err := q.Check(); err != nil {
		return nil, err
	}
	if _, err := e.cfg.Chain(q.Chain); err != nil {
		return nil, err
	}
	mode := validators.Mode(q.Input)
	onDone := e.metrics.RecordValidation(q.Chain, mode)
	defer func() { onDone(err) }()

	sel, err := validators.Select(q.Chain, q.Input)
	if err != nil {
		return nil, err
	}
	hash, err := e.validator.ValidatedBlockHash(ctx, q.Chain, q.Input)
	if err != nil {
		return nil, err
	}
	if err := e.validator.ValidateChainLength(sel.ReorgChain, sel.ReorgEnv.Header().Hash(), sel.Linking, hash); err != nil {
		return nil, err
	}
	if q.Len() == 0 {
		e.log.Debug("Empty proof data query", "chain", q.Chain)
		return []ProofDataRecord{}, nil
	}
	records, err = e.batchProofData(ctx, q, sel.BatchEnv)
	if err != nil {
		return nil, fmt.Errorf("batch on %s: %w", q.Chain, err)
	}
	e.log.Info("Validated proof data query", "chain", q.Chain, "mode", mode, "block", hash, "records", len(records))
	return records, nil
}
