package query

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ethereum/go-ethereum/log"
)

type QueryValidator interface {
	ValidateProofDataQuery(ctx context.Context, q *ProofDataQuery) ([]ProofDataRecord, error)
}

// Runner validates independent queries concurrently.
type Runner struct {
	log         log.Logger
	validator   QueryValidator
	concurrency int
}

func NewRunner(logger log.Logger, v QueryValidator, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{log: logger, validator: v, concurrency: concurrency}
}

// Run returns the records of every query, in the order of queries.
// The first failing query cancels the others and fails the run.
func (r *Runner) Run(ctx context.Context, queries []*ProofDataQuery) ([][]ProofDataRecord, error) {
	results := make([][]ProofDataRecord, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := r.validator.ValidateProofDataQuery(gctx, q)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.Error("Proof data run failed", "queries", len(queries), "err", err)
		return nil, err
	}
	r.log.Info("Proof data run complete", "queries", len(queries))
	return results, nil
}
