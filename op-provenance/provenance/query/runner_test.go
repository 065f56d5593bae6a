package query

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/log"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-service/testlog"
)

type validatorFn func(ctx context.Context, q *ProofDataQuery) ([]ProofDataRecord, error)

func (fn validatorFn) ValidateProofDataQuery(ctx context.Context, q *ProofDataQuery) ([]ProofDataRecord, error) {
	return fn(ctx, q)
}

// indexedQueries returns n queries whose target chain is their index.
func indexedQueries(n int) []*ProofDataQuery {
	out := make([]*ProofDataQuery, n)
	for i := range out {
		out[i] = &ProofDataQuery{Chain: provenance.EthereumMainnet, TargetChains: []uint64{uint64(i)}}
	}
	return out
}

func TestRunnerPreservesOrder(t *testing.T) {
	const n = 16
	var running, peak atomic.Int32
	v := validatorFn(func(ctx context.Context, q *ProofDataQuery) ([]ProofDataRecord, error) {
		cur := running.Add(1)
		defer running.Add(-1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		idx := q.TargetChains[0]
		// later queries finish first
		time.Sleep(time.Duration(n-idx) * time.Millisecond)
		return []ProofDataRecord{{TargetChain: uint32(idx)}}, nil
	})
	r := NewRunner(testlog.Logger(t, log.LevelInfo), v, 4)
	results, err := r.Run(context.Background(), indexedQueries(n))
	require.NoError(t, err)
	require.Len(t, results, n)
	for i, records := range results {
		require.Len(t, records, 1)
		require.Equal(t, uint32(i), records[0].TargetChain)
	}
	require.LessOrEqual(t, peak.Load(), int32(4))
	require.Len(t, PackRecords(results...), n)
}

func TestRunnerAbortsOnFirstError(t *testing.T) {
	var completed atomic.Int32
	v := validatorFn(func(ctx context.Context, q *ProofDataQuery) ([]ProofDataRecord, error) {
		if q.TargetChains[0] == 1 {
			return nil, fmt.Errorf("%w: blocks not hashlinked", provenance.ErrReorgProtection)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Second):
			completed.Add(1)
			return nil, nil
		}
	})
	r := NewRunner(testlog.Logger(t, log.LevelInfo), v, 8)
	results, err := r.Run(context.Background(), indexedQueries(8))
	require.ErrorIs(t, err, provenance.ErrReorgProtection)
	require.ErrorContains(t, err, "query 1")
	require.Nil(t, results)
	require.Zero(t, completed.Load())
}

func TestRunnerSerialFallback(t *testing.T) {
	var calls atomic.Int32
	v := validatorFn(func(ctx context.Context, q *ProofDataQuery) ([]ProofDataRecord, error) {
		calls.Add(1)
		return nil, nil
	})
	results, err := NewRunner(testlog.Logger(t, log.LevelInfo), v, 0).Run(context.Background(), indexedQueries(3))
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, int32(3), calls.Load())
}
