package query

import (
	"context"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/lmittmann/w3"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainprov/chainprov/op-provenance/provenance"
)

var (
	aggregate3Func = w3.MustNewFunc("aggregate3((address target, bool allowFailure, bytes callData)[])", "(bool success, bytes returnData)[]")
	// Only used to decode return data: the selector of the request is configurable.
	getProofDataFunc = w3.MustNewFunc("getProofData(address,uint32)", "uint256,uint256")
)

type call3 struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

type call3Result struct {
	Success    bool
	ReturnData []byte
}

// proofDataCalldata is selector ‖ leftpad32(account) ‖ u256(targetChain).
func proofDataCalldata(selector [4]byte, account common.Address, targetChain uint64) []byte {
	out := make([]byte, 0, 4+32+32)
	out = append(out, selector[:]...)
	out = append(out, common.LeftPadBytes(account[:], 32)...)
	word := uint256.NewInt(targetChain).Bytes32()
	return append(out, word[:]...)
}

// batchProofData reads the proof data of every triple of q with one aggregate3 call on env.
// Every sub-call must succeed.
func (e *Executor) batchProofData(ctx context.Context, q *ProofDataQuery, env provenance.Environment) ([]ProofDataRecord, error) {
	calls := make([]call3, 0, q.Len())
	for i := range q.Accounts {
		calls = append(calls, call3{
			Target:       q.Assets[i],
			AllowFailure: false,
			CallData:     proofDataCalldata(e.cfg.ProofDataSelector, q.Accounts[i], q.TargetChains[i]),
		})
	}
	input, err := aggregate3Func.EncodeArgs(calls)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to construct multicall: %v", provenance.ErrMalformedInput, err)
	}
	e.metrics.RecordContractCall(q.Chain)
	out, err := env.Call(ctx, e.cfg.Multicall, input)
	if err != nil {
		if provenance.Kind(err) != "other" {
			return nil, fmt.Errorf("multicall on %s: %w", q.Chain, err)
		}
		return nil, fmt.Errorf("%w: multicall on %s: %v", provenance.ErrMalformedInput, q.Chain, err)
	}
	var results []call3Result
	if err := aggregate3Func.DecodeReturns(out, &results); err != nil {
		return nil, fmt.Errorf("%w: failed to decode multicall result: %v", provenance.ErrVerification, err)
	}
	if len(results) != len(calls) {
		return nil, fmt.Errorf("%w: multicall returned %d results for %d calls", provenance.ErrVerification, len(results), len(calls))
	}

	records := make([]ProofDataRecord, 0, len(results))
	for i, res := range results {
		if !res.Success {
			return nil, fmt.Errorf("%w: proof data call %d to %s failed", provenance.ErrVerification, i, q.Assets[i])
		}
		var amountIn, amountOut *big.Int
		if err := getProofDataFunc.DecodeReturns(res.ReturnData, &amountIn, &amountOut); err != nil {
			return nil, fmt.Errorf("%w: failed to decode proof data of call %d: %v", provenance.ErrVerification, i, err)
		}
		records = append(records, ProofDataRecord{
			Account:     q.Accounts[i],
			Asset:       q.Assets[i],
			AmountIn:    amountIn,
			AmountOut:   amountOut,
			SourceChain: uint32(q.Chain.Uint64()),
			TargetChain: uint32(q.TargetChains[i]),
			L1Inclusion: q.Input.L1Inclusion(),
		})
	}
	return records, nil
}
