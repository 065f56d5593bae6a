// Package query runs proof-data queries: it validates the block a query reads from,
// then reads the proof data of every (account, asset, target chain) triple in one multicall.
package query

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/validators"
)

// ProofDataQuery asks for the proof data of Accounts[i] in market Assets[i] towards TargetChains[i].
type ProofDataQuery struct {
	Chain        provenance.ChainID
	Accounts     []common.Address
	Assets       []common.Address
	TargetChains []uint64
	Input        validators.ValidationInput
}

// Check validates the shape of the query.
func (q *ProofDataQuery) Check() error {
	if q == nil {
		return fmt.Errorf("%w: missing query", provenance.ErrMalformedInput)
	}
	if len(q.Accounts) != len(q.Assets) || len(q.Accounts) != len(q.TargetChains) {
		return fmt.Errorf("%w: query has %d accounts, %d assets and %d target chains",
			provenance.ErrMalformedInput, len(q.Accounts), len(q.Assets), len(q.TargetChains))
	}
	if q.Input == nil {
		return fmt.Errorf("%w: query for %s has no validation input", provenance.ErrMalformedInput, q.Chain)
	}
	return nil
}

// Len is the number of records the query produces.
func (q *ProofDataQuery) Len() int {
	return len(q.Accounts)
}
