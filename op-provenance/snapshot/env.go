// Package snapshot holds pre-fetched chain environments and the query input file format.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainprov/chainprov/op-provenance/provenance"
)

// Call is one recorded contract call and its result.
type Call struct {
	To     common.Address `json:"to"`
	Data   hexutil.Bytes  `json:"data"`
	Result hexutil.Bytes  `json:"result"`
}

// Env is an environment backed by a header and a table of recorded calls.
// Calls outside the table fail as malformed input: a snapshot is never completed on demand.
type Env struct {
	mu     sync.RWMutex
	head   *types.Header
	commit provenance.Commitment
	calls  []Call
	index  map[string]int
}

var _ provenance.Environment = (*Env)(nil)

func NewEnv(head *types.Header, commit provenance.Commitment) *Env {
	return &Env{head: head, commit: commit, index: make(map[string]int)}
}

func callKey(to common.Address, data []byte) string {
	return string(to[:]) + string(data)
}

// Record adds the result of a call. A later result for the same call replaces the earlier one.
func (e *Env) Record(to common.Address, data []byte, result []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := callKey(to, data)
	c := Call{To: to, Data: common.CopyBytes(data), Result: common.CopyBytes(result)}
	if i, ok := e.index[key]; ok {
		e.calls[i] = c
		return
	}
	e.index[key] = len(e.calls)
	e.calls = append(e.calls, c)
}

func (e *Env) Header() *types.Header {
	return e.head
}

func (e *Env) Commitment() provenance.Commitment {
	return e.commit
}

func (e *Env) Calls() []Call {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Call(nil), e.calls...)
}

func (e *Env) Call(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	i, ok := e.index[callKey(to, data)]
	if !ok {
		return nil, fmt.Errorf("%w: call to %s with input %s not in snapshot", provenance.ErrMalformedInput, to, hexutil.Encode(data))
	}
	return common.CopyBytes(e.calls[i].Result), nil
}

type envJSON struct {
	Header     *types.Header         `json:"header"`
	Commitment provenance.Commitment `json:"commitment"`
	Calls      []Call                `json:"calls"`
}

func (e *Env) MarshalJSON() ([]byte, error) {
	return json.Marshal(&envJSON{Header: e.head, Commitment: e.commit, Calls: e.Calls()})
}

func (e *Env) UnmarshalJSON(data []byte) error {
	var dec envJSON
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	if dec.Header == nil {
		return fmt.Errorf("environment has no header")
	}
	fresh := NewEnv(dec.Header, dec.Commitment)
	for _, c := range dec.Calls {
		fresh.Record(c.To, c.Data, c.Result)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.head, e.commit, e.calls, e.index = fresh.head, fresh.commit, fresh.calls, fresh.index
	return nil
}
