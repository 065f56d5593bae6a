// Package provtest provides environments and signed fixtures for tests.
package provtest

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainprov/chainprov/op-provenance/provenance"
)

// MockEnv is an in-memory environment with a fixed call table.
type MockEnv struct {
	Head   *types.Header
	Commit provenance.Commitment
	Calls  map[string][]byte
	// Made counts the calls served, per target.
	Made map[common.Address]int
}

var _ provenance.Environment = (*MockEnv)(nil)

func NewMockEnv(head *types.Header) *MockEnv {
	return &MockEnv{
		Head:  head,
		Calls: make(map[string][]byte),
		Made:  make(map[common.Address]int),
	}
}

func callKey(to common.Address, data []byte) string {
	return to.Hex() + ":" + hexutil.Encode(data)
}

// ExpectCall registers the return data of a call.
func (m *MockEnv) ExpectCall(to common.Address, data []byte, ret []byte) {
	m.Calls[callKey(to, data)] = ret
}

func (m *MockEnv) Header() *types.Header {
	return m.Head
}

func (m *MockEnv) Commitment() provenance.Commitment {
	return m.Commit
}

func (m *MockEnv) Call(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	ret, ok := m.Calls[callKey(to, data)]
	if !ok {
		return nil, fmt.Errorf("%w: no call to %s with data %x", provenance.ErrMalformedInput, to, data)
	}
	m.Made[to]++
	return ret, nil
}
