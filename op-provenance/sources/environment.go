package sources

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/snapshot"
)

// RPCEnvironment serves calls from a live node and records them into a snapshot.
type RPCEnvironment struct {
	client *Client
	snap   *snapshot.Env
}

var _ provenance.Environment = (*RPCEnvironment)(nil)

// Environment returns an environment at header. Its commitment is the header hash,
// identified by the block number.
func (c *Client) Environment(header *types.Header) *RPCEnvironment {
	commit := provenance.Commitment{
		ID:     provenance.EncodeCommitmentID(uint256.MustFromBig(header.Number), 0),
		Digest: header.Hash(),
	}
	return &RPCEnvironment{client: c, snap: snapshot.NewEnv(header, commit)}
}

func (e *RPCEnvironment) Header() *types.Header {
	return e.snap.Header()
}

func (e *RPCEnvironment) Commitment() provenance.Commitment {
	return e.snap.Commitment()
}

func (e *RPCEnvironment) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := e.client.Call(ctx, e.Header(), to, data)
	if err != nil {
		return nil, err
	}
	e.snap.Record(to, data, out)
	return out, nil
}

// Snapshot is the recording of every call served so far.
func (e *RPCEnvironment) Snapshot() *snapshot.Env {
	return e.snap
}
