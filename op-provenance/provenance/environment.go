package provenance

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Environment is a pre-fetched, already authenticated view of one chain at one block.
type Environment interface {
	// Header is the sealed header the environment is anchored to.
	Header() *types.Header
	// Commitment identifies the environment, e.g. to locate the dispute game that claims it.
	Commitment() Commitment
	// Call executes a read-only contract call against the environment's state.
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Commitment is the digest of an environment plus the id that locates it.
type Commitment struct {
	// ID packs a 16 bit version above a 240 bit index.
	ID       *uint256.Int `json:"id"`
	Digest   common.Hash  `json:"digest"`
	ConfigID common.Hash  `json:"configID"`
}

const commitmentVersionShift = 240

// DecodeID splits the ID into its index and version.
func (c Commitment) DecodeID() (index *uint256.Int, version uint16) {
	if c.ID == nil {
		return new(uint256.Int), 0
	}
	v := new(uint256.Int).Rsh(c.ID, commitmentVersionShift)
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), commitmentVersionShift)
	mask.SubUint64(mask, 1)
	return new(uint256.Int).And(c.ID, mask), uint16(v.Uint64())
}

// EncodeCommitmentID is the inverse of DecodeID.
func EncodeCommitmentID(index *uint256.Int, version uint16) *uint256.Int {
	id := new(uint256.Int).Lsh(uint256.NewInt(uint64(version)), commitmentVersionShift)
	return id.Or(id, index)
}
