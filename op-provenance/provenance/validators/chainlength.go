package validators

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainprov/chainprov/op-provenance/provenance"
)

// ValidateChainLength checks that linking leads from historical to current, hash by
// hash, over at least the reorg protection depth of chain.
func (v *Validator) ValidateChainLength(chain provenance.ChainID, historical common.Hash, linking []*types.Header, current common.Hash) error {
	depth, err := v.cfg.ReorgDepth(chain)
	if err != nil {
		return err
	}
	if uint64(len(linking)) < depth {
		return fmt.Errorf("%w: chain length is less than reorg protection: %d < %d", provenance.ErrReorgProtection, len(linking), depth)
	}
	prev := historical
	for i, h := range linking {
		if h == nil {
			return fmt.Errorf("%w: missing linking header %d", provenance.ErrMalformedInput, i)
		}
		if h.ParentHash != prev {
			return fmt.Errorf("%w: blocks not hashlinked: header %d has parent %s, expected %s", provenance.ErrReorgProtection, i, h.ParentHash, prev)
		}
		prev = h.Hash()
	}
	if prev != current {
		return fmt.Errorf("%w: last hash doesn't correspond to verified hash: %s, verified %s", provenance.ErrReorgProtection, prev, current)
	}
	v.log.Debug("Linking chain verified", "chain", chain, "length", len(linking), "head", current)
	return nil
}
