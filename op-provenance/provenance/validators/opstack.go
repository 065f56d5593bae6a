package validators

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/commitment"
)

// ValidateOpStackCommitment checks that c is signed by the sequencer of chain and
// commits to the block with hash claimed.
func (v *Validator) ValidateOpStackCommitment(chain provenance.ChainID, c *commitment.SequencerCommitment, claimed common.Hash) error {
	if err := chain.RequireFamily(provenance.FamilyOpStack); err != nil {
		return err
	}
	cc, err := v.cfg.Chain(chain)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: missing sequencer commitment", provenance.ErrMalformedInput)
	}
	if err := c.Verify(cc.Sequencer, chain.EthChainID()); err != nil {
		return err
	}
	payload, err := c.ExecutionPayload()
	if err != nil {
		return err
	}
	if payload.BlockHash != claimed {
		return fmt.Errorf("%w: block hash mismatch: commitment to %s, claimed %s", provenance.ErrVerification, payload.BlockHash, claimed)
	}
	v.log.Debug("Sequencer commitment verified", "chain", chain, "block", payload.ID())
	return nil
}

// ValidateEthereumBlockHashViaOpStack returns the Ethereum block hash that the
// anchor chain of chain attests in its L1Block predeploy. When secondary is set, the
// hash attested by the secondary anchor chain must agree.
func (v *Validator) ValidateEthereumBlockHashViaOpStack(ctx context.Context, chain provenance.ChainID, anchor L1Anchor, secondary *L1Anchor) (common.Hash, error) {
	if err := chain.RequireFamily(provenance.FamilyEthereum); err != nil {
		return common.Hash{}, err
	}
	cc, err := v.cfg.Chain(chain)
	if err != nil {
		return common.Hash{}, err
	}
	l1Hash, err := v.l1HashViaAnchor(ctx, cc.L1AnchorChain, anchor)
	if err != nil {
		return common.Hash{}, err
	}
	if secondary != nil {
		if cc.SecondaryAnchorChain == 0 {
			return common.Hash{}, fmt.Errorf("%w: no secondary anchor chain configured for %s", provenance.ErrUnsupportedChain, chain)
		}
		other, err := v.l1HashViaAnchor(ctx, cc.SecondaryAnchorChain, *secondary)
		if err != nil {
			return common.Hash{}, err
		}
		if other != l1Hash {
			return common.Hash{}, fmt.Errorf("%w: l1 hash mismatch between anchors: %s via %s, %s via %s",
				provenance.ErrVerification, l1Hash, cc.L1AnchorChain, other, cc.SecondaryAnchorChain)
		}
	}
	v.log.Debug("Ethereum block hash established", "chain", chain, "anchor", cc.L1AnchorChain, "hash", l1Hash)
	return l1Hash, nil
}

func (v *Validator) l1HashViaAnchor(ctx context.Context, aux provenance.ChainID, anchor L1Anchor) (common.Hash, error) {
	if anchor.Env == nil {
		return common.Hash{}, fmt.Errorf("%w: missing %s anchor environment", provenance.ErrMalformedInput, aux)
	}
	claimed := anchor.Env.Commitment().Digest
	if err := v.ValidateOpStackCommitment(aux, anchor.Commitment, claimed); err != nil {
		return common.Hash{}, fmt.Errorf("anchor %s: %w", aux, err)
	}
	var l1Hash common.Hash
	if err := v.call(ctx, aux, anchor.Env, v.cfg.L1BlockPredeploy, L1BlockHashFunc, nil, &l1Hash); err != nil {
		return common.Hash{}, err
	}
	return l1Hash, nil
}
