package validators

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainprov/chainprov/op-provenance/provenance"
)

// Selection is the part of an input that the reorg check and the batch query run on.
type Selection struct {
	// ReorgChain is the chain the linking headers belong to.
	ReorgChain provenance.ChainID
	// ReorgEnv is the historical anchor of the linking headers.
	ReorgEnv provenance.Environment
	Linking  []*types.Header
	// Target is the block whose hash gets validated: the last linking header,
	// or the header of ReorgEnv when there are none.
	Target   *types.Header
	BatchEnv provenance.Environment
}

// Select picks the environments and linking chain of in. For OP-Stack L1 inclusion
// the reorg check runs on L1, everything else checks the chain itself.
func Select(chain provenance.ChainID, in ValidationInput) (*Selection, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: missing validation input", provenance.ErrMalformedInput)
	}
	sel := &Selection{ReorgChain: chain, ReorgEnv: in.ViewEnv(), Linking: in.LinkingHeaders(), BatchEnv: in.ViewEnv()}
	if l1in, ok := in.(*OpStackL1InclusionInput); ok {
		l1, err := chain.L1()
		if err != nil {
			return nil, err
		}
		sel.ReorgChain = l1
		sel.ReorgEnv = l1in.L1Env
	}
	if sel.ReorgEnv == nil || sel.BatchEnv == nil {
		return nil, fmt.Errorf("%w: missing environment for %s", provenance.ErrMalformedInput, chain)
	}
	if sel.ReorgEnv.Header() == nil {
		return nil, fmt.Errorf("%w: environment for %s has no header", provenance.ErrMalformedInput, chain)
	}
	sel.Target = sel.ReorgEnv.Header()
	if n := len(sel.Linking); n > 0 {
		if sel.Linking[n-1] == nil {
			return nil, fmt.Errorf("%w: missing linking header %d", provenance.ErrMalformedInput, n-1)
		}
		sel.Target = sel.Linking[n-1]
	}
	return sel, nil
}

// ValidatedBlockHash establishes the authentic hash of the target block of in.
// Each input type is bound to one chain family, a mismatch is unsupported.
func (v *Validator) ValidatedBlockHash(ctx context.Context, chain provenance.ChainID, in ValidationInput) (common.Hash, error) {
	sel, err := Select(chain, in)
	if err != nil {
		return common.Hash{}, err
	}
	var hash common.Hash
	switch in := in.(type) {
	case *EthereumInput:
		hash, err = v.ValidateEthereumBlockHashViaOpStack(ctx, chain, in.Anchor, in.Secondary)
	case *OpStackDirectInput:
		hash, err = v.validateOpStackDirect(chain, in, sel)
	case *OpStackL1InclusionInput:
		hash, err = v.validateOpStackL1Inclusion(ctx, chain, in, sel)
	case *LineaDirectInput:
		hash, err = v.validateLineaDirect(chain, sel)
	case *LineaL1InclusionInput:
		hash, err = v.validateLineaL1Inclusion(ctx, chain, in, sel)
	default:
		return common.Hash{}, fmt.Errorf("%w: unsupported validation input %T", provenance.ErrUnsupportedChain, in)
	}
	if err != nil {
		return common.Hash{}, err
	}
	v.log.Info("Validated block hash", "chain", chain, "mode", Mode(in), "hash", hash)
	return hash, nil
}

// Mode names the validation mode of in, for logs and metrics.
func Mode(in ValidationInput) string {
	if in != nil && in.L1Inclusion() {
		return "l1_inclusion"
	}
	return "direct"
}

func (v *Validator) validateOpStackDirect(chain provenance.ChainID, in *OpStackDirectInput, sel *Selection) (common.Hash, error) {
	if err := chain.RequireFamily(provenance.FamilyOpStack); err != nil {
		return common.Hash{}, err
	}
	claimed := sel.Target.Hash()
	if err := v.ValidateOpStackCommitment(chain, in.Commitment, claimed); err != nil {
		return common.Hash{}, err
	}
	return claimed, nil
}

func (v *Validator) validateOpStackL1Inclusion(ctx context.Context, chain provenance.ChainID, in *OpStackL1InclusionInput, sel *Selection) (common.Hash, error) {
	if err := chain.RequireFamily(provenance.FamilyOpStack); err != nil {
		return common.Hash{}, err
	}
	if in.OpEnv == nil {
		return common.Hash{}, fmt.Errorf("%w: missing %s environment", provenance.ErrMalformedInput, chain)
	}
	validated := sel.Target.Hash()
	ethHash, err := v.ValidateEthereumBlockHashViaOpStack(ctx, sel.ReorgChain, in.Anchor, nil)
	if err != nil {
		return common.Hash{}, err
	}
	if ethHash != validated {
		return common.Hash{}, fmt.Errorf("%w: hash mismatch opstack: anchor attests %s, linking chain ends at %s", provenance.ErrVerification, ethHash, validated)
	}
	if err := v.ValidateDisputeGameCommitment(ctx, chain, in.L1Env, in.OpEnv.Commitment()); err != nil {
		return common.Hash{}, err
	}
	return validated, nil
}

func (v *Validator) validateLineaDirect(chain provenance.ChainID, sel *Selection) (common.Hash, error) {
	if err := v.ValidateLineaHeader(chain, sel.Target); err != nil {
		return common.Hash{}, err
	}
	return sel.Target.Hash(), nil
}

// validateLineaL1Inclusion only compares block numbers against the message service:
// L1 does not record Linea block hashes.
func (v *Validator) validateLineaL1Inclusion(ctx context.Context, chain provenance.ChainID, in *LineaL1InclusionInput, sel *Selection) (common.Hash, error) {
	if err := chain.RequireFamily(provenance.FamilyLinea); err != nil {
		return common.Hash{}, err
	}
	cc, err := v.cfg.Chain(chain)
	if err != nil {
		return common.Hash{}, err
	}
	l1, err := chain.L1()
	if err != nil {
		return common.Hash{}, err
	}
	if in.L1Env == nil || in.L1Env.Header() == nil {
		return common.Hash{}, fmt.Errorf("%w: missing l1 environment", provenance.ErrMalformedInput)
	}
	ethHash, err := v.ValidateEthereumBlockHashViaOpStack(ctx, l1, in.Anchor, nil)
	if err != nil {
		return common.Hash{}, err
	}
	if l1Hash := in.L1Env.Header().Hash(); ethHash != l1Hash {
		return common.Hash{}, fmt.Errorf("%w: ethereum hash mismatch linea: anchor attests %s, l1 environment at %s", provenance.ErrVerification, ethHash, l1Hash)
	}
	var l2Number *big.Int
	if err := v.call(ctx, l1, in.L1Env, cc.MessageService, CurrentL2BlockNumberFunc, nil, &l2Number); err != nil {
		return common.Hash{}, err
	}
	number := in.Env.Header().Number
	if l2Number.Cmp(number) < 0 {
		return common.Hash{}, fmt.Errorf("%w: linea block %s not finalized on l1, %s reports %s", provenance.ErrVerification, number, CurrentL2BlockNumberFunc.Signature, l2Number)
	}
	v.log.Debug("Linea block finalized on L1", "chain", chain, "number", number, "l1Finalized", l2Number)
	return v.validateLineaDirect(chain, sel)
}
