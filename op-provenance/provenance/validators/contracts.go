package validators

import (
	"context"
	"errors"
	"fmt"

	"github.com/lmittmann/w3"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainprov/chainprov/op-provenance/provenance"
)

var (
	// L1BlockHashFunc reads the L1 block hash an OP-Stack L1Block predeploy attests.
	L1BlockHashFunc = w3.MustNewFunc("hash()", "bytes32")

	// CurrentL2BlockNumberFunc reads the last Linea block finalized by the IL1MessageService.
	CurrentL2BlockNumberFunc = w3.MustNewFunc("currentL2BlockNumber()", "uint256")

	// IOptimismPortal
	disputeGameFactoryFunc         = w3.MustNewFunc("disputeGameFactory()", "address")
	respectedGameTypeUpdatedAtFunc = w3.MustNewFunc("respectedGameTypeUpdatedAt()", "uint256")
	disputeGameBlacklistFunc       = w3.MustNewFunc("disputeGameBlacklist(address)", "bool")
	proofMaturityDelaySecondsFunc  = w3.MustNewFunc("proofMaturityDelaySeconds()", "uint256")

	// IDisputeGameFactory. Game type and timestamp are read as uint256, which also
	// decodes the narrower uint32 and uint64 fields of newer factories.
	gameAtIndexFunc = w3.MustNewFunc("gameAtIndex(uint256)", "uint256,uint256,address")

	// IDisputeGame
	statusFunc     = w3.MustNewFunc("status()", "uint8")
	resolvedAtFunc = w3.MustNewFunc("resolvedAt()", "uint64")
	rootClaimFunc  = w3.MustNewFunc("rootClaim()", "bytes32")
)

var sentinels = []error{
	provenance.ErrMalformedInput,
	provenance.ErrAuthentication,
	provenance.ErrVerification,
	provenance.ErrReorgProtection,
	provenance.ErrUnsupportedChain,
}

func hasSentinel(err error) bool {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

// call runs fn against env and decodes the results into returns.
// Environments that cannot serve a call are treated as incomplete input.
func (v *Validator) call(ctx context.Context, chain provenance.ChainID, env provenance.Environment, to common.Address, fn *w3.Func, args []any, returns ...any) error {
	input, err := fn.EncodeArgs(args...)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %v", provenance.ErrMalformedInput, fn.Signature, err)
	}
	v.metrics.RecordContractCall(chain)
	out, err := env.Call(ctx, to, input)
	if err != nil {
		if hasSentinel(err) {
			return fmt.Errorf("call %s on %s: %w", fn.Signature, to, err)
		}
		return fmt.Errorf("%w: call %s on %s: %v", provenance.ErrMalformedInput, fn.Signature, to, err)
	}
	if err := fn.DecodeReturns(out, returns...); err != nil {
		return fmt.Errorf("%w: failed to decode %s result: %v", provenance.ErrMalformedInput, fn.Signature, err)
	}
	return nil
}
