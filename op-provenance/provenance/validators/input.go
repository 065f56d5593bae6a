package validators

import (
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/commitment"
)

// L1Anchor carries what is needed to establish an Ethereum block hash through an OP-Stack L2:
// the L2 sequencer commitment, and an environment of that L2 at the committed block.
type L1Anchor struct {
	Commitment *commitment.SequencerCommitment
	Env        provenance.Environment
}

// ValidationInput is one of the mode-specific input structs below.
type ValidationInput interface {
	validationInput()
	// ViewEnv is the environment the batch query runs against.
	ViewEnv() provenance.Environment
	// LinkingHeaders is the linking chain of the reorg check.
	LinkingHeaders() []*types.Header
	// L1Inclusion reports whether the input is backed by L1 inclusion.
	L1Inclusion() bool
}

// EthereumInput validates an Ethereum block through the OP-Stack L1Block contract.
type EthereumInput struct {
	Env     provenance.Environment
	Linking []*types.Header
	Anchor  L1Anchor
	// Secondary is an optional second anchor, through another OP-Stack chain, that must agree.
	Secondary *L1Anchor
}

// OpStackDirectInput validates an OP-Stack block directly against its sequencer commitment.
type OpStackDirectInput struct {
	Env        provenance.Environment
	Linking    []*types.Header
	Commitment *commitment.SequencerCommitment
}

// OpStackL1InclusionInput validates an OP-Stack block through a resolved dispute game on L1.
// Reorg protection is applied to the L1 chain.
type OpStackL1InclusionInput struct {
	L1Env   provenance.Environment
	OpEnv   provenance.Environment
	Linking []*types.Header
	Anchor  L1Anchor
}

// LineaDirectInput validates a Linea block by its sequencer-signed header.
type LineaDirectInput struct {
	Env     provenance.Environment
	Linking []*types.Header
}

// LineaL1InclusionInput additionally requires the Linea block to be finalized on L1.
type LineaL1InclusionInput struct {
	Env     provenance.Environment
	L1Env   provenance.Environment
	Linking []*types.Header
	Anchor  L1Anchor
}

func (*EthereumInput) validationInput()           {}
func (*OpStackDirectInput) validationInput()      {}
func (*OpStackL1InclusionInput) validationInput() {}
func (*LineaDirectInput) validationInput()        {}
func (*LineaL1InclusionInput) validationInput()   {}

func (in *EthereumInput) ViewEnv() provenance.Environment           { return in.Env }
func (in *OpStackDirectInput) ViewEnv() provenance.Environment      { return in.Env }
func (in *OpStackL1InclusionInput) ViewEnv() provenance.Environment { return in.OpEnv }
func (in *LineaDirectInput) ViewEnv() provenance.Environment        { return in.Env }
func (in *LineaL1InclusionInput) ViewEnv() provenance.Environment   { return in.Env }

func (in *EthereumInput) LinkingHeaders() []*types.Header           { return in.Linking }
func (in *OpStackDirectInput) LinkingHeaders() []*types.Header      { return in.Linking }
func (in *OpStackL1InclusionInput) LinkingHeaders() []*types.Header { return in.Linking }
func (in *LineaDirectInput) LinkingHeaders() []*types.Header        { return in.Linking }
func (in *LineaL1InclusionInput) LinkingHeaders() []*types.Header   { return in.Linking }

func (*EthereumInput) L1Inclusion() bool           { return false }
func (*OpStackDirectInput) L1Inclusion() bool      { return false }
func (*OpStackL1InclusionInput) L1Inclusion() bool { return true }
func (*LineaDirectInput) L1Inclusion() bool        { return false }
func (*LineaL1InclusionInput) L1Inclusion() bool   { return true }
