package signer

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainprov/chainprov/op-service/eth"
)

var (
	ErrMissingSigner      = errors.New("missing signer address configuration")
	ErrUnrecognizedSigner = errors.New("unrecognized signer")
	ErrRecoveryFailed     = errors.New("failed to recover signer")
)

// OPStackP2PBlockAuth authenticates sequencer-signed OP-Stack blocks.
type OPStackP2PBlockAuth interface {
	// Check if the given signer is allowed to sign blocks
	Check(signer common.Address) error
	// Domain used to sign the message
	Domain() [32]byte
	// ChainID used to sign the message
	ChainID() eth.ChainID
	// VerifyP2PBlockSignature verifies a block with payload-hash and signature
	VerifyP2PBlockSignature(payloadHash common.Hash, signature eth.Bytes65) error
}

// OPStackP2PBlockAuthV1 provides the V1 OP-Stack block authentication context.
type OPStackP2PBlockAuthV1 struct {
	Allowed common.Address
	Chain   eth.ChainID
}

var _ OPStackP2PBlockAuth = (*OPStackP2PBlockAuthV1)(nil)

func (a *OPStackP2PBlockAuthV1) Check(signer common.Address) error {
	if a.Allowed == (common.Address{}) {
		return ErrMissingSigner
	}
	if a.Allowed == signer {
		return nil
	}
	return fmt.Errorf("%w: %s, expected %s", ErrUnrecognizedSigner, signer, a.Allowed)
}

func (a *OPStackP2PBlockAuthV1) Domain() [32]byte {
	return SigningDomainBlocksV1
}

func (a *OPStackP2PBlockAuthV1) ChainID() eth.ChainID {
	return a.Chain
}

// VerifyP2PBlockSignature checks the signature the way sequencer gossip is checked:
// high-s signatures are normalized, not rejected.
func (a *OPStackP2PBlockAuthV1) VerifyP2PBlockSignature(payloadHash common.Hash, signature eth.Bytes65) error {
	msg := BlockSigningMessage{
		Domain:      a.Domain(),
		ChainID:     a.ChainID(),
		PayloadHash: payloadHash,
	}
	signingHash := msg.ToSigningHash()

	addr, ok := RecoverSignerNormalized(signature, signingHash)
	if !ok {
		return fmt.Errorf("%w: signing hash %s, signature %s", ErrRecoveryFailed, signingHash, signature)
	}
	return a.Check(addr)
}
