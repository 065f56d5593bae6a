package signer

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainprov/chainprov/op-service/eth"
)

// SigningDomainBlocksV1 is the original signing domain used for OP-Stack blocks.
// This domain is a fully zeroed 32 bytes.
var SigningDomainBlocksV1 = [32]byte{}

// PayloadHash computes the hash of the payload, an attribute of the signing message.
// The payload-hash is NOT the signing-hash.
func PayloadHash(payload []byte) common.Hash {
	return crypto.Keccak256Hash(payload)
}

// BlockSigningMessage is the message representing a block, for signing-hash construction.
type BlockSigningMessage struct {
	Domain      eth.Bytes32
	ChainID     eth.ChainID
	PayloadHash common.Hash
}

// ToSigningHash hashes domain, chain ID and payload hash, each a 32 byte word.
// Uses the hashing scheme from https://github.com/ethereum-optimism/specs/blob/main/specs/protocol/rollup-node-p2p.md#block-signatures
func (msg *BlockSigningMessage) ToSigningHash() common.Hash {
	var msgInput [32 + 32 + 32]byte
	copy(msgInput[:32], msg.Domain[:])
	chainID := msg.ChainID.Bytes32()
	copy(msgInput[32:64], chainID[:])
	copy(msgInput[64:], msg.PayloadHash[:])
	return crypto.Keccak256Hash(msgInput[:])
}

// SignatureMessageHash is the V1 signing hash of a sequencer payload:
// keccak256(zero domain ‖ chain ID ‖ keccak256(payload)).
func SignatureMessageHash(payload []byte, chainID eth.ChainID) common.Hash {
	msg := BlockSigningMessage{
		Domain:      SigningDomainBlocksV1,
		ChainID:     chainID,
		PayloadHash: PayloadHash(payload),
	}
	return msg.ToSigningHash()
}
