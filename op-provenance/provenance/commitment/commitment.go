// Package commitment decodes and verifies sequencer commitments: snappy compressed,
// signed execution payloads as gossiped by OP-Stack sequencers.
package commitment

import (
	"bytes"
	"fmt"

	"github.com/golang/snappy"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-service/eth"
	"github.com/chainprov/chainprov/op-service/signer"
)

const (
	signatureSize = 65
	// payloadOffset skips the parent beacon block root that precedes the SSZ payload.
	payloadOffset = 32
)

// Signature is a secp256k1 signature in [R ‖ S ‖ V] form.
type Signature struct {
	R [32]byte
	S [32]byte
	V byte
}

func (s Signature) Bytes65() (out eth.Bytes65) {
	copy(out[:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.V
	return out
}

func SignatureFromBytes65(b eth.Bytes65) Signature {
	var s Signature
	copy(s.R[:], b[:32])
	copy(s.S[:], b[32:64])
	s.V = b[64]
	return s
}

// SequencerCommitment is a payload with the signature of the sequencer that produced it.
type SequencerCommitment struct {
	Data      []byte
	Signature Signature
}

// Decode reads a commitment from its wire form, snappy(r ‖ s ‖ v ‖ data).
func Decode(wire []byte) (*SequencerCommitment, error) {
	n, err := snappy.DecodedLen(wire)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid snappy header: %v", provenance.ErrMalformedInput, err)
	}
	if n < signatureSize {
		return nil, fmt.Errorf("%w: commitment of %d bytes is shorter than a signature", provenance.ErrMalformedInput, n)
	}
	raw, err := snappy.Decode(nil, wire)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decompress commitment: %v", provenance.ErrMalformedInput, err)
	}
	var sig eth.Bytes65
	copy(sig[:], raw[:signatureSize])
	return &SequencerCommitment{
		Data:      bytes.Clone(raw[signatureSize:]),
		Signature: SignatureFromBytes65(sig),
	}, nil
}

// Encode returns the wire form of c.
func Encode(c *SequencerCommitment) []byte {
	raw := make([]byte, 0, signatureSize+len(c.Data))
	sig := c.Signature.Bytes65()
	raw = append(raw, sig[:]...)
	raw = append(raw, c.Data...)
	return snappy.Encode(nil, raw)
}

// SigningHash is the digest the sequencer signs for chainID.
func (c *SequencerCommitment) SigningHash(chainID eth.ChainID) common.Hash {
	return signer.SignatureMessageHash(c.Data, chainID)
}

// Verify checks that the commitment was signed by expected for chainID.
func (c *SequencerCommitment) Verify(expected common.Address, chainID eth.ChainID) error {
	auth := &signer.OPStackP2PBlockAuthV1{Allowed: expected, Chain: chainID}
	if err := auth.VerifyP2PBlockSignature(signer.PayloadHash(c.Data), c.Signature.Bytes65()); err != nil {
		return fmt.Errorf("%w: invalid signer: %w", provenance.ErrAuthentication, err)
	}
	return nil
}

// ExecutionPayload decodes the Isthmus execution payload carried in the commitment data.
func (c *SequencerCommitment) ExecutionPayload() (*eth.ExecutionPayload, error) {
	if len(c.Data) < payloadOffset {
		return nil, fmt.Errorf("%w: commitment data of %d bytes has no payload", provenance.ErrMalformedInput, len(c.Data))
	}
	body := c.Data[payloadOffset:]
	var payload eth.ExecutionPayload
	if err := payload.UnmarshalSSZ(eth.BlockV4, uint32(len(body)), bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("%w: failed to decode execution payload: %w", provenance.ErrMalformedInput, err)
	}
	return &payload, nil
}
