package signer

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainprov/chainprov/op-service/eth"
)

// recoveryID maps the V byte of a [R ‖ S ‖ V] signature to a recovery ID.
// Both the raw parity (0, 1) and the legacy 27/28 offsets are accepted. Any other V,
// including 2 and 3, is rejected rather than read as even parity.
func recoveryID(v byte) (byte, bool) {
	switch v {
	case 0, 1:
		return v, true
	case 27, 28:
		return v - 27, true
	default:
		return 0, false
	}
}

func scalarS(sig *eth.Bytes65) (s secp256k1.ModNScalar, ok bool) {
	if overflow := s.SetByteSlice(sig[32:64]); overflow || s.IsZero() {
		return s, false
	}
	return s, true
}

// RecoverSigner recovers the address that produced sig over hash.
// Signatures with s in the upper half of the curve order are malleable and never recover.
// Any failure is reported as false, callers must treat that as untrusted.
func RecoverSigner(sig eth.Bytes65, hash common.Hash) (common.Address, bool) {
	s, ok := scalarS(&sig)
	if !ok || s.IsOverHalfOrder() {
		return common.Address{}, false
	}
	return recoverAddress(sig, hash)
}

// RecoverSignerNormalized recovers like RecoverSigner, but first rewrites a high-s
// signature into its low-s twin (s' = n - s, flipped parity), which recovers the same key.
func RecoverSignerNormalized(sig eth.Bytes65, hash common.Hash) (common.Address, bool) {
	recID, ok := recoveryID(sig[64])
	if !ok {
		return common.Address{}, false
	}
	s, ok := scalarS(&sig)
	if !ok {
		return common.Address{}, false
	}
	if s.IsOverHalfOrder() {
		s.Negate()
		recID ^= 1
		sBytes := s.Bytes()
		copy(sig[32:64], sBytes[:])
		sig[64] = recID
	}
	return recoverAddress(sig, hash)
}

func recoverAddress(sig eth.Bytes65, hash common.Hash) (common.Address, bool) {
	recID, ok := recoveryID(sig[64])
	if !ok {
		return common.Address{}, false
	}
	// compact format is [V ‖ R ‖ S] with V = 27 + recovery ID for uncompressed keys
	var compact [65]byte
	compact[0] = 27 + recID
	copy(compact[1:], sig[:64])
	pub, _, err := secpecdsa.RecoverCompact(compact[:], hash[:])
	if err != nil {
		return common.Address{}, false
	}
	return crypto.PubkeyToAddress(*pub.ToECDSA()), true
}
