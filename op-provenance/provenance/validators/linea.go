package validators

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-service/eth"
	"github.com/chainprov/chainprov/op-service/signer"
)

const sealSize = 65

// ValidateLineaHeader checks that header carries the seal of the Linea sequencer of chain.
// The seal is the last 65 bytes of the extra data, over the hash of the header without it.
func (v *Validator) ValidateLineaHeader(chain provenance.ChainID, header *types.Header) error {
	if err := chain.RequireFamily(provenance.FamilyLinea); err != nil {
		return err
	}
	cc, err := v.cfg.Chain(chain)
	if err != nil {
		return err
	}
	if header == nil {
		return fmt.Errorf("%w: missing linea header", provenance.ErrMalformedInput)
	}
	if len(header.Extra) < sealSize {
		return fmt.Errorf("%w: extra data of %d bytes is too short for a seal", provenance.ErrMalformedInput, len(header.Extra))
	}
	split := len(header.Extra) - sealSize
	var seal eth.Bytes65
	copy(seal[:], header.Extra[split:])

	unsealed := types.CopyHeader(header)
	unsealed.Extra = bytes.Clone(header.Extra[:split])
	sighash := unsealed.Hash()

	addr, ok := signer.RecoverSigner(seal, sighash)
	if !ok {
		return fmt.Errorf("%w: block not signed by linea sequencer: unrecoverable seal over %s", provenance.ErrAuthentication, sighash)
	}
	if addr != cc.Sequencer {
		return fmt.Errorf("%w: block not signed by linea sequencer: signer %s, expected %s", provenance.ErrAuthentication, addr, cc.Sequencer)
	}
	v.log.Debug("Linea header seal verified", "chain", chain, "number", header.Number, "hash", header.Hash())
	return nil
}
