package provtest

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"math/rand"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainprov/chainprov/op-provenance/provenance/commitment"
	"github.com/chainprov/chainprov/op-service/eth"
	"github.com/chainprov/chainprov/op-service/signer"
	"github.com/chainprov/chainprov/op-service/testutils"
)

// PayloadData returns commitment data carrying an Isthmus payload for blockHash.
func PayloadData(rng *rand.Rand, blockHash common.Hash) []byte {
	blobGasUsed := eth.Uint64Quantity(0)
	excessBlobGas := eth.Uint64Quantity(rng.Int63n(1000))
	withdrawalsRoot := testutils.RandomHash(rng)
	payload := &eth.ExecutionPayload{
		ParentHash:      testutils.RandomHash(rng),
		FeeRecipient:    testutils.RandomAddress(rng),
		StateRoot:       eth.Bytes32(testutils.RandomHash(rng)),
		ReceiptsRoot:    eth.Bytes32(testutils.RandomHash(rng)),
		BlockNumber:     eth.Uint64Quantity(rng.Int63n(100_000_000)),
		GasLimit:        30_000_000,
		GasUsed:         eth.Uint64Quantity(rng.Int63n(30_000_000)),
		Timestamp:       eth.Uint64Quantity(rng.Int63n(2_000_000_000)),
		ExtraData:       eth.Data{0x01, 0x00, 0x00, 0x00, 0xfa, 0x00, 0x00, 0x00, 0x06},
		BlockHash:       blockHash,
		Transactions:    []eth.Data{testutils.RandomData(rng, 120)},
		Withdrawals:     &types.Withdrawals{},
		BlobGasUsed:     &blobGasUsed,
		ExcessBlobGas:   &excessBlobGas,
		WithdrawalsRoot: &withdrawalsRoot,
	}
	var buf bytes.Buffer
	parentBeaconRoot := testutils.RandomHash(rng)
	buf.Write(parentBeaconRoot[:])
	if _, err := payload.MarshalSSZ(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// SignCommitment signs data as the sequencer of chainID.
func SignCommitment(key *ecdsa.PrivateKey, chainID eth.ChainID, data []byte) *commitment.SequencerCommitment {
	sig, err := signer.NewLocalSigner(key).SignBlockV1(context.Background(), chainID, signer.PayloadHash(data))
	if err != nil {
		panic(err)
	}
	return &commitment.SequencerCommitment{
		Data:      data,
		Signature: commitment.SignatureFromBytes65(sig),
	}
}

// SignLineaHeader appends the seal of key to the extra data of a copy of h.
func SignLineaHeader(key *ecdsa.PrivateKey, h *types.Header) *types.Header {
	sealed := types.CopyHeader(h)
	sig, err := signer.NewLocalSigner(key).SignHash(sealed.Hash())
	if err != nil {
		panic(err)
	}
	sealed.Extra = append(append([]byte{}, h.Extra...), sig[:]...)
	return sealed
}
