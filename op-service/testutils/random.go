package testutils

import (
	"crypto/ecdsa"
	"math/big"
	"math/rand"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

func RandomHash(rng *rand.Rand) (out common.Hash) {
	rng.Read(out[:])
	return
}

func RandomAddress(rng *rand.Rand) (out common.Address) {
	rng.Read(out[:])
	return
}

func RandomData(rng *rand.Rand, size int) []byte {
	out := make([]byte, size)
	rng.Read(out)
	return out
}

// RandomKey returns a secp256k1 key derived from rng, panicking on the negligible failure case.
func RandomKey(rng *rand.Rand) *ecdsa.PrivateKey {
	for {
		key, err := crypto.ToECDSA(RandomData(rng, 32))
		if err == nil {
			return key
		}
	}
}

// RandomHeader returns a post-Cancun style header with random contents.
func RandomHeader(rng *rand.Rand) *types.Header {
	baseFee := big.NewInt(rng.Int63n(300_000_000_000))
	withdrawalsRoot := types.EmptyWithdrawalsHash
	blobGasUsed := uint64(rng.Intn(6)) * 131072
	excessBlobGas := uint64(rng.Int63n(10_000_000))
	beaconRoot := RandomHash(rng)
	return &types.Header{
		ParentHash:       RandomHash(rng),
		UncleHash:        types.EmptyUncleHash,
		Coinbase:         RandomAddress(rng),
		Root:             RandomHash(rng),
		TxHash:           RandomHash(rng),
		ReceiptHash:      RandomHash(rng),
		Bloom:            types.Bloom{},
		Difficulty:       big.NewInt(0),
		Number:           big.NewInt(1 + rng.Int63n(100_000_000)),
		GasLimit:         30_000_000,
		GasUsed:          uint64(rng.Int63n(30_000_000)),
		Time:             uint64(rng.Int63n(2_000_000_000)),
		Extra:            RandomData(rng, rng.Intn(33)),
		MixDigest:        RandomHash(rng),
		Nonce:            types.BlockNonce{},
		BaseFee:          baseFee,
		WithdrawalsHash:  &withdrawalsRoot,
		BlobGasUsed:      &blobGasUsed,
		ExcessBlobGas:    &excessBlobGas,
		ParentBeaconRoot: &beaconRoot,
	}
}

// NextHeader returns a random header that builds on parent.
func NextHeader(rng *rand.Rand, parent *types.Header) *types.Header {
	h := RandomHeader(rng)
	h.ParentHash = parent.Hash()
	h.Number = new(big.Int).Add(parent.Number, big.NewInt(1))
	h.Time = parent.Time + 12
	return h
}

// RandomHeaderChain returns n linked headers, the first one building on parentHash.
func RandomHeaderChain(rng *rand.Rand, parentHash common.Hash, n int) []*types.Header {
	out := make([]*types.Header, 0, n)
	for i := 0; i < n; i++ {
		var h *types.Header
		if i == 0 {
			h = RandomHeader(rng)
			h.ParentHash = parentHash
		} else {
			h = NextHeader(rng, out[i-1])
		}
		out = append(out, h)
	}
	return out
}
