package validators

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/provtest"
	"github.com/chainprov/chainprov/op-service/testutils"
)

func TestValidateLineaHeader(t *testing.T) {
	h := newHarness(t)
	header := testutils.RandomHeader(h.rng)
	sealed := provtest.SignLineaHeader(h.keys[provenance.LineaMainnet], header)

	t.Run("sealed by sequencer", func(t *testing.T) {
		require.NoError(t, h.v.ValidateLineaHeader(provenance.LineaMainnet, sealed))
	})
	t.Run("sealed for the other network", func(t *testing.T) {
		err := h.v.ValidateLineaHeader(provenance.LineaSepolia, sealed)
		require.ErrorIs(t, err, provenance.ErrAuthentication)
		require.ErrorContains(t, err, "block not signed by linea sequencer")
	})
	t.Run("tampered header", func(t *testing.T) {
		tampered := *sealed
		tampered.GasUsed++
		require.ErrorIs(t, h.v.ValidateLineaHeader(provenance.LineaMainnet, &tampered), provenance.ErrAuthentication)
	})
	t.Run("extra data too short", func(t *testing.T) {
		short := *sealed
		short.Extra = sealed.Extra[:64]
		require.ErrorIs(t, h.v.ValidateLineaHeader(provenance.LineaMainnet, &short), provenance.ErrMalformedInput)
	})
	t.Run("seal only", func(t *testing.T) {
		bare := *header
		bare.Extra = nil
		require.NoError(t, h.v.ValidateLineaHeader(provenance.LineaMainnet, provtest.SignLineaHeader(h.keys[provenance.LineaMainnet], &bare)))
	})
	t.Run("malleated seal", func(t *testing.T) {
		malleated := *sealed
		malleated.Extra = append([]byte{}, sealed.Extra...)
		seal := malleated.Extra[len(malleated.Extra)-65:]
		var s secp256k1.ModNScalar
		s.SetByteSlice(seal[32:64])
		s.Negate()
		sb := s.Bytes()
		copy(seal[32:64], sb[:])
		seal[64] ^= 1
		err := h.v.ValidateLineaHeader(provenance.LineaMainnet, &malleated)
		require.ErrorIs(t, err, provenance.ErrAuthentication)
	})
	t.Run("not a linea chain", func(t *testing.T) {
		require.ErrorIs(t, h.v.ValidateLineaHeader(provenance.OptimismMainnet, sealed), provenance.ErrUnsupportedChain)
	})
	t.Run("missing header", func(t *testing.T) {
		require.ErrorIs(t, h.v.ValidateLineaHeader(provenance.LineaMainnet, nil), provenance.ErrMalformedInput)
	})
}

func FuzzLineaAdversarialKey(f *testing.F) {
	f.Add(int64(1), uint64(100), []byte("extra"))
	f.Add(int64(42), uint64(0), []byte{})
	f.Fuzz(func(t *testing.T, seed int64, number uint64, extra []byte) {
		h := newHarness(t)
		rng := rand.New(rand.NewSource(seed))
		key := testutils.RandomKey(rng)
		if crypto.PubkeyToAddress(key.PublicKey) == h.cfg.Chains[provenance.LineaMainnet].Sequencer {
			t.Skip("drew the sequencer key")
		}
		header := testutils.RandomHeader(rng)
		header.Number = new(big.Int).SetUint64(number)
		if len(extra) > 32 {
			extra = extra[:32]
		}
		header.Extra = extra
		err := h.v.ValidateLineaHeader(provenance.LineaMainnet, provtest.SignLineaHeader(key, header))
		require.ErrorIs(t, err, provenance.ErrAuthentication)
	})
}
