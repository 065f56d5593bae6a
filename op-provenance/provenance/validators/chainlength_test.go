package validators

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-service/testutils"
)

func TestValidateChainLength(t *testing.T) {
	h := newHarness(t)
	historical := testutils.RandomHash(h.rng)
	canonical := testutils.RandomHeaderChain(h.rng, historical, 3)
	current := canonical[2].Hash()

	t.Run("linked", func(t *testing.T) {
		require.NoError(t, h.v.ValidateChainLength(provenance.BaseMainnet, historical, canonical, current))
	})
	t.Run("exactly the depth", func(t *testing.T) {
		require.NoError(t, h.v.ValidateChainLength(provenance.BaseMainnet, historical, canonical[:2], canonical[1].Hash()))
	})
	t.Run("too short", func(t *testing.T) {
		err := h.v.ValidateChainLength(provenance.BaseMainnet, historical, canonical[:1], canonical[0].Hash())
		require.ErrorIs(t, err, provenance.ErrReorgProtection)
		require.ErrorContains(t, err, "chain length is less than reorg protection")
	})
	t.Run("empty", func(t *testing.T) {
		err := h.v.ValidateChainLength(provenance.BaseMainnet, historical, nil, testutils.RandomHash(h.rng))
		require.ErrorContains(t, err, "chain length is less than reorg protection")
	})
	t.Run("orphaned block", func(t *testing.T) {
		orphan := testutils.RandomHeader(h.rng)
		orphan.ParentHash = canonical[0].Hash()
		orphan.Number = canonical[1].Number
		require.NotEqual(t, orphan.Hash(), canonical[1].Hash())
		err := h.v.ValidateChainLength(provenance.BaseMainnet, historical, canonical, orphan.Hash())
		require.ErrorIs(t, err, provenance.ErrReorgProtection)
		require.ErrorContains(t, err, "last hash doesn't correspond to verified hash")
	})
	t.Run("broken link", func(t *testing.T) {
		broken := testutils.RandomHeaderChain(h.rng, historical, 6)
		broken[1].ParentHash = testutils.RandomHash(h.rng)
		for i := 2; i < len(broken); i++ {
			broken[i].ParentHash = broken[i-1].Hash()
		}
		err := h.v.ValidateChainLength(provenance.BaseMainnet, historical, broken, broken[5].Hash())
		require.ErrorIs(t, err, provenance.ErrReorgProtection)
		require.ErrorContains(t, err, "blocks not hashlinked")
	})
	t.Run("wrong historical hash", func(t *testing.T) {
		err := h.v.ValidateChainLength(provenance.BaseMainnet, testutils.RandomHash(h.rng), canonical, current)
		require.ErrorIs(t, err, provenance.ErrReorgProtection)
		require.ErrorContains(t, err, "blocks not hashlinked")
	})
	t.Run("nil header", func(t *testing.T) {
		err := h.v.ValidateChainLength(provenance.BaseMainnet, historical, append(canonical[:1:1], nil), current)
		require.ErrorIs(t, err, provenance.ErrMalformedInput)
	})
	t.Run("unsupported chain", func(t *testing.T) {
		err := h.v.ValidateChainLength(provenance.ChainID(137), historical, canonical, current)
		require.ErrorIs(t, err, provenance.ErrUnsupportedChain)
	})
	t.Run("configured depth", func(t *testing.T) {
		h.cfg.Chains[provenance.LineaMainnet].ReorgDepth = 4
		defer func() { h.cfg.Chains[provenance.LineaMainnet].ReorgDepth = 2 }()
		err := h.v.ValidateChainLength(provenance.LineaMainnet, historical, canonical, current)
		require.ErrorContains(t, err, "chain length is less than reorg protection")
	})
}

func TestReorgDepthIsTwoEverywhere(t *testing.T) {
	h := newHarness(t)
	for _, chain := range provenance.AllChains {
		depth, err := h.cfg.ReorgDepth(chain)
		require.NoError(t, err)
		require.EqualValues(t, 2, depth, chain.String())
	}
}
