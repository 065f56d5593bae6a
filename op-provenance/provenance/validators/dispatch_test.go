package validators

import (
	"context"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/provtest"
	"github.com/chainprov/chainprov/op-service/testutils"
)

func TestSelect(t *testing.T) {
	h := newHarness(t)
	env, linking := h.linkedEnv(2)

	sel, err := Select(provenance.OptimismMainnet, &OpStackDirectInput{Env: env, Linking: linking})
	require.NoError(t, err)
	require.Equal(t, provenance.OptimismMainnet, sel.ReorgChain)
	require.Same(t, linking[1], sel.Target)
	require.Equal(t, env, sel.ReorgEnv)
	require.Equal(t, env, sel.BatchEnv)

	sel, err = Select(provenance.OptimismMainnet, &OpStackDirectInput{Env: env})
	require.NoError(t, err)
	require.Same(t, env.Head, sel.Target, "without linking headers the environment header is the target")

	l1Env, l1Linking := h.linkedEnv(3)
	sel, err = Select(provenance.BaseSepolia, &OpStackL1InclusionInput{L1Env: l1Env, OpEnv: env, Linking: l1Linking})
	require.NoError(t, err)
	require.Equal(t, provenance.EthereumSepolia, sel.ReorgChain)
	require.Equal(t, l1Env, sel.ReorgEnv)
	require.Equal(t, env, sel.BatchEnv)
	require.Same(t, l1Linking[2], sel.Target)

	_, err = Select(provenance.OptimismMainnet, nil)
	require.ErrorIs(t, err, provenance.ErrMalformedInput)
	_, err = Select(provenance.OptimismMainnet, &OpStackDirectInput{})
	require.ErrorIs(t, err, provenance.ErrMalformedInput)
	_, err = Select(provenance.OptimismMainnet, &OpStackDirectInput{Env: env, Linking: []*types.Header{nil}})
	require.ErrorIs(t, err, provenance.ErrMalformedInput)
}

func TestValidatedBlockHash(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	t.Run("ethereum", func(t *testing.T) {
		env, linking := h.linkedEnv(2)
		target := linking[1].Hash()
		in := &EthereumInput{Env: env, Linking: linking, Anchor: h.anchor(provenance.OptimismMainnet, target)}
		got, err := h.v.ValidatedBlockHash(ctx, provenance.EthereumMainnet, in)
		require.NoError(t, err)
		require.Equal(t, target, got)
		require.False(t, in.L1Inclusion())
	})

	t.Run("opstack direct", func(t *testing.T) {
		env, linking := h.linkedEnv(2)
		target := linking[1].Hash()
		c := provtest.SignCommitment(h.keys[provenance.OptimismMainnet], provenance.OptimismMainnet.EthChainID(), provtest.PayloadData(h.rng, target))
		got, err := h.v.ValidatedBlockHash(ctx, provenance.OptimismMainnet, &OpStackDirectInput{Env: env, Linking: linking, Commitment: c})
		require.NoError(t, err)
		require.Equal(t, target, got)

		// the commitment is bound to the last linking header, not the environment
		c = provtest.SignCommitment(h.keys[provenance.OptimismMainnet], provenance.OptimismMainnet.EthChainID(), provtest.PayloadData(h.rng, env.Head.Hash()))
		_, err = h.v.ValidatedBlockHash(ctx, provenance.OptimismMainnet, &OpStackDirectInput{Env: env, Linking: linking, Commitment: c})
		require.ErrorIs(t, err, provenance.ErrVerification)
	})

	t.Run("opstack l1 inclusion", func(t *testing.T) {
		opEnv, _ := h.linkedEnv(0)
		opEnv.Commit = provenance.Commitment{ID: provenance.EncodeCommitmentID(uint256.NewInt(7), 0), Digest: testutils.RandomHash(h.rng)}
		l1Env, l1Linking := h.linkedEnv(2)
		l1Env.Head.Time = gameNow
		h.expectGame(l1Env, provenance.BaseMainnet, opEnv.Commit, h.validGame(provenance.BaseMainnet, opEnv.Commit.Digest))
		l1Target := l1Linking[1].Hash()

		in := &OpStackL1InclusionInput{L1Env: l1Env, OpEnv: opEnv, Linking: l1Linking, Anchor: h.anchor(provenance.OptimismMainnet, l1Target)}
		got, err := h.v.ValidatedBlockHash(ctx, provenance.BaseMainnet, in)
		require.NoError(t, err)
		require.Equal(t, l1Target, got)
		require.True(t, in.L1Inclusion())

		in.Anchor = h.anchor(provenance.OptimismMainnet, testutils.RandomHash(h.rng))
		_, err = h.v.ValidatedBlockHash(ctx, provenance.BaseMainnet, in)
		require.ErrorIs(t, err, provenance.ErrVerification)
		require.ErrorContains(t, err, "hash mismatch opstack")

		in.Anchor = h.anchor(provenance.OptimismMainnet, l1Target)
		opEnv.Commit.Digest = testutils.RandomHash(h.rng)
		_, err = h.v.ValidatedBlockHash(ctx, provenance.BaseMainnet, in)
		require.ErrorContains(t, err, "root claim mismatch")
	})

	t.Run("linea direct", func(t *testing.T) {
		env, linking := h.linkedEnv(2)
		linking[1] = provtest.SignLineaHeader(h.keys[provenance.LineaSepolia], linking[1])
		got, err := h.v.ValidatedBlockHash(ctx, provenance.LineaSepolia, &LineaDirectInput{Env: env, Linking: linking})
		require.NoError(t, err)
		require.Equal(t, linking[1].Hash(), got)

		_, err = h.v.ValidatedBlockHash(ctx, provenance.LineaMainnet, &LineaDirectInput{Env: env, Linking: linking})
		require.ErrorIs(t, err, provenance.ErrAuthentication)
	})

	lineaL1 := func(finalized int64) (*LineaL1InclusionInput, *types.Header) {
		env, linking := h.linkedEnv(2)
		linking[1] = provtest.SignLineaHeader(h.keys[provenance.LineaMainnet], linking[1])
		l1Env, _ := h.linkedEnv(0)
		l1Env.ExpectCall(h.cfg.Chains[provenance.LineaMainnet].MessageService, encode(t, CurrentL2BlockNumberFunc),
			provtest.Pack([]string{"uint256"}, new(big.Int).Add(env.Head.Number, big.NewInt(finalized))))
		return &LineaL1InclusionInput{
			Env:     env,
			L1Env:   l1Env,
			Linking: linking,
			Anchor:  h.anchor(provenance.OptimismMainnet, l1Env.Head.Hash()),
		}, linking[1]
	}

	t.Run("linea l1 inclusion", func(t *testing.T) {
		for _, finalized := range []int64{0, 5} {
			in, target := lineaL1(finalized)
			got, err := h.v.ValidatedBlockHash(ctx, provenance.LineaMainnet, in)
			require.NoError(t, err)
			require.Equal(t, target.Hash(), got)
		}
	})

	t.Run("linea l1 inclusion not finalized", func(t *testing.T) {
		in, _ := lineaL1(-1)
		_, err := h.v.ValidatedBlockHash(ctx, provenance.LineaMainnet, in)
		require.ErrorIs(t, err, provenance.ErrVerification)
		require.ErrorContains(t, err, "not finalized")
	})

	t.Run("linea l1 inclusion anchored elsewhere", func(t *testing.T) {
		in, _ := lineaL1(0)
		in.Anchor = h.anchor(provenance.OptimismMainnet, testutils.RandomHash(h.rng))
		_, err := h.v.ValidatedBlockHash(ctx, provenance.LineaMainnet, in)
		require.ErrorContains(t, err, "ethereum hash mismatch linea")
	})

	t.Run("family mismatch", func(t *testing.T) {
		env, linking := h.linkedEnv(2)
		for chain, in := range map[provenance.ChainID]ValidationInput{
			provenance.OptimismMainnet: &LineaDirectInput{Env: env, Linking: linking},
			provenance.LineaMainnet:    &OpStackDirectInput{Env: env, Linking: linking},
			provenance.BaseMainnet:     &EthereumInput{Env: env, Linking: linking},
			provenance.EthereumMainnet: &OpStackL1InclusionInput{L1Env: env, OpEnv: env, Linking: linking},
			provenance.ChainID(56):     &LineaDirectInput{Env: env, Linking: linking},
		} {
			_, err := h.v.ValidatedBlockHash(ctx, chain, in)
			require.ErrorIs(t, err, provenance.ErrUnsupportedChain, "%s with %T", chain, in)
		}
	})
}
