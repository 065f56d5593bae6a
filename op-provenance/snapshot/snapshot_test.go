package snapshot

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/commitment"
	"github.com/chainprov/chainprov/op-provenance/provenance/provtest"
	"github.com/chainprov/chainprov/op-provenance/provenance/validators"
	"github.com/chainprov/chainprov/op-service/testutils"
)

func randomEnv(rng *rand.Rand) *Env {
	head := testutils.RandomHeader(rng)
	return NewEnv(head, provenance.Commitment{
		ID:     provenance.EncodeCommitmentID(uint256.NewInt(42), 1),
		Digest: head.Hash(),
	})
}

func TestEnv(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	env := randomEnv(rng)
	to := testutils.RandomAddress(rng)
	env.Record(to, []byte{1, 2}, []byte{3})
	env.Record(to, []byte{1, 2, 3}, []byte{4})
	env.Record(to, []byte{1, 2}, []byte{5})

	ctx := context.Background()
	out, err := env.Call(ctx, to, []byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, []byte{5}, out, "latest recording wins")
	require.Len(t, env.Calls(), 2)

	_, err = env.Call(ctx, to, []byte{1})
	require.ErrorIs(t, err, provenance.ErrMalformedInput)
	_, err = env.Call(ctx, common.Address{}, []byte{1, 2})
	require.ErrorIs(t, err, provenance.ErrMalformedInput)

	data, err := json.Marshal(env)
	require.NoError(t, err)
	var dec Env
	require.NoError(t, json.Unmarshal(data, &dec))
	require.Equal(t, env.Header().Hash(), dec.Header().Hash())
	require.Equal(t, env.Commitment().Digest, dec.Commitment().Digest)
	index, version := dec.Commitment().DecodeID()
	require.Equal(t, uint64(42), index.Uint64())
	require.Equal(t, uint16(1), version)
	out, err = dec.Call(ctx, to, []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []byte{4}, out)

	require.Error(t, json.Unmarshal([]byte(`{"calls":[]}`), &dec), "header is required")
}

func wireCommitment(rng *rand.Rand, chain provenance.ChainID, blockHash common.Hash) []byte {
	c := provtest.SignCommitment(testutils.RandomKey(rng), chain.EthChainID(), provtest.PayloadData(rng, blockHash))
	return commitment.Encode(c)
}

func randomAnchor(rng *rand.Rand) *Anchor {
	env := randomEnv(rng)
	return &Anchor{Commitment: wireCommitment(rng, provenance.OptimismMainnet, env.Header().Hash()), Env: env}
}

func TestLoadFile(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	view := randomEnv(rng)
	linking := testutils.RandomHeaderChain(rng, view.Header().Hash(), 2)
	l1 := randomEnv(rng)
	base := func(chain provenance.ChainID, l1Inclusion bool) *Query {
		return &Query{
			Chain:        chain,
			Accounts:     []common.Address{testutils.RandomAddress(rng)},
			Assets:       []common.Address{testutils.RandomAddress(rng)},
			TargetChains: []uint64{uint64(provenance.BaseMainnet)},
			L1Inclusion:  l1Inclusion,
			Env:          view,
			Linking:      linking,
		}
	}
	eth := base(provenance.EthereumMainnet, false)
	eth.Anchor = randomAnchor(rng)
	eth.Secondary = randomAnchor(rng)
	opDirect := base(provenance.OptimismSepolia, false)
	opDirect.Commitment = wireCommitment(rng, provenance.OptimismSepolia, linking[1].Hash())
	opL1 := base(provenance.BaseMainnet, true)
	opL1.L1Env = l1
	opL1.Anchor = randomAnchor(rng)
	lineaDirect := base(provenance.LineaMainnet, false)
	lineaL1 := base(provenance.LineaSepolia, true)
	lineaL1.L1Env = l1
	lineaL1.Anchor = randomAnchor(rng)

	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, WriteFile(path, &File{Queries: []*Query{eth, opDirect, opL1, lineaDirect, lineaL1}}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"chain": "optimism-sepolia"`)

	f, err := LoadFile(path)
	require.NoError(t, err)
	queries, err := f.ProofDataQueries()
	require.NoError(t, err)
	require.Len(t, queries, 5)

	ethIn, ok := queries[0].Input.(*validators.EthereumInput)
	require.True(t, ok)
	require.NotNil(t, ethIn.Secondary)
	require.Equal(t, linking[1].Hash(), ethIn.Linking[1].Hash())
	require.Equal(t, view.Header().Hash(), ethIn.Env.Header().Hash())

	opIn, ok := queries[1].Input.(*validators.OpStackDirectInput)
	require.True(t, ok)
	require.Equal(t, opDirect.Commitment, hexutil.Bytes(commitment.Encode(opIn.Commitment)))

	opL1In, ok := queries[2].Input.(*validators.OpStackL1InclusionInput)
	require.True(t, ok)
	require.Equal(t, l1.Header().Hash(), opL1In.L1Env.Header().Hash())
	require.Equal(t, view.Header().Hash(), opL1In.OpEnv.Header().Hash())

	_, ok = queries[3].Input.(*validators.LineaDirectInput)
	require.True(t, ok)
	_, ok = queries[4].Input.(*validators.LineaL1InclusionInput)
	require.True(t, ok)
	for i, q := range queries {
		require.Equal(t, f.Queries[i].Chain, q.Chain)
		require.Equal(t, f.Queries[i].L1Inclusion, q.Input.L1Inclusion())
		require.NoError(t, q.Check())
	}
}

func TestQueryErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	view := randomEnv(rng)

	tests := []struct {
		name string
		q    *Query
		err  error
	}{
		{"no environment", &Query{Chain: provenance.LineaMainnet}, provenance.ErrMalformedInput},
		{"ethereum l1 inclusion", &Query{Chain: provenance.EthereumMainnet, Env: view, L1Inclusion: true, Anchor: randomAnchor(rng)}, provenance.ErrUnsupportedChain},
		{"ethereum without anchor", &Query{Chain: provenance.EthereumMainnet, Env: view}, provenance.ErrMalformedInput},
		{"opstack bad commitment", &Query{Chain: provenance.BaseMainnet, Env: view, Commitment: []byte{0xff, 0xff}}, provenance.ErrMalformedInput},
		{"opstack l1 inclusion without l1", &Query{Chain: provenance.BaseMainnet, Env: view, L1Inclusion: true, Anchor: randomAnchor(rng)}, provenance.ErrMalformedInput},
		{"linea l1 inclusion without anchor", &Query{Chain: provenance.LineaMainnet, Env: view, L1Env: view, L1Inclusion: true}, provenance.ErrMalformedInput},
		{"unknown chain", &Query{Chain: provenance.ChainID(56), Env: view}, provenance.ErrUnsupportedChain},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.q.ProofDataQuery()
			require.ErrorIs(t, err, test.err)
		})
	}

	_, err := (&File{Queries: []*Query{nil}}).ProofDataQueries()
	require.ErrorIs(t, err, provenance.ErrMalformedInput)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"queries":[{"chain":"dogechain"}]}`), 0o644))
	_, err = LoadFile(path)
	require.ErrorIs(t, err, provenance.ErrMalformedInput)
}
