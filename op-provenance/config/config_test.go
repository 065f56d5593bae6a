package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainprov/chainprov/op-provenance/provenance"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Check())
	for _, chain := range provenance.AllChains {
		cc, ok := cfg.Chains[chain]
		require.True(t, ok, "missing %s", chain)
		require.EqualValues(t, 2, cc.ReorgDepth, chain.String())
	}
	require.Equal(t, "0x07d923e9", cfg.SelectorHex())

	all := cfg.Copy()
	all.Network = NetworkAll
	require.NoError(t, all.Check())
}

func TestChainLookup(t *testing.T) {
	cfg := Default()
	cc, err := cfg.Chain(provenance.OptimismMainnet)
	require.NoError(t, err)
	require.Equal(t, OptimismSequencer, cc.Sequencer)

	_, err = cfg.Chain(provenance.OptimismSepolia)
	require.ErrorIs(t, err, provenance.ErrUnsupportedChain)

	_, err = cfg.Chain(provenance.ChainID(137))
	require.ErrorIs(t, err, provenance.ErrUnsupportedChain)

	cfg.Network = NetworkTestnet
	_, err = cfg.Chain(provenance.OptimismMainnet)
	require.ErrorIs(t, err, provenance.ErrUnsupportedChain)
	_, err = cfg.Chain(provenance.LineaSepolia)
	require.NoError(t, err)
}

func TestCopyIsDeep(t *testing.T) {
	base := Default()
	cp := base.Copy()
	cp.Chains[provenance.OptimismMainnet].ReorgDepth = 10
	require.EqualValues(t, 2, base.Chains[provenance.OptimismMainnet].ReorgDepth)
}

func TestParseOverlay(t *testing.T) {
	doc := `
network = "all"
proof_maturity_grace = 600
proof_data_selector = "0x01020304"

[chains.optimism]
sequencer = "0x1111111111111111111111111111111111111111"
reorg_depth = 5
respected_game_type = 1
rpc = "http://localhost:9545"

[chains.ethereum]
secondary_anchor_chain = "optimism"
`
	cfg, err := Parse(doc, Default())
	require.NoError(t, err)
	require.Equal(t, NetworkAll, cfg.Network)
	require.EqualValues(t, 600, cfg.ProofMaturityGrace)
	require.Equal(t, [4]byte{1, 2, 3, 4}, cfg.ProofDataSelector)

	op := cfg.Chains[provenance.OptimismMainnet]
	require.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), op.Sequencer)
	require.EqualValues(t, 5, op.ReorgDepth)
	require.EqualValues(t, 1, op.RespectedGameType)
	require.Equal(t, "http://localhost:9545", op.RPC)
	require.Equal(t, OptimismPortal, op.Portal, "unset keys keep defaults")
	require.Equal(t, provenance.OptimismMainnet, cfg.Chains[provenance.EthereumMainnet].SecondaryAnchorChain)

	require.Equal(t, OptimismSequencer, Default().Chains[provenance.OptimismMainnet].Sequencer)
}

func TestParseErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown chain":    "[chains.polygon]\nreorg_depth = 1\n",
		"unknown key":      "[chains.base]\nsequenser = \"0x1111111111111111111111111111111111111111\"\n",
		"bad network":      "network = \"devnet\"\n",
		"bad selector":     "proof_data_selector = \"0x0102\"\n",
		"bad anchor name":  "[chains.ethereum]\nl1_anchor_chain = \"arbitrum\"\n",
		"invalid document": "network = ",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(doc, Default())
			require.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency = 9\n"), 0o644))
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 9, cfg.Concurrency)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	cfg := Default()
	cfg.Multicall = common.Address{}
	cfg.Concurrency = 0
	cfg.Chains[provenance.BaseMainnet].Portal = common.Address{}
	cfg.Chains[provenance.LineaMainnet].MessageService = common.Address{}
	cfg.Chains[provenance.OptimismMainnet].ReorgDepth = 0
	cfg.Chains[provenance.EthereumMainnet].L1AnchorChain = provenance.OptimismSepolia
	// testnet problems are ignored on a mainnet profile
	cfg.Chains[provenance.BaseSepolia].Sequencer = common.Address{}

	err := cfg.Check()
	require.ErrorIs(t, err, ErrMissingMulticall)
	require.ErrorIs(t, err, ErrInvalidConcurrency)
	require.ErrorIs(t, err, ErrMissingPortal)
	require.ErrorIs(t, err, ErrMissingMessageService)
	require.ErrorIs(t, err, ErrInvalidReorgDepth)
	require.ErrorIs(t, err, ErrInvalidAnchorChain)
	require.NotErrorIs(t, err, ErrMissingSequencer)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 6)
}

func TestNetwork(t *testing.T) {
	_, err := ParseNetwork("devnet")
	require.Error(t, err)
	require.True(t, NetworkMainnet.Allows(provenance.BaseMainnet))
	require.False(t, NetworkMainnet.Allows(provenance.BaseSepolia))
	require.True(t, NetworkTestnet.Allows(provenance.EthereumSepolia))
	require.True(t, NetworkAll.Allows(provenance.LineaSepolia))
	require.False(t, Network("").Allows(provenance.EthereumMainnet))
}
