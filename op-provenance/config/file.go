package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainprov/chainprov/op-provenance/provenance"
)

// fileConfig is the TOML overlay. Unset keys keep their default.
type fileConfig struct {
	Network            *Network                    `toml:"network"`
	Multicall          *common.Address             `toml:"multicall"`
	ProofDataSelector  *hexutil.Bytes              `toml:"proof_data_selector"`
	L1BlockPredeploy   *common.Address             `toml:"l1_block_predeploy"`
	ProofMaturityGrace *uint64                     `toml:"proof_maturity_grace"`
	Concurrency        *int                        `toml:"concurrency"`
	Chains             map[string]*fileChainConfig `toml:"chains"`
}

type fileChainConfig struct {
	Sequencer            *common.Address     `toml:"sequencer"`
	Portal               *common.Address     `toml:"portal"`
	DisputeGameFactory   *common.Address     `toml:"dispute_game_factory"`
	MessageService       *common.Address     `toml:"message_service"`
	ReorgDepth           *uint64             `toml:"reorg_depth"`
	RespectedGameType    *uint32             `toml:"respected_game_type"`
	L1AnchorChain        *provenance.ChainID `toml:"l1_anchor_chain"`
	SecondaryAnchorChain *provenance.ChainID `toml:"secondary_anchor_chain"`
	RPC                  *string             `toml:"rpc"`
	RPCFallback          *string             `toml:"rpc_fallback"`
	SequencerURL         *string             `toml:"sequencer_url"`
	SequencerURLFallback *string             `toml:"sequencer_url_fallback"`
}

// LoadFile overlays the TOML file at path on the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(string(data), Default())
}

// Parse overlays the TOML document on a copy of base.
func Parse(doc string, base *Config) (*Config, error) {
	var fc fileConfig
	md, err := toml.Decode(doc, &fc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	cfg := base.Copy()
	setIf(&cfg.Network, fc.Network)
	setIf(&cfg.Multicall, fc.Multicall)
	setIf(&cfg.L1BlockPredeploy, fc.L1BlockPredeploy)
	setIf(&cfg.ProofMaturityGrace, fc.ProofMaturityGrace)
	setIf(&cfg.Concurrency, fc.Concurrency)
	if fc.ProofDataSelector != nil {
		if len(*fc.ProofDataSelector) != 4 {
			return nil, fmt.Errorf("proof data selector must be 4 bytes, got %d", len(*fc.ProofDataSelector))
		}
		copy(cfg.ProofDataSelector[:], *fc.ProofDataSelector)
	}
	for name, fcc := range fc.Chains {
		chain, err := provenance.ChainIDFromName(name)
		if err != nil {
			return nil, err
		}
		cc, ok := cfg.Chains[chain]
		if !ok {
			cc = &ChainConfig{ReorgDepth: DefaultReorgDepth}
			cfg.Chains[chain] = cc
		}
		fcc.apply(cc)
	}
	return cfg, nil
}

func (f *fileChainConfig) apply(cc *ChainConfig) {
	setIf(&cc.Sequencer, f.Sequencer)
	setIf(&cc.Portal, f.Portal)
	setIf(&cc.DisputeGameFactory, f.DisputeGameFactory)
	setIf(&cc.MessageService, f.MessageService)
	setIf(&cc.ReorgDepth, f.ReorgDepth)
	setIf(&cc.RespectedGameType, f.RespectedGameType)
	setIf(&cc.L1AnchorChain, f.L1AnchorChain)
	setIf(&cc.SecondaryAnchorChain, f.SecondaryAnchorChain)
	setIf(&cc.RPC, f.RPC)
	setIf(&cc.RPCFallback, f.RPCFallback)
	setIf(&cc.SequencerURL, f.SequencerURL)
	setIf(&cc.SequencerURLFallback, f.SequencerURLFallback)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
