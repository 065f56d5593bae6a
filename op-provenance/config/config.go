package config

import (
	"errors"
	"fmt"
	"maps"

	"github.com/hashicorp/go-multierror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainprov/chainprov/op-provenance/provenance"
)

// DefaultProofMaturityGrace is subtracted from the portal's proof maturity delay
// when checking that a resolved dispute game has matured.
const DefaultProofMaturityGrace = 300

// DefaultReorgDepth is the number of linking headers required on every chain.
const DefaultReorgDepth = 2

// ProofDataSelector is the selector of getProofData(address,uint32).
var ProofDataSelector = [4]byte{0x07, 0xd9, 0x23, 0xe9}

var (
	ErrMissingSequencer      = errors.New("missing sequencer address")
	ErrMissingPortal         = errors.New("missing optimism portal address")
	ErrMissingFactory        = errors.New("missing dispute game factory address")
	ErrMissingMessageService = errors.New("missing linea message service address")
	ErrInvalidReorgDepth     = errors.New("reorg depth must be at least 1")
	ErrInvalidAnchorChain    = errors.New("invalid l1 anchor chain")
	ErrMissingMulticall      = errors.New("missing multicall address")
	ErrMissingL1Block        = errors.New("missing L1Block predeploy address")
	ErrInvalidConcurrency    = errors.New("concurrency must be at least 1")
)

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkAll     Network = "all"
)

func ParseNetwork(s string) (Network, error) {
	switch n := Network(s); n {
	case NetworkMainnet, NetworkTestnet, NetworkAll:
		return n, nil
	default:
		return "", fmt.Errorf("unknown network %q, expected one of mainnet, testnet, all", s)
	}
}

// Allows reports whether the network profile serves chain.
func (n Network) Allows(chain provenance.ChainID) bool {
	switch n {
	case NetworkMainnet:
		return !chain.IsTestnet()
	case NetworkTestnet:
		return chain.IsTestnet()
	case NetworkAll:
		return true
	default:
		return false
	}
}

func (n *Network) UnmarshalText(text []byte) error {
	v, err := ParseNetwork(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// ChainConfig holds the trust anchors and endpoints of one chain.
type ChainConfig struct {
	Sequencer          common.Address
	Portal             common.Address
	DisputeGameFactory common.Address
	MessageService     common.Address
	ReorgDepth         uint64
	// RespectedGameType is the dispute game type the portal accepts. Zero is the permissionless cannon game.
	RespectedGameType uint32

	// L1AnchorChain is the OP-Stack chain whose L1Block contract attests Ethereum block hashes.
	// Only set on Ethereum chains.
	L1AnchorChain provenance.ChainID
	// SecondaryAnchorChain optionally cross-checks the L1 block hash through another OP-Stack chain.
	SecondaryAnchorChain provenance.ChainID

	RPC                  string
	RPCFallback          string
	SequencerURL         string
	SequencerURLFallback string
}

type Config struct {
	Network            Network
	Chains             map[provenance.ChainID]*ChainConfig
	Multicall          common.Address
	ProofDataSelector  [4]byte
	L1BlockPredeploy   common.Address
	ProofMaturityGrace uint64
	Concurrency        int
}

// Chain returns the configuration of chain. Chains that are unknown, or
// excluded by the network profile, are unsupported.
func (c *Config) Chain(chain provenance.ChainID) (*ChainConfig, error) {
	if _, err := chain.Family(); err != nil {
		return nil, err
	}
	if !c.Network.Allows(chain) {
		return nil, fmt.Errorf("%w: chain %s is not served on network %s", provenance.ErrUnsupportedChain, chain, c.Network)
	}
	cc, ok := c.Chains[chain]
	if !ok {
		return nil, fmt.Errorf("%w: no configuration for chain %s", provenance.ErrUnsupportedChain, chain)
	}
	return cc, nil
}

// Copy returns a deep copy, so overrides do not leak into Default.
func (c *Config) Copy() *Config {
	out := *c
	out.Chains = maps.Clone(c.Chains)
	for k, v := range out.Chains {
		cc := *v
		out.Chains[k] = &cc
	}
	return &out
}

// Check validates every chain the network profile serves, reporting all problems at once.
func (c *Config) Check() error {
	var result *multierror.Error
	if _, err := ParseNetwork(string(c.Network)); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Multicall == (common.Address{}) {
		result = multierror.Append(result, ErrMissingMulticall)
	}
	if c.L1BlockPredeploy == (common.Address{}) {
		result = multierror.Append(result, ErrMissingL1Block)
	}
	if c.Concurrency < 1 {
		result = multierror.Append(result, ErrInvalidConcurrency)
	}
	for _, chain := range provenance.AllChains {
		if !c.Network.Allows(chain) {
			continue
		}
		cc, ok := c.Chains[chain]
		if !ok {
			continue
		}
		for _, err := range cc.check(chain, c) {
			result = multierror.Append(result, fmt.Errorf("%s: %w", chain, err))
		}
	}
	return result.ErrorOrNil()
}

func (cc *ChainConfig) check(chain provenance.ChainID, cfg *Config) []error {
	var errs []error
	if cc.ReorgDepth < 1 {
		errs = append(errs, ErrInvalidReorgDepth)
	}
	family, err := chain.Family()
	if err != nil {
		return append(errs, err)
	}
	switch family {
	case provenance.FamilyEthereum:
		if err := checkAnchor(chain, cc.L1AnchorChain, cfg, false); err != nil {
			errs = append(errs, err)
		}
		if err := checkAnchor(chain, cc.SecondaryAnchorChain, cfg, true); err != nil {
			errs = append(errs, err)
		}
	case provenance.FamilyOpStack:
		if cc.Sequencer == (common.Address{}) {
			errs = append(errs, ErrMissingSequencer)
		}
		if cc.Portal == (common.Address{}) {
			errs = append(errs, ErrMissingPortal)
		}
		if cc.DisputeGameFactory == (common.Address{}) {
			errs = append(errs, ErrMissingFactory)
		}
	case provenance.FamilyLinea:
		if cc.Sequencer == (common.Address{}) {
			errs = append(errs, ErrMissingSequencer)
		}
		if cc.MessageService == (common.Address{}) {
			errs = append(errs, ErrMissingMessageService)
		}
	}
	return errs
}

// checkAnchor requires anchor to be an OP-Stack chain settling on the Ethereum chain.
func checkAnchor(chain, anchor provenance.ChainID, cfg *Config, optional bool) error {
	if anchor == 0 && optional {
		return nil
	}
	if err := anchor.RequireFamily(provenance.FamilyOpStack); err != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalidAnchorChain, anchor, err)
	}
	if l1, _ := anchor.L1(); l1 != chain {
		return fmt.Errorf("%w: %s does not settle on %s", ErrInvalidAnchorChain, anchor, chain)
	}
	if _, ok := cfg.Chains[anchor]; !ok {
		return fmt.Errorf("%w: %s has no configuration", ErrInvalidAnchorChain, anchor)
	}
	return nil
}

// ReorgDepth returns the number of linking headers chain requires.
func (c *Config) ReorgDepth(chain provenance.ChainID) (uint64, error) {
	cc, err := c.Chain(chain)
	if err != nil {
		return 0, err
	}
	return cc.ReorgDepth, nil
}

func (c *Config) SelectorHex() string {
	return hexutil.Encode(c.ProofDataSelector[:])
}
