package provenance

import (
	"fmt"
	"strings"

	"github.com/chainprov/chainprov/op-service/eth"
)

// ChainID is one of the supported source chains.
type ChainID uint64

const (
	EthereumMainnet ChainID = 1
	OptimismMainnet ChainID = 10
	BaseMainnet     ChainID = 8453
	LineaMainnet    ChainID = 59144
	EthereumSepolia ChainID = 11155111
	OptimismSepolia ChainID = 11155420
	BaseSepolia     ChainID = 84532
	LineaSepolia    ChainID = 59141
)

// AllChains lists every supported chain, mainnets first.
var AllChains = []ChainID{
	EthereumMainnet, OptimismMainnet, BaseMainnet, LineaMainnet,
	EthereumSepolia, OptimismSepolia, BaseSepolia, LineaSepolia,
}

type Family uint8

const (
	FamilyEthereum Family = iota + 1
	FamilyOpStack
	FamilyLinea
)

func (f Family) String() string {
	switch f {
	case FamilyEthereum:
		return "ethereum"
	case FamilyOpStack:
		return "opstack"
	case FamilyLinea:
		return "linea"
	default:
		return fmt.Sprintf("family(%d)", uint8(f))
	}
}

// ParseChainID maps a numeric chain id onto the supported set.
func ParseChainID(id uint64) (ChainID, error) {
	c := ChainID(id)
	if _, err := c.Family(); err != nil {
		return 0, err
	}
	return c, nil
}

// ChainIDFromName parses the names used in configuration and flags, e.g. "optimism-sepolia".
func ChainIDFromName(name string) (ChainID, error) {
	for _, c := range AllChains {
		if c.String() == strings.ToLower(name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown chain name %q", ErrUnsupportedChain, name)
}

func (c ChainID) Family() (Family, error) {
	switch c {
	case EthereumMainnet, EthereumSepolia:
		return FamilyEthereum, nil
	case OptimismMainnet, OptimismSepolia, BaseMainnet, BaseSepolia:
		return FamilyOpStack, nil
	case LineaMainnet, LineaSepolia:
		return FamilyLinea, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedChain, uint64(c))
	}
}

// RequireFamily fails unless c belongs to f.
func (c ChainID) RequireFamily(f Family) error {
	got, err := c.Family()
	if err != nil {
		return err
	}
	if got != f {
		return fmt.Errorf("%w: chain %s is not a %s chain", ErrUnsupportedChain, c, f)
	}
	return nil
}

func (c ChainID) IsTestnet() bool {
	switch c {
	case EthereumSepolia, OptimismSepolia, BaseSepolia, LineaSepolia:
		return true
	default:
		return false
	}
}

// L1 returns the Ethereum network the chain settles on.
func (c ChainID) L1() (ChainID, error) {
	if _, err := c.Family(); err != nil {
		return 0, err
	}
	if c.IsTestnet() {
		return EthereumSepolia, nil
	}
	return EthereumMainnet, nil
}

func (c ChainID) String() string {
	switch c {
	case EthereumMainnet:
		return "ethereum"
	case OptimismMainnet:
		return "optimism"
	case BaseMainnet:
		return "base"
	case LineaMainnet:
		return "linea"
	case EthereumSepolia:
		return "ethereum-sepolia"
	case OptimismSepolia:
		return "optimism-sepolia"
	case BaseSepolia:
		return "base-sepolia"
	case LineaSepolia:
		return "linea-sepolia"
	default:
		return fmt.Sprintf("unknown(%d)", uint64(c))
	}
}

func (c ChainID) Uint64() uint64 {
	return uint64(c)
}

// EthChainID is the 256 bit form used in signing messages.
func (c ChainID) EthChainID() eth.ChainID {
	return eth.ChainIDFromUInt64(uint64(c))
}

func (c ChainID) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ChainID) UnmarshalText(text []byte) error {
	v, err := ChainIDFromName(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
