package eth

import (
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/holiman/uint256"
)

// ChainID is a 256-bit chain identifier. Chain IDs are encoded as 32-byte
// big-endian words in signing messages, so the full width is kept.
type ChainID uint256.Int

func ChainIDFromUInt64(i uint64) ChainID {
	return ChainID(*uint256.NewInt(i))
}

func ChainIDFromBig(chainID *big.Int) ChainID {
	return ChainID(*uint256.MustFromBig(chainID))
}

func ChainIDFromBytes32(b [32]byte) ChainID {
	var v uint256.Int
	v.SetBytes32(b[:])
	return ChainID(v)
}

// ChainIDFromString parses a decimal or 0x-prefixed hex chain ID.
func ChainIDFromString(s string) (ChainID, error) {
	var v *uint256.Int
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = uint256.FromHex(s)
		if err != nil {
			// FromHex rejects leading zeroes, hashes commonly have them.
			raw := strings.TrimLeft(s[2:], "0")
			if raw == "" {
				raw = "0"
			}
			v, err = uint256.FromHex("0x" + raw)
		}
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return ChainID{}, fmt.Errorf("invalid chain ID %q: %w", s, err)
	}
	return ChainID(*v), nil
}

func (id ChainID) String() string {
	return ((*uint256.Int)(&id)).Dec()
}

func (id ChainID) ToBig() *big.Int {
	return ((*uint256.Int)(&id)).ToBig()
}

// Bytes32 returns the big-endian, left-padded 32 byte encoding.
func (id ChainID) Bytes32() [32]byte {
	return ((*uint256.Int)(&id)).Bytes32()
}

// ToUInt32 returns the low 32 bits of the chain ID, and whether the value fit without truncation.
func (id ChainID) ToUInt32() (uint32, bool) {
	v := (*uint256.Int)(&id)
	return uint32(v.Uint64()), v.IsUint64() && v.Uint64() <= 0xFFFF_FFFF
}

func (id ChainID) Cmp(other ChainID) int {
	return ((*uint256.Int)(&id)).Cmp((*uint256.Int)(&other))
}

func (id ChainID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ChainID) UnmarshalText(data []byte) error {
	v, err := ChainIDFromString(string(data))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func SortChainID(ids []ChainID) {
	slices.SortFunc(ids, func(a, b ChainID) int {
		return a.Cmp(b)
	})
}
