package eth

import (
	"fmt"
	"reflect"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

type Bytes32 [32]byte

func (b *Bytes32) UnmarshalJSON(text []byte) error {
	return hexutil.UnmarshalFixedJSON(reflect.TypeOf(b), text, b[:])
}

func (b *Bytes32) UnmarshalText(text []byte) error {
	return hexutil.UnmarshalFixedText("Bytes32", text, b[:])
}

func (b Bytes32) MarshalText() ([]byte, error) {
	return hexutil.Bytes(b[:]).MarshalText()
}

func (b Bytes32) String() string {
	return hexutil.Encode(b[:])
}

// TerminalString implements log.TerminalStringer, formatting a string for console
// output during logging.
func (b Bytes32) TerminalString() string {
	return fmt.Sprintf("0x%x..%x", b[:3], b[29:])
}

type Bytes65 [65]byte

func (b *Bytes65) UnmarshalJSON(text []byte) error {
	return hexutil.UnmarshalFixedJSON(reflect.TypeOf(b), text, b[:])
}

func (b *Bytes65) UnmarshalText(text []byte) error {
	return hexutil.UnmarshalFixedText("Bytes65", text, b[:])
}

func (b Bytes65) MarshalText() ([]byte, error) {
	return hexutil.Bytes(b[:]).MarshalText()
}

func (b Bytes65) String() string {
	return hexutil.Encode(b[:])
}

func (b Bytes65) TerminalString() string {
	return fmt.Sprintf("0x%x..%x", b[:3], b[62:])
}

type Bytes256 [256]byte

func (b *Bytes256) UnmarshalJSON(text []byte) error {
	return hexutil.UnmarshalFixedJSON(reflect.TypeOf(b), text, b[:])
}

func (b *Bytes256) UnmarshalText(text []byte) error {
	return hexutil.UnmarshalFixedText("Bytes256", text, b[:])
}

func (b Bytes256) MarshalText() ([]byte, error) {
	return hexutil.Bytes(b[:]).MarshalText()
}

func (b Bytes256) String() string {
	return hexutil.Encode(b[:])
}

func (b Bytes256) TerminalString() string {
	return fmt.Sprintf("0x%x..%x", b[:3], b[253:])
}

type Data = hexutil.Bytes

type Uint64Quantity = hexutil.Uint64

type Uint256Quantity = hexutil.U256

// U256 is a convenience accessor for the base fee style quantities.
func U256(q *Uint256Quantity) *uint256.Int {
	return (*uint256.Int)(q)
}
