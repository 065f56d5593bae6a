package query

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// RecordSize is the length of a packed ProofDataRecord.
const RecordSize = common.AddressLength*2 + 32*2 + 4*2 + 1

// ProofDataRecord is the validated proof data of one account in one market.
type ProofDataRecord struct {
	Account   common.Address
	Asset     common.Address
	AmountIn  *big.Int
	AmountOut *big.Int
	// SourceChain and TargetChain are right-truncated to 32 bits.
	SourceChain uint32
	TargetChain uint32
	L1Inclusion bool
}

// Pack encodes the record as account ‖ asset ‖ amountIn ‖ amountOut ‖ source ‖ target ‖ flag.
func (r *ProofDataRecord) Pack() []byte {
	out := make([]byte, 0, RecordSize)
	out = append(out, r.Account[:]...)
	out = append(out, r.Asset[:]...)
	out = appendWord(out, r.AmountIn)
	out = appendWord(out, r.AmountOut)
	out = binary.BigEndian.AppendUint32(out, r.SourceChain)
	out = binary.BigEndian.AppendUint32(out, r.TargetChain)
	if r.L1Inclusion {
		return append(out, 1)
	}
	return append(out, 0)
}

func appendWord(out []byte, v *big.Int) []byte {
	var word [32]byte
	if v != nil {
		// amounts are decoded from uint256 words, larger values are not representable
		word = uint256.MustFromBig(v).Bytes32()
	}
	return append(out, word[:]...)
}

// PackRecords packs every record of every result, in order.
func PackRecords(results ...[]ProofDataRecord) [][]byte {
	var out [][]byte
	for _, records := range results {
		for i := range records {
			out = append(out, records[i].Pack())
		}
	}
	return out
}

var bytesArrayArgs = func() abi.Arguments {
	typ, err := abi.NewType("bytes[]", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: typ}}
}()

// EncodeOutput ABI-encodes the packed records as bytes[].
func EncodeOutput(records [][]byte) ([]byte, error) {
	if records == nil {
		records = [][]byte{}
	}
	out, err := bytesArrayArgs.Pack(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	return out, nil
}

// DecodeOutput is the inverse of EncodeOutput.
func DecodeOutput(data []byte) ([][]byte, error) {
	values, err := bytesArrayArgs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode output: %w", err)
	}
	records, ok := values[0].([][]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected output type %T", values[0])
	}
	return records, nil
}
