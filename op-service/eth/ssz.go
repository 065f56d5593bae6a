package eth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// BlockVersion selects the SSZ layout of an ExecutionPayload.
type BlockVersion int

const (
	BlockV1 BlockVersion = iota // Bedrock
	BlockV2                     // Canyon: withdrawals list
	BlockV3                     // Ecotone: blob gas fields
	BlockV4                     // Isthmus: withdrawals root
)

func (v BlockVersion) HasWithdrawals() bool {
	return v >= BlockV2
}

func (v BlockVersion) HasBlobProperties() bool {
	return v >= BlockV3
}

func (v BlockVersion) HasWithdrawalsRoot() bool {
	return v >= BlockV4
}

func (v BlockVersion) String() string {
	switch v {
	case BlockV1:
		return "v1"
	case BlockV2:
		return "v2"
	case BlockV3:
		return "v3"
	case BlockV4:
		return "v4"
	default:
		return fmt.Sprintf("unknown(%d)", int(v))
	}
}

const (
	maxExtraDataSize          = 32
	maxTransactionsPerPayload = 1 << 20
	maxTransactionSize        = 1 << 30
	maxWithdrawalsPerPayload  = 1 << 4
	withdrawalSize            = 8 + 8 + 20 + 8
	offsetSize                = 4
)

// fixed part of a Bedrock payload, later versions append to it
const fixedPartV1 = 32 + 20 + 32 + 32 + 256 + 32 + 8 + 8 + 8 + 8 + offsetSize + 32 + 32 + offsetSize

var (
	ErrExtraDataTooLarge     = errors.New("extra data too large")
	ErrBadExtraDataOffset    = errors.New("extra data offset does not match fixed part size")
	ErrBadTransactionOffset  = errors.New("transactions offset is smaller than extra data offset, aborting")
	ErrBadWithdrawalsOffset  = errors.New("withdrawals offset is smaller than transactions offset, aborting")
	ErrTooManyTxs            = errors.New("too many transactions in payload")
	ErrTxTooLarge            = errors.New("transaction too large")
	ErrTooManyWithdrawals    = errors.New("too many withdrawals in payload")
	ErrPayloadTooShort       = errors.New("payload too short")
	ErrBadWithdrawalsSection = errors.New("withdrawals section is not a multiple of the withdrawal size")
)

// executionPayloadFixedPart is the size of the fixed-length part of the payload,
// i.e. everything up to the first variable-length field.
func executionPayloadFixedPart(version BlockVersion) uint32 {
	size := uint32(fixedPartV1)
	if version.HasWithdrawals() {
		size += offsetSize
	}
	if version.HasBlobProperties() {
		size += 8 + 8
	}
	if version.HasWithdrawalsRoot() {
		size += 32
	}
	return size
}

// ExecutionPayload is the execution payload as gossiped by sequencers, and as
// embedded in sequencer commitments.
type ExecutionPayload struct {
	ParentHash    common.Hash     `json:"parentHash"`
	FeeRecipient  common.Address  `json:"feeRecipient"`
	StateRoot     Bytes32         `json:"stateRoot"`
	ReceiptsRoot  Bytes32         `json:"receiptsRoot"`
	LogsBloom     Bytes256        `json:"logsBloom"`
	PrevRandao    Bytes32         `json:"prevRandao"`
	BlockNumber   Uint64Quantity  `json:"blockNumber"`
	GasLimit      Uint64Quantity  `json:"gasLimit"`
	GasUsed       Uint64Quantity  `json:"gasUsed"`
	Timestamp     Uint64Quantity  `json:"timestamp"`
	ExtraData     Data            `json:"extraData"`
	BaseFeePerGas Uint256Quantity `json:"baseFeePerGas"`
	BlockHash     common.Hash     `json:"blockHash"`
	Transactions  []Data          `json:"transactions"`

	// nil before Canyon
	Withdrawals *types.Withdrawals `json:"withdrawals,omitempty"`
	// nil before Ecotone
	BlobGasUsed   *Uint64Quantity `json:"blobGasUsed,omitempty"`
	ExcessBlobGas *Uint64Quantity `json:"excessBlobGas,omitempty"`
	// nil before Isthmus
	WithdrawalsRoot *common.Hash `json:"withdrawalsRoot,omitempty"`
}

// Version infers the SSZ layout from the optional fields that are set.
func (payload *ExecutionPayload) Version() BlockVersion {
	switch {
	case payload.WithdrawalsRoot != nil:
		return BlockV4
	case payload.BlobGasUsed != nil || payload.ExcessBlobGas != nil:
		return BlockV3
	case payload.Withdrawals != nil:
		return BlockV2
	default:
		return BlockV1
	}
}

func (payload *ExecutionPayload) ID() BlockID {
	return BlockID{Hash: payload.BlockHash, Number: uint64(payload.BlockNumber)}
}

// BlockID identifies a block by hash and number.
type BlockID struct {
	Hash   common.Hash `json:"hash"`
	Number uint64      `json:"number"`
}

func (id BlockID) String() string {
	return fmt.Sprintf("%s:%d", id.Hash.String(), id.Number)
}

func (id BlockID) TerminalString() string {
	return fmt.Sprintf("%s:%d", id.Hash.TerminalString(), id.Number)
}

func marshalTransactions(txs []Data) ([]byte, error) {
	if len(txs) > maxTransactionsPerPayload {
		return nil, ErrTooManyTxs
	}
	size := len(txs) * offsetSize
	for _, tx := range txs {
		if len(tx) > maxTransactionSize {
			return nil, ErrTxTooLarge
		}
		size += len(tx)
	}
	out := make([]byte, size)
	offset := uint32(len(txs) * offsetSize)
	for i, tx := range txs {
		binary.LittleEndian.PutUint32(out[i*offsetSize:], offset)
		copy(out[offset:], tx)
		offset += uint32(len(tx))
	}
	return out, nil
}

func unmarshalTransactions(in []byte) ([]Data, error) {
	if len(in) == 0 {
		return make([]Data, 0), nil
	}
	if len(in) < offsetSize {
		return nil, fmt.Errorf("%w: transactions section of %d bytes", ErrPayloadTooShort, len(in))
	}
	first := binary.LittleEndian.Uint32(in[:offsetSize])
	if first%offsetSize != 0 || first == 0 || uint64(first) > uint64(len(in)) {
		return nil, fmt.Errorf("%w: first transaction offset %d", ErrBadTransactionOffset, first)
	}
	count := first / offsetSize
	if count > maxTransactionsPerPayload {
		return nil, ErrTooManyTxs
	}
	txs := make([]Data, count)
	for i := uint32(0); i < count; i++ {
		start := binary.LittleEndian.Uint32(in[i*offsetSize : (i+1)*offsetSize])
		end := uint32(len(in))
		if i+1 < count {
			end = binary.LittleEndian.Uint32(in[(i+1)*offsetSize : (i+2)*offsetSize])
		}
		if start < first || start > end || uint64(end) > uint64(len(in)) {
			return nil, fmt.Errorf("%w: transaction %d spans [%d, %d)", ErrBadTransactionOffset, i, start, end)
		}
		if end-start > maxTransactionSize {
			return nil, ErrTxTooLarge
		}
		txs[i] = in[start:end]
	}
	return txs, nil
}

func marshalWithdrawals(w *types.Withdrawals) ([]byte, error) {
	if w == nil {
		return nil, nil
	}
	if len(*w) > maxWithdrawalsPerPayload {
		return nil, ErrTooManyWithdrawals
	}
	out := make([]byte, len(*w)*withdrawalSize)
	for i, wd := range *w {
		b := out[i*withdrawalSize : (i+1)*withdrawalSize]
		binary.LittleEndian.PutUint64(b[0:8], wd.Index)
		binary.LittleEndian.PutUint64(b[8:16], wd.Validator)
		copy(b[16:36], wd.Address[:])
		binary.LittleEndian.PutUint64(b[36:44], wd.Amount)
	}
	return out, nil
}

func unmarshalWithdrawals(in []byte) (*types.Withdrawals, error) {
	if len(in)%withdrawalSize != 0 {
		return nil, ErrBadWithdrawalsSection
	}
	count := len(in) / withdrawalSize
	if count > maxWithdrawalsPerPayload {
		return nil, ErrTooManyWithdrawals
	}
	withdrawals := make(types.Withdrawals, count)
	for i := range withdrawals {
		b := in[i*withdrawalSize : (i+1)*withdrawalSize]
		withdrawals[i] = &types.Withdrawal{
			Index:     binary.LittleEndian.Uint64(b[0:8]),
			Validator: binary.LittleEndian.Uint64(b[8:16]),
			Address:   common.BytesToAddress(b[16:36]),
			Amount:    binary.LittleEndian.Uint64(b[36:44]),
		}
	}
	return &withdrawals, nil
}

// SizeSSZ returns the encoded size of the payload in its inferred version.
func (payload *ExecutionPayload) SizeSSZ() (full uint32) {
	full = executionPayloadFixedPart(payload.Version()) + uint32(len(payload.ExtraData))
	full += uint32(len(payload.Transactions) * offsetSize)
	for _, tx := range payload.Transactions {
		full += uint32(len(tx))
	}
	if payload.Withdrawals != nil {
		full += uint32(len(*payload.Withdrawals) * withdrawalSize)
	}
	return full
}

// MarshalSSZ encodes the payload in the layout matching the optional fields that are set.
func (payload *ExecutionPayload) MarshalSSZ(w io.Writer) (n int, err error) {
	version := payload.Version()
	if len(payload.ExtraData) > maxExtraDataSize {
		return 0, ErrExtraDataTooLarge
	}
	txs, err := marshalTransactions(payload.Transactions)
	if err != nil {
		return 0, err
	}
	var withdrawals []byte
	if version.HasWithdrawals() {
		withdrawals, err = marshalWithdrawals(payload.Withdrawals)
		if err != nil {
			return 0, err
		}
	}
	fixed := executionPayloadFixedPart(version)
	total := uint64(fixed) + uint64(len(payload.ExtraData)) + uint64(len(txs)) + uint64(len(withdrawals))
	if total > math.MaxUint32 {
		return 0, fmt.Errorf("payload of %d bytes exceeds the SSZ offset range", total)
	}

	buf := make([]byte, total)
	offset := 0
	put := func(b []byte) {
		copy(buf[offset:], b)
		offset += len(b)
	}
	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[offset:], v)
		offset += 8
	}
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[offset:], v)
		offset += 4
	}

	put(payload.ParentHash[:])
	put(payload.FeeRecipient[:])
	put(payload.StateRoot[:])
	put(payload.ReceiptsRoot[:])
	put(payload.LogsBloom[:])
	put(payload.PrevRandao[:])
	putU64(uint64(payload.BlockNumber))
	putU64(uint64(payload.GasLimit))
	putU64(uint64(payload.GasUsed))
	putU64(uint64(payload.Timestamp))
	extraDataOffset := fixed
	putU32(extraDataOffset)
	// SSZ uint256 is little-endian
	baseFee := (*uint256.Int)(&payload.BaseFeePerGas).Bytes32()
	for i := 0; i < 32; i++ {
		buf[offset+i] = baseFee[31-i]
	}
	offset += 32
	put(payload.BlockHash[:])
	txOffset := extraDataOffset + uint32(len(payload.ExtraData))
	putU32(txOffset)
	if version.HasWithdrawals() {
		putU32(txOffset + uint32(len(txs)))
	}
	if version.HasBlobProperties() {
		var blobGasUsed, excessBlobGas uint64
		if payload.BlobGasUsed != nil {
			blobGasUsed = uint64(*payload.BlobGasUsed)
		}
		if payload.ExcessBlobGas != nil {
			excessBlobGas = uint64(*payload.ExcessBlobGas)
		}
		putU64(blobGasUsed)
		putU64(excessBlobGas)
	}
	if version.HasWithdrawalsRoot() {
		put(payload.WithdrawalsRoot[:])
	}
	put(payload.ExtraData)
	put(txs)
	put(withdrawals)
	return w.Write(buf)
}

// UnmarshalSSZ decodes scope bytes from r into the payload, using the given layout version.
// The payload is only modified when decoding fully succeeds.
func (payload *ExecutionPayload) UnmarshalSSZ(version BlockVersion, scope uint32, r io.Reader) error {
	fixed := executionPayloadFixedPart(version)
	if scope < fixed {
		return fmt.Errorf("%w: scope %d is smaller than fixed part %d", ErrPayloadTooShort, scope, fixed)
	}
	buf := make([]byte, scope)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: failed to read payload: %w", ErrPayloadTooShort, err)
	}
	var out ExecutionPayload
	offset := 0
	take := func(n int) []byte {
		b := buf[offset : offset+n]
		offset += n
		return b
	}
	readU64 := func() uint64 {
		return binary.LittleEndian.Uint64(take(8))
	}
	readU32 := func() uint32 {
		return binary.LittleEndian.Uint32(take(4))
	}

	copy(out.ParentHash[:], take(32))
	copy(out.FeeRecipient[:], take(20))
	copy(out.StateRoot[:], take(32))
	copy(out.ReceiptsRoot[:], take(32))
	copy(out.LogsBloom[:], take(256))
	copy(out.PrevRandao[:], take(32))
	out.BlockNumber = Uint64Quantity(readU64())
	out.GasLimit = Uint64Quantity(readU64())
	out.GasUsed = Uint64Quantity(readU64())
	out.Timestamp = Uint64Quantity(readU64())
	extraDataOffset := readU32()
	if extraDataOffset != fixed {
		return fmt.Errorf("%w: %d <> %d", ErrBadExtraDataOffset, extraDataOffset, fixed)
	}
	var baseFee [32]byte
	le := take(32)
	for i := 0; i < 32; i++ {
		baseFee[31-i] = le[i]
	}
	(*uint256.Int)(&out.BaseFeePerGas).SetBytes32(baseFee[:])
	copy(out.BlockHash[:], take(32))
	txOffset := readU32()
	if txOffset < extraDataOffset {
		return ErrBadTransactionOffset
	}
	if txOffset > scope {
		return fmt.Errorf("%w: transactions offset %d beyond scope %d", ErrBadTransactionOffset, txOffset, scope)
	}
	if txOffset-extraDataOffset > maxExtraDataSize {
		return ErrExtraDataTooLarge
	}
	txEnd := scope
	if version.HasWithdrawals() {
		withdrawalsOffset := readU32()
		if withdrawalsOffset < txOffset || withdrawalsOffset > scope {
			return fmt.Errorf("%w: %d, transactions at %d, scope %d", ErrBadWithdrawalsOffset, withdrawalsOffset, txOffset, scope)
		}
		txEnd = withdrawalsOffset
	}
	if version.HasBlobProperties() {
		blobGasUsed := Uint64Quantity(readU64())
		excessBlobGas := Uint64Quantity(readU64())
		out.BlobGasUsed = &blobGasUsed
		out.ExcessBlobGas = &excessBlobGas
	}
	if version.HasWithdrawalsRoot() {
		root := common.BytesToHash(take(32))
		out.WithdrawalsRoot = &root
	}

	out.ExtraData = make(Data, txOffset-extraDataOffset)
	copy(out.ExtraData, buf[extraDataOffset:txOffset])

	txs, err := unmarshalTransactions(buf[txOffset:txEnd])
	if err != nil {
		return err
	}
	out.Transactions = txs

	if version.HasWithdrawals() {
		withdrawals, err := unmarshalWithdrawals(buf[txEnd:])
		if err != nil {
			return err
		}
		out.Withdrawals = withdrawals
	}

	*payload = out
	return nil
}
