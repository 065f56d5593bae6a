package commitment

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-service/eth"
)

// Envelope is the JSON form served by sequencer commitment endpoints.
type Envelope struct {
	Data      hexutil.Bytes     `json:"data"`
	Signature EnvelopeSignature `json:"signature"`
}

type EnvelopeSignature struct {
	R       Word           `json:"r"`
	S       Word           `json:"s"`
	YParity hexutil.Uint64 `json:"yParity"`
}

// Word is a 32 byte big-endian value. Unlike eth.Bytes32 it accepts hex strings
// shorter than 32 bytes, which are left-padded.
type Word eth.Bytes32

func (w Word) MarshalText() ([]byte, error) {
	return eth.Bytes32(w).MarshalText()
}

func (w *Word) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.TrimPrefix(string(text), "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid word %q: %w", text, err)
	}
	if len(b) > 32 {
		return fmt.Errorf("word %q longer than 32 bytes", text)
	}
	*w = Word{}
	copy(w[32-len(b):], b)
	return nil
}

// Commitment converts the envelope, rejecting parities other than 0 and 1.
func (e *Envelope) Commitment() (*SequencerCommitment, error) {
	if e.Signature.YParity > 1 {
		return nil, fmt.Errorf("%w: invalid y parity %d", provenance.ErrMalformedInput, uint64(e.Signature.YParity))
	}
	return &SequencerCommitment{
		Data: append([]byte(nil), e.Data...),
		Signature: Signature{
			R: e.Signature.R,
			S: e.Signature.S,
			V: byte(e.Signature.YParity),
		},
	}, nil
}

// EnvelopeOf is the inverse of Envelope.Commitment. V is reduced to a parity.
func EnvelopeOf(c *SequencerCommitment) *Envelope {
	v := c.Signature.V
	if v >= 27 {
		v -= 27
	}
	return &Envelope{
		Data: append(hexutil.Bytes(nil), c.Data...),
		Signature: EnvelopeSignature{
			R:       c.Signature.R,
			S:       c.Signature.S,
			YParity: hexutil.Uint64(v),
		},
	}
}

// FromJSON decodes a commitment from its envelope JSON.
func FromJSON(data []byte) (*SequencerCommitment, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: invalid commitment envelope: %v", provenance.ErrMalformedInput, err)
	}
	return env.Commitment()
}
