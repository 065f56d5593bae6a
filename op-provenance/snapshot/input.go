package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/commitment"
	"github.com/chainprov/chainprov/op-provenance/provenance/query"
	"github.com/chainprov/chainprov/op-provenance/provenance/validators"
)

// Anchor is an OP-Stack commitment, in its compressed wire format, with the environment it commits to.
type Anchor struct {
	Commitment hexutil.Bytes `json:"commitment"`
	Env        *Env          `json:"env"`
}

// Query is the file form of a query.ProofDataQuery.
type Query struct {
	Chain        provenance.ChainID `json:"chain"`
	Accounts     []common.Address   `json:"accounts"`
	Assets       []common.Address   `json:"assets"`
	TargetChains []uint64           `json:"targetChains"`
	L1Inclusion  bool               `json:"l1Inclusion"`

	// Env is the view environment of the queried chain.
	Env     *Env            `json:"env"`
	Linking []*types.Header `json:"linking"`
	// Commitment is the sequencer commitment of direct OP-Stack queries, in wire format.
	Commitment hexutil.Bytes `json:"commitment,omitempty"`
	// L1Env is the Ethereum environment of L1 inclusion queries.
	L1Env     *Env    `json:"l1Env,omitempty"`
	Anchor    *Anchor `json:"anchor,omitempty"`
	Secondary *Anchor `json:"secondary,omitempty"`
}

// File is the query input file.
type File struct {
	Queries []*Query `json:"queries"`
}

func anchorInput(a *Anchor) (validators.L1Anchor, error) {
	if a == nil || a.Env == nil {
		return validators.L1Anchor{}, fmt.Errorf("%w: missing anchor", provenance.ErrMalformedInput)
	}
	c, err := commitment.Decode(a.Commitment)
	if err != nil {
		return validators.L1Anchor{}, fmt.Errorf("anchor commitment: %w", err)
	}
	return validators.L1Anchor{Commitment: c, Env: a.Env}, nil
}

func (q *Query) input() (validators.ValidationInput, error) {
	if q.Env == nil {
		return nil, fmt.Errorf("%w: query for %s has no environment", provenance.ErrMalformedInput, q.Chain)
	}
	family, err := q.Chain.Family()
	if err != nil {
		return nil, err
	}
	switch family {
	case provenance.FamilyEthereum:
		if q.L1Inclusion {
			return nil, fmt.Errorf("%w: %s has no l1 inclusion mode", provenance.ErrUnsupportedChain, q.Chain)
		}
		anchor, err := anchorInput(q.Anchor)
		if err != nil {
			return nil, err
		}
		in := &validators.EthereumInput{Env: q.Env, Linking: q.Linking, Anchor: anchor}
		if q.Secondary != nil {
			secondary, err := anchorInput(q.Secondary)
			if err != nil {
				return nil, fmt.Errorf("secondary: %w", err)
			}
			in.Secondary = &secondary
		}
		return in, nil
	case provenance.FamilyOpStack:
		if !q.L1Inclusion {
			c, err := commitment.Decode(q.Commitment)
			if err != nil {
				return nil, err
			}
			return &validators.OpStackDirectInput{Env: q.Env, Linking: q.Linking, Commitment: c}, nil
		}
		if q.L1Env == nil {
			return nil, fmt.Errorf("%w: l1 inclusion query for %s has no l1 environment", provenance.ErrMalformedInput, q.Chain)
		}
		anchor, err := anchorInput(q.Anchor)
		if err != nil {
			return nil, err
		}
		return &validators.OpStackL1InclusionInput{L1Env: q.L1Env, OpEnv: q.Env, Linking: q.Linking, Anchor: anchor}, nil
	case provenance.FamilyLinea:
		if !q.L1Inclusion {
			return &validators.LineaDirectInput{Env: q.Env, Linking: q.Linking}, nil
		}
		if q.L1Env == nil {
			return nil, fmt.Errorf("%w: l1 inclusion query for %s has no l1 environment", provenance.ErrMalformedInput, q.Chain)
		}
		anchor, err := anchorInput(q.Anchor)
		if err != nil {
			return nil, err
		}
		return &validators.LineaL1InclusionInput{Env: q.Env, L1Env: q.L1Env, Linking: q.Linking, Anchor: anchor}, nil
	default:
		return nil, fmt.Errorf("%w: %s", provenance.ErrUnsupportedChain, q.Chain)
	}
}

// ProofDataQuery converts q into a query with its mode-specific validation input.
func (q *Query) ProofDataQuery() (*query.ProofDataQuery, error) {
	in, err := q.input()
	if err != nil {
		return nil, err
	}
	return &query.ProofDataQuery{
		Chain:        q.Chain,
		Accounts:     q.Accounts,
		Assets:       q.Assets,
		TargetChains: q.TargetChains,
		Input:        in,
	}, nil
}

// ProofDataQueries converts every query of the file, in order.
func (f *File) ProofDataQueries() ([]*query.ProofDataQuery, error) {
	out := make([]*query.ProofDataQuery, 0, len(f.Queries))
	for i, q := range f.Queries {
		if q == nil {
			return nil, fmt.Errorf("%w: query %d is empty", provenance.ErrMalformedInput, i)
		}
		pq, err := q.ProofDataQuery()
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", i, err)
		}
		out = append(out, pq)
	}
	return out, nil
}

// LoadFile reads a query input file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: failed to parse input file %s: %v", provenance.ErrMalformedInput, path, err)
	}
	return &f, nil
}

// WriteFile writes f as indented JSON.
func WriteFile(path string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode input file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write input file: %w", err)
	}
	return nil
}
