package sources

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/chainprov/chainprov/op-provenance/config"
	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/commitment"
	"github.com/chainprov/chainprov/op-provenance/provenance/query"
	"github.com/chainprov/chainprov/op-provenance/provenance/validators"
	"github.com/chainprov/chainprov/op-provenance/snapshot"
)

// Request describes a query to record against live chains.
type Request struct {
	Chain        provenance.ChainID `cli:"chain"`
	Accounts     []common.Address   `cli:"account"`
	Assets       []common.Address   `cli:"asset"`
	TargetChains []uint64           `cli:"target-chain"`
	L1Inclusion  bool               `cli:"l1-inclusion"`
}

// Recording is a query over live environments. Its snapshot fills up with every
// call the live query serves.
type Recording struct {
	Query    *query.ProofDataQuery
	Snapshot *snapshot.Query
}

// Recorder assembles queries from RPC endpoints and sequencer commitment endpoints.
type Recorder struct {
	log        log.Logger
	cfg        *config.Config
	clients    map[provenance.ChainID]*Client
	sequencers map[provenance.ChainID]*SequencerClient
}

func NewRecorder(logger log.Logger, cfg *config.Config, clients map[provenance.ChainID]*Client, sequencers map[provenance.ChainID]*SequencerClient) *Recorder {
	return &Recorder{log: logger, cfg: cfg, clients: clients, sequencers: sequencers}
}

func (r *Recorder) client(chain provenance.ChainID) (*Client, error) {
	c, ok := r.clients[chain]
	if !ok {
		return nil, fmt.Errorf("no rpc client for %s", chain)
	}
	return c, nil
}

func (r *Recorder) sequencer(chain provenance.ChainID) (*SequencerClient, error) {
	s, ok := r.sequencers[chain]
	if !ok {
		return nil, fmt.Errorf("no sequencer endpoint for %s", chain)
	}
	return s, nil
}

type recordedAnchor struct {
	live validators.L1Anchor
	snap *snapshot.Anchor
	// l1Hash is the L1 block hash the anchor attests.
	l1Hash common.Hash
}

// anchor records the latest commitment of aux and the L1 block hash its L1Block predeploy holds.
func (r *Recorder) anchor(ctx context.Context, aux provenance.ChainID) (*recordedAnchor, error) {
	seq, err := r.sequencer(aux)
	if err != nil {
		return nil, err
	}
	client, err := r.client(aux)
	if err != nil {
		return nil, err
	}
	c, err := seq.Latest(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := c.ExecutionPayload()
	if err != nil {
		return nil, err
	}
	header, err := client.HeaderByHash(ctx, payload.BlockHash)
	if err != nil {
		return nil, err
	}
	env := client.Environment(header)
	input, err := validators.L1BlockHashFunc.EncodeArgs()
	if err != nil {
		return nil, err
	}
	out, err := env.Call(ctx, r.cfg.L1BlockPredeploy, input)
	if err != nil {
		return nil, err
	}
	var l1Hash common.Hash
	if err := validators.L1BlockHashFunc.DecodeReturns(out, &l1Hash); err != nil {
		return nil, fmt.Errorf("failed to decode l1 block hash: %w", err)
	}
	r.log.Debug("Recorded anchor", "chain", aux, "block", header.Number, "l1Hash", l1Hash)
	return &recordedAnchor{
		live:   validators.L1Anchor{Commitment: c, Env: env},
		snap:   &snapshot.Anchor{Commitment: commitment.Encode(c), Env: env.Snapshot()},
		l1Hash: l1Hash,
	}, nil
}

// l1Anchor records an anchor for the L1 of chain.
func (r *Recorder) l1Anchor(ctx context.Context, chain provenance.ChainID) (*recordedAnchor, error) {
	l1, err := chain.L1()
	if err != nil {
		return nil, err
	}
	cc, err := r.cfg.Chain(l1)
	if err != nil {
		return nil, err
	}
	return r.anchor(ctx, cc.L1AnchorChain)
}

// Record assembles the environments of req. Recording OP-Stack L1 inclusion queries is not supported:
// locating the dispute game of a block is left to the caller.
func (r *Recorder) Record(ctx context.Context, req Request) (*Recording, error) {
	family, err := req.Chain.Family()
	if err != nil {
		return nil, err
	}
	if req.L1Inclusion && family != provenance.FamilyLinea {
		return nil, fmt.Errorf("%w: recording %s with l1 inclusion", provenance.ErrUnsupportedChain, req.Chain)
	}
	depth, err := r.cfg.ReorgDepth(req.Chain)
	if err != nil {
		return nil, err
	}
	client, err := r.client(req.Chain)
	if err != nil {
		return nil, err
	}
	snap := &snapshot.Query{
		Chain:        req.Chain,
		Accounts:     req.Accounts,
		Assets:       req.Assets,
		TargetChains: req.TargetChains,
		L1Inclusion:  req.L1Inclusion,
	}
	link := func(target *types.Header) (*RPCEnvironment, []*types.Header, error) {
		view, linking, err := client.LinkingHeaders(ctx, target, depth)
		if err != nil {
			return nil, nil, err
		}
		env := client.Environment(view)
		snap.Env = env.Snapshot()
		snap.Linking = linking
		return env, linking, nil
	}

	var in validators.ValidationInput
	switch {
	case family == provenance.FamilyEthereum:
		anchor, err := r.l1Anchor(ctx, req.Chain)
		if err != nil {
			return nil, err
		}
		target, err := client.HeaderByHash(ctx, anchor.l1Hash)
		if err != nil {
			return nil, err
		}
		env, linking, err := link(target)
		if err != nil {
			return nil, err
		}
		snap.Anchor = anchor.snap
		in = &validators.EthereumInput{Env: env, Linking: linking, Anchor: anchor.live}
	case family == provenance.FamilyOpStack:
		seq, err := r.sequencer(req.Chain)
		if err != nil {
			return nil, err
		}
		c, err := seq.Latest(ctx)
		if err != nil {
			return nil, err
		}
		payload, err := c.ExecutionPayload()
		if err != nil {
			return nil, err
		}
		target, err := client.HeaderByHash(ctx, payload.BlockHash)
		if err != nil {
			return nil, err
		}
		env, linking, err := link(target)
		if err != nil {
			return nil, err
		}
		snap.Commitment = commitment.Encode(c)
		in = &validators.OpStackDirectInput{Env: env, Linking: linking, Commitment: c}
	case family == provenance.FamilyLinea && !req.L1Inclusion:
		target, err := client.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, err
		}
		env, linking, err := link(target)
		if err != nil {
			return nil, err
		}
		in = &validators.LineaDirectInput{Env: env, Linking: linking}
	default:
		in, err = r.recordLineaL1Inclusion(ctx, req.Chain, snap, link)
		if err != nil {
			return nil, err
		}
	}
	r.log.Info("Recorded query environments", "chain", req.Chain, "mode", validators.Mode(in), "block", snap.Env.Header().Number)
	return &Recording{
		Query: &query.ProofDataQuery{
			Chain:        req.Chain,
			Accounts:     req.Accounts,
			Assets:       req.Assets,
			TargetChains: req.TargetChains,
			Input:        in,
		},
		Snapshot: snap,
	}, nil
}

// recordLineaL1Inclusion records the Linea block that the L1 message service reports as finalized.
func (r *Recorder) recordLineaL1Inclusion(ctx context.Context, chain provenance.ChainID, snap *snapshot.Query,
	link func(*types.Header) (*RPCEnvironment, []*types.Header, error)) (validators.ValidationInput, error) {
	cc, err := r.cfg.Chain(chain)
	if err != nil {
		return nil, err
	}
	l1, err := chain.L1()
	if err != nil {
		return nil, err
	}
	l1Client, err := r.client(l1)
	if err != nil {
		return nil, err
	}
	anchor, err := r.l1Anchor(ctx, chain)
	if err != nil {
		return nil, err
	}
	l1Header, err := l1Client.HeaderByHash(ctx, anchor.l1Hash)
	if err != nil {
		return nil, err
	}
	l1Env := l1Client.Environment(l1Header)
	input, err := validators.CurrentL2BlockNumberFunc.EncodeArgs()
	if err != nil {
		return nil, err
	}
	out, err := l1Env.Call(ctx, cc.MessageService, input)
	if err != nil {
		return nil, err
	}
	var finalized *big.Int
	if err := validators.CurrentL2BlockNumberFunc.DecodeReturns(out, &finalized); err != nil {
		return nil, fmt.Errorf("failed to decode finalized l2 block: %w", err)
	}
	target, err := r.clients[chain].HeaderByNumber(ctx, finalized)
	if err != nil {
		return nil, err
	}
	env, linking, err := link(target)
	if err != nil {
		return nil, err
	}
	snap.L1Env = l1Env.Snapshot()
	snap.Anchor = anchor.snap
	return &validators.LineaL1InclusionInput{Env: env, L1Env: l1Env, Linking: linking, Anchor: anchor.live}, nil
}
