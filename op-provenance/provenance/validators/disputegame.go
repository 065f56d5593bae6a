package validators

import (
	"context"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainprov/chainprov/op-provenance/provenance"
)

type GameStatus uint8

const (
	GameStatusInProgress GameStatus = iota
	GameStatusChallengerWins
	GameStatusDefenderWins
)

func (s GameStatus) String() string {
	switch s {
	case GameStatusInProgress:
		return "IN_PROGRESS"
	case GameStatusChallengerWins:
		return "CHALLENGER_WINS"
	case GameStatusDefenderWins:
		return "DEFENDER_WINS"
	default:
		return fmt.Sprintf("GameStatus(%d)", uint8(s))
	}
}

// DisputeGame is the on-chain state of a dispute game, as read during one validation.
type DisputeGame struct {
	Index       *uint256.Int
	GameType    *big.Int
	CreatedAt   *big.Int
	Proxy       common.Address
	Status      GameStatus
	ResolvedAt  uint64
	RootClaim   common.Hash
	Blacklisted bool
}

// ValidateDisputeGameCommitment checks, against the L1 environment, that the dispute game
// located by the commitment ID is a respected, resolved, matured and not blacklisted game
// whose root claim is the commitment digest.
func (v *Validator) ValidateDisputeGameCommitment(ctx context.Context, chain provenance.ChainID, l1Env provenance.Environment, c provenance.Commitment) error {
	if err := chain.RequireFamily(provenance.FamilyOpStack); err != nil {
		return err
	}
	cc, err := v.cfg.Chain(chain)
	if err != nil {
		return err
	}
	if l1Env == nil {
		return fmt.Errorf("%w: missing l1 environment", provenance.ErrMalformedInput)
	}
	if l1Env.Header() == nil {
		return fmt.Errorf("%w: missing l1 header", provenance.ErrMalformedInput)
	}
	l1, err := chain.L1()
	if err != nil {
		return err
	}
	index, version := c.DecodeID()
	game := DisputeGame{Index: index}
	portal := cc.Portal

	var factory common.Address
	if err := v.call(ctx, l1, l1Env, portal, disputeGameFactoryFunc, nil, &factory); err != nil {
		return err
	}
	if cc.DisputeGameFactory != (common.Address{}) && factory != cc.DisputeGameFactory {
		return fmt.Errorf("%w: portal dispute game factory %s, expected %s", provenance.ErrVerification, factory, cc.DisputeGameFactory)
	}
	if err := v.call(ctx, l1, l1Env, factory, gameAtIndexFunc, []any{index.ToBig()}, &game.GameType, &game.CreatedAt, &game.Proxy); err != nil {
		return err
	}
	if respected := new(big.Int).SetUint64(uint64(cc.RespectedGameType)); game.GameType.Cmp(respected) != 0 {
		return fmt.Errorf("%w: game type not respected game: %s, expected %s", provenance.ErrVerification, game.GameType, respected)
	}

	var updatedAt *big.Int
	if err := v.call(ctx, l1, l1Env, portal, respectedGameTypeUpdatedAtFunc, nil, &updatedAt); err != nil {
		return err
	}
	if game.CreatedAt.Cmp(updatedAt) < 0 {
		return fmt.Errorf("%w: game created before respected game type update: %s < %s", provenance.ErrVerification, game.CreatedAt, updatedAt)
	}

	var status uint8
	if err := v.call(ctx, l1, l1Env, game.Proxy, statusFunc, nil, &status); err != nil {
		return err
	}
	game.Status = GameStatus(status)
	if game.Status != GameStatusDefenderWins {
		return fmt.Errorf("%w: game status not DEFENDER_WINS: %s", provenance.ErrVerification, game.Status)
	}

	if err := v.call(ctx, l1, l1Env, portal, disputeGameBlacklistFunc, []any{game.Proxy}, &game.Blacklisted); err != nil {
		return err
	}
	if game.Blacklisted {
		return fmt.Errorf("%w: game is blacklisted: %s", provenance.ErrVerification, game.Proxy)
	}

	if err := v.call(ctx, l1, l1Env, game.Proxy, resolvedAtFunc, nil, &game.ResolvedAt); err != nil {
		return err
	}
	var delay *big.Int
	if err := v.call(ctx, l1, l1Env, portal, proofMaturityDelaySecondsFunc, nil, &delay); err != nil {
		return err
	}
	if err := v.checkMaturity(l1Env.Header().Time, game.ResolvedAt, delay); err != nil {
		return err
	}

	if err := v.call(ctx, l1, l1Env, game.Proxy, rootClaimFunc, nil, &game.RootClaim); err != nil {
		return err
	}
	if game.RootClaim != c.Digest {
		return fmt.Errorf("%w: root claim mismatch: game %s, commitment %s", provenance.ErrVerification, game.RootClaim, c.Digest)
	}
	v.log.Debug("Dispute game verified", "chain", chain, "index", game.Index, "version", version,
		"game", game.Proxy, "resolvedAt", game.ResolvedAt, "rootClaim", game.RootClaim)
	return nil
}

// checkMaturity requires now - resolvedAt > delay - grace, failing closed where
// either subtraction would underflow.
func (v *Validator) checkMaturity(now, resolvedAt uint64, delay *big.Int) error {
	if now < resolvedAt {
		return fmt.Errorf("%w: insufficient time passed since game resolution: resolved at %d, now %d",
			provenance.ErrVerification, resolvedAt, now)
	}
	maturity, overflow := uint256.FromBig(delay)
	grace := uint256.NewInt(v.cfg.ProofMaturityGrace)
	if overflow || maturity.Lt(grace) {
		return fmt.Errorf("%w: insufficient time passed since game resolution: proof maturity delay %s below grace %d",
			provenance.ErrVerification, delay, v.cfg.ProofMaturityGrace)
	}
	maturity.Sub(maturity, grace)
	elapsed := uint256.NewInt(now - resolvedAt)
	if !elapsed.Gt(maturity) {
		return fmt.Errorf("%w: insufficient time passed since game resolution: %s elapsed, %s required",
			provenance.ErrVerification, elapsed.Dec(), maturity.Dec())
	}
	return nil
}
