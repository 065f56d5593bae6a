package validators

import (
	"crypto/ecdsa"
	"math/big"
	"math/rand"
	"testing"

	"github.com/lmittmann/w3"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/chainprov/chainprov/op-provenance/config"
	"github.com/chainprov/chainprov/op-provenance/metrics"
	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/provtest"
	"github.com/chainprov/chainprov/op-service/testlog"
	"github.com/chainprov/chainprov/op-service/testutils"
)

type harness struct {
	t    *testing.T
	rng  *rand.Rand
	cfg  *config.Config
	v    *Validator
	keys map[provenance.ChainID]*ecdsa.PrivateKey
}

// newHarness serves every chain, with random sequencer keys.
func newHarness(t *testing.T) *harness {
	rng := rand.New(rand.NewSource(1234))
	cfg := config.Default()
	cfg.Network = config.NetworkAll
	keys := make(map[provenance.ChainID]*ecdsa.PrivateKey)
	for _, chain := range provenance.AllChains {
		if chain.RequireFamily(provenance.FamilyEthereum) == nil {
			continue
		}
		key := testutils.RandomKey(rng)
		keys[chain] = key
		cfg.Chains[chain].Sequencer = crypto.PubkeyToAddress(key.PublicKey)
	}
	return &harness{
		t:    t,
		rng:  rng,
		cfg:  cfg,
		v:    NewValidator(testlog.Logger(t, log.LevelDebug), cfg, metrics.NoopMetrics{}),
		keys: keys,
	}
}

func encode(t *testing.T, fn *w3.Func, args ...any) []byte {
	input, err := fn.EncodeArgs(args...)
	require.NoError(t, err)
	return input
}

// anchor returns an L1 anchor through aux that attests l1Hash.
func (h *harness) anchor(aux provenance.ChainID, l1Hash common.Hash) L1Anchor {
	head := testutils.RandomHeader(h.rng)
	env := provtest.NewMockEnv(head)
	env.Commit = provenance.Commitment{Digest: head.Hash()}
	env.ExpectCall(h.cfg.L1BlockPredeploy, encode(h.t, L1BlockHashFunc), provtest.Pack([]string{"bytes32"}, l1Hash))
	c := provtest.SignCommitment(h.keys[aux], aux.EthChainID(), provtest.PayloadData(h.rng, head.Hash()))
	return L1Anchor{Commitment: c, Env: env}
}

// linkedEnv returns an environment and n linking headers on top of it.
func (h *harness) linkedEnv(n int) (*provtest.MockEnv, []*types.Header) {
	head := testutils.RandomHeader(h.rng)
	env := provtest.NewMockEnv(head)
	env.Commit = provenance.Commitment{Digest: head.Hash()}
	return env, testutils.RandomHeaderChain(h.rng, head.Hash(), n)
}

type gameSetup struct {
	factory     common.Address
	gameType    *big.Int
	createdAt   *big.Int
	updatedAt   *big.Int
	proxy       common.Address
	status      uint8
	blacklisted bool
	resolvedAt  uint64
	delay       *big.Int
	rootClaim   common.Hash
}

const gameNow = 2_000_000

// validGame is a game that resolved just over the matured delay ago.
func (h *harness) validGame(chain provenance.ChainID, rootClaim common.Hash) gameSetup {
	return gameSetup{
		factory:    h.cfg.Chains[chain].DisputeGameFactory,
		gameType:   big.NewInt(0),
		createdAt:  big.NewInt(1_000_000),
		updatedAt:  big.NewInt(900_000),
		proxy:      testutils.RandomAddress(h.rng),
		status:     uint8(GameStatusDefenderWins),
		resolvedAt: gameNow - 302_400 + 299,
		delay:      big.NewInt(302_400),
		rootClaim:  rootClaim,
	}
}

// expectGame registers the portal, factory and game calls of s on env.
func (h *harness) expectGame(env *provtest.MockEnv, chain provenance.ChainID, c provenance.Commitment, s gameSetup) {
	t := h.t
	portal := h.cfg.Chains[chain].Portal
	index, _ := c.DecodeID()
	env.ExpectCall(portal, encode(t, disputeGameFactoryFunc), provtest.Pack([]string{"address"}, s.factory))
	env.ExpectCall(s.factory, encode(t, gameAtIndexFunc, index.ToBig()),
		provtest.Pack([]string{"uint256", "uint256", "address"}, s.gameType, s.createdAt, s.proxy))
	env.ExpectCall(portal, encode(t, respectedGameTypeUpdatedAtFunc), provtest.Pack([]string{"uint256"}, s.updatedAt))
	env.ExpectCall(s.proxy, encode(t, statusFunc), provtest.Pack([]string{"uint8"}, s.status))
	env.ExpectCall(portal, encode(t, disputeGameBlacklistFunc, s.proxy), provtest.Pack([]string{"bool"}, s.blacklisted))
	env.ExpectCall(s.proxy, encode(t, resolvedAtFunc), provtest.Pack([]string{"uint64"}, s.resolvedAt))
	env.ExpectCall(portal, encode(t, proofMaturityDelaySecondsFunc), provtest.Pack([]string{"uint256"}, s.delay))
	env.ExpectCall(s.proxy, encode(t, rootClaimFunc), provtest.Pack([]string{"bytes32"}, s.rootClaim))
}
