// Package sources fetches live chain data and records it into snapshots.
package sources

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lmittmann/w3"
	w3eth "github.com/lmittmann/w3/module/eth"
	"github.com/lmittmann/w3/w3types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-service/eth"
)

const headerCacheSize = 256

var ErrChainIDMismatch = errors.New("rpc chain id mismatch")

// Client reads headers and executes calls on one chain.
type Client struct {
	log     log.Logger
	chain   provenance.ChainID
	rpc     *rpc.Client
	eth     *ethclient.Client
	w3      *w3.Client
	headers *lru.Cache[common.Hash, *types.Header]
}

// NewClient wraps rpcClient, checking that it serves chain.
func NewClient(ctx context.Context, logger log.Logger, chain provenance.ChainID, rpcClient *rpc.Client) (*Client, error) {
	headers, err := lru.New[common.Hash, *types.Header](headerCacheSize)
	if err != nil {
		return nil, err
	}
	c := &Client{
		log:     logger.New("chain", chain),
		chain:   chain,
		rpc:     rpcClient,
		eth:     ethclient.NewClient(rpcClient),
		w3:      w3.NewClient(rpcClient),
		headers: headers,
	}
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if served := eth.ChainIDFromBig(id); served.Cmp(chain.EthChainID()) != 0 {
		return nil, fmt.Errorf("%w: endpoint serves %s, expected %s", ErrChainIDMismatch, served, chain)
	}
	return c, nil
}

// Dial connects to the first of urls that serves chain.
func Dial(ctx context.Context, logger log.Logger, chain provenance.ChainID, urls ...string) (*Client, error) {
	var errs []error
	for _, url := range urls {
		if url == "" {
			continue
		}
		rpcClient, err := rpc.DialContext(ctx, url)
		if err != nil {
			errs = append(errs, fmt.Errorf("dial %s: %w", url, err))
			continue
		}
		c, err := NewClient(ctx, logger, chain, rpcClient)
		if err != nil {
			rpcClient.Close()
			logger.Warn("Skipping RPC endpoint", "chain", chain, "url", url, "err", err)
			errs = append(errs, err)
			continue
		}
		return c, nil
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("no rpc endpoint configured for %s", chain)
	}
	return nil, errors.Join(errs...)
}

func (c *Client) Chain() provenance.ChainID {
	return c.chain
}

func (c *Client) Close() {
	c.rpc.Close()
}

// HeaderByNumber fetches the header at number, or the latest header if number is nil.
func (c *Client) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	h, err := c.eth.HeaderByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch header %v: %w", number, err)
	}
	c.headers.Add(h.Hash(), h)
	return h, nil
}

func (c *Client) HeaderByHash(ctx context.Context, hash common.Hash) (*types.Header, error) {
	if h, ok := c.headers.Get(hash); ok {
		return h, nil
	}
	h, err := c.eth.HeaderByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch header %s: %w", hash, err)
	}
	if got := h.Hash(); got != hash {
		return nil, fmt.Errorf("header hash mismatch: requested %s, got %s", hash, got)
	}
	c.headers.Add(hash, h)
	return h, nil
}

// LinkingHeaders walks back from target and returns the anchor header, and the n
// headers after it that end in target.
func (c *Client) LinkingHeaders(ctx context.Context, target *types.Header, n uint64) (*types.Header, []*types.Header, error) {
	linking := make([]*types.Header, n)
	cur := target
	for i := int(n) - 1; i >= 0; i-- {
		linking[i] = cur
		parent, err := c.HeaderByHash(ctx, cur.ParentHash)
		if err != nil {
			return nil, nil, err
		}
		cur = parent
	}
	return cur, linking, nil
}

// Call executes a read-only call at the state of header.
func (c *Client) Call(ctx context.Context, header *types.Header, to common.Address, data []byte) ([]byte, error) {
	var out []byte
	msg := &w3types.Message{To: &to, Input: data}
	if err := c.w3.CallCtx(ctx, w3eth.Call(msg, header.Number, nil).Returns(&out)); err != nil {
		return nil, fmt.Errorf("eth_call to %s at %s: %w", to, header.Number, err)
	}
	return out, nil
}
