package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/commitment"
)

var errHTTPError = errors.New("http error")

const sequencerTimeout = 10 * time.Second

// SequencerClient fetches the latest signed block commitment of an OP-Stack sequencer.
// The endpoints are tried in order.
type SequencerClient struct {
	log     log.Logger
	chain   provenance.ChainID
	clients []*resty.Client
}

func NewSequencerClient(logger log.Logger, chain provenance.ChainID, urls ...string) *SequencerClient {
	s := &SequencerClient{log: logger.New("chain", chain), chain: chain}
	for _, url := range urls {
		if url == "" {
			continue
		}
		client := resty.New()
		client.SetBaseURL(url)
		client.SetTimeout(sequencerTimeout)
		client.SetHeader("Accept", "application/json")
		client.OnAfterResponse(func(c *resty.Client, r *resty.Response) error {
			statusCode := r.StatusCode()
			if statusCode >= 400 {
				return fmt.Errorf("%d cannot %s %s: %w", statusCode, r.Request.Method, r.Request.URL, errHTTPError)
			}
			return nil
		})
		s.clients = append(s.clients, client)
	}
	return s
}

// Latest returns the latest commitment, decoded but not verified.
func (s *SequencerClient) Latest(ctx context.Context) (*commitment.SequencerCommitment, error) {
	if len(s.clients) == 0 {
		return nil, fmt.Errorf("no sequencer endpoint configured for %s", s.chain)
	}
	var errs []error
	for _, client := range s.clients {
		c, err := s.fetch(ctx, client)
		if err == nil {
			return c, nil
		}
		s.log.Warn("Sequencer endpoint failed", "url", client.BaseURL, "err", err)
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

func (s *SequencerClient) fetch(ctx context.Context, client *resty.Client) (*commitment.SequencerCommitment, error) {
	response, err := client.R().
		SetContext(ctx).
		SetResult(&commitment.Envelope{}).
		ForceContentType("application/json").
		Get("")
	if err != nil {
		return nil, fmt.Errorf("cannot fetch commitment: %w", err)
	}
	envelope, ok := response.Result().(*commitment.Envelope)
	if !ok || envelope == nil {
		return nil, fmt.Errorf("%w: cannot deserialize commitment from %s", provenance.ErrMalformedInput, client.BaseURL)
	}
	return envelope.Commitment()
}
