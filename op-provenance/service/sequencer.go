package service

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/chainprov/chainprov/op-provenance/config"
	"github.com/chainprov/chainprov/op-provenance/flags"
	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/sources"
	oplog "github.com/chainprov/chainprov/op-service/log"
)

func SequencerCheckCmd(cliCtx *cli.Context) error {
	lgr := oplog.NewLogger(oplog.AppOut(cliCtx), oplog.ReadCLIConfig(cliCtx))
	cfg, err := flags.ConfigFromCLI(cliCtx)
	if err != nil {
		return err
	}
	chains, err := sequencerChains(cfg, cliCtx.String(flags.ChainFlag.Name))
	if err != nil {
		return err
	}
	checks := make([]*SequencerCheck, 0, len(chains))
	for _, chain := range chains {
		cc, _ := cfg.Chain(chain)
		seq := sources.NewSequencerClient(lgr, chain, cc.SequencerURL, cc.SequencerURLFallback)
		checks = append(checks, CheckSequencer(cliCtx.Context, lgr, cfg, seq, chain))
	}
	fmt.Fprint(cliCtx.App.Writer, SequencerChecksMarkdown(checks))

	for _, c := range checks {
		if c.Err != nil && cliCtx.Bool(flags.FailOnErrorFlag.Name) {
			return cli.Exit("Sequencer check failed", 1)
		}
	}
	return nil
}

// sequencerChains returns the OP-Stack chains to check: name if set, else every configured chain with a sequencer endpoint.
func sequencerChains(cfg *config.Config, name string) ([]provenance.ChainID, error) {
	if name != "" {
		chain, err := provenance.ChainIDFromName(name)
		if err != nil {
			return nil, err
		}
		if err := chain.RequireFamily(provenance.FamilyOpStack); err != nil {
			return nil, err
		}
		if _, err := cfg.Chain(chain); err != nil {
			return nil, err
		}
		return []provenance.ChainID{chain}, nil
	}
	var out []provenance.ChainID
	for _, chain := range provenance.AllChains {
		if chain.RequireFamily(provenance.FamilyOpStack) != nil {
			continue
		}
		cc, err := cfg.Chain(chain)
		if err != nil || (cc.SequencerURL == "" && cc.SequencerURLFallback == "") {
			continue
		}
		out = append(out, chain)
	}
	return out, nil
}

// CheckSequencer fetches the latest commitment of chain and checks it is signed by the configured sequencer.
func CheckSequencer(ctx context.Context, lgr log.Logger, cfg *config.Config, seq *sources.SequencerClient, chain provenance.ChainID) *SequencerCheck {
	check := &SequencerCheck{Chain: chain.String()}
	cc, err := cfg.Chain(chain)
	if err != nil {
		check.Err = err
		return check
	}
	check.Signer = cc.Sequencer.Hex()
	c, err := seq.Latest(ctx)
	if err != nil {
		check.Err = err
		return check
	}
	payload, err := c.ExecutionPayload()
	if err != nil {
		check.Err = err
		return check
	}
	check.Block = fmt.Sprint(uint64(payload.BlockNumber))
	check.Hash = payload.BlockHash.Hex()
	check.Err = c.Verify(cc.Sequencer, chain.EthChainID())
	if check.Err != nil {
		lgr.Warn("Sequencer check failed", "chain", chain, "block", check.Block, "err", check.Err)
	} else {
		lgr.Info("Sequencer check passed", "chain", chain, "block", check.Block, "hash", check.Hash)
	}
	return check
}
