package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/chainprov/chainprov/op-provenance/config"
	"github.com/chainprov/chainprov/op-provenance/flags"
	"github.com/chainprov/chainprov/op-provenance/metrics"
	"github.com/chainprov/chainprov/op-provenance/provenance"
	"github.com/chainprov/chainprov/op-provenance/provenance/query"
	"github.com/chainprov/chainprov/op-provenance/snapshot"
	"github.com/chainprov/chainprov/op-provenance/sources"
	"github.com/chainprov/chainprov/op-service/cliutil"
	oplog "github.com/chainprov/chainprov/op-service/log"
)

func RecordCmd(cliCtx *cli.Context) error {
	lgr := oplog.NewLogger(oplog.AppOut(cliCtx), oplog.ReadCLIConfig(cliCtx))
	cfg, err := flags.ConfigFromCLI(cliCtx)
	if err != nil {
		return err
	}
	if !cliCtx.IsSet(flags.ChainFlag.Name) {
		return fmt.Errorf("missing --%s", flags.ChainFlag.Name)
	}
	var req sources.Request
	if err := cliutil.PopulateStruct(&req, cliCtx); err != nil {
		return fmt.Errorf("invalid query flags: %w", err)
	}
	m, stop, err := startMetrics(cliCtx, lgr)
	if err != nil {
		return err
	}
	defer stop()

	clients, sequencers, err := dialChains(cliCtx.Context, lgr, cfg, req)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range clients {
			c.Close()
		}
	}()

	f, results, err := Record(cliCtx.Context, lgr, cfg, m, sources.NewRecorder(lgr, cfg, clients, sequencers), req)
	if err != nil {
		return fmt.Errorf("failed to record: %w", err)
	}
	out := cliCtx.String(flags.OutputFlag.Name)
	if out == "" {
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cliCtx.App.Writer, string(data))
		if err != nil {
			return err
		}
	} else if err := snapshot.WriteFile(out, f); err != nil {
		return err
	}
	fmt.Fprint(cliCtx.App.ErrWriter, RecordsMarkdown([][]query.ProofDataRecord{results}))
	return nil
}

// Record assembles req from live chains and validates it. Every call the validation makes
// is captured, so the returned file verifies offline.
func Record(ctx context.Context, lgr log.Logger, cfg *config.Config, m metrics.Metricer, rec *sources.Recorder, req sources.Request) (*snapshot.File, []query.ProofDataRecord, error) {
	recording, err := rec.Record(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	records, err := query.NewExecutor(lgr, cfg, m).ValidateProofDataQuery(ctx, recording.Query)
	if err != nil {
		return nil, nil, err
	}
	return &snapshot.File{Queries: []*snapshot.Query{recording.Snapshot}}, records, nil
}

// chainsFor lists the chains a recording of req reads from.
func chainsFor(cfg *config.Config, req sources.Request) ([]provenance.ChainID, error) {
	family, err := req.Chain.Family()
	if err != nil {
		return nil, err
	}
	if _, err := cfg.Chain(req.Chain); err != nil {
		return nil, err
	}
	out := []provenance.ChainID{req.Chain}
	if family == provenance.FamilyOpStack || (family == provenance.FamilyLinea && !req.L1Inclusion) {
		return out, nil
	}
	l1, err := req.Chain.L1()
	if err != nil {
		return nil, err
	}
	if l1 != req.Chain {
		out = append(out, l1)
	}
	cc, err := cfg.Chain(l1)
	if err != nil {
		return nil, err
	}
	return append(out, cc.L1AnchorChain), nil
}

func dialChains(ctx context.Context, lgr log.Logger, cfg *config.Config, req sources.Request) (map[provenance.ChainID]*sources.Client, map[provenance.ChainID]*sources.SequencerClient, error) {
	chains, err := chainsFor(cfg, req)
	if err != nil {
		return nil, nil, err
	}
	clients := make(map[provenance.ChainID]*sources.Client)
	sequencers := make(map[provenance.ChainID]*sources.SequencerClient)
	for _, id := range chains {
		cc, err := cfg.Chain(id)
		if err != nil {
			return nil, nil, err
		}
		client, err := sources.Dial(ctx, lgr, id, cc.RPC, cc.RPCFallback)
		if err != nil {
			for _, c := range clients {
				c.Close()
			}
			return nil, nil, err
		}
		clients[id] = client
		if cc.SequencerURL != "" || cc.SequencerURLFallback != "" {
			sequencers[id] = sources.NewSequencerClient(lgr, id, cc.SequencerURL, cc.SequencerURLFallback)
		}
	}
	return clients, sequencers, nil
}
