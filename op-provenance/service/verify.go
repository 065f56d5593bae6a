package service

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/chainprov/chainprov/op-provenance/config"
	"github.com/chainprov/chainprov/op-provenance/flags"
	"github.com/chainprov/chainprov/op-provenance/metrics"
	"github.com/chainprov/chainprov/op-provenance/provenance/query"
	"github.com/chainprov/chainprov/op-provenance/snapshot"
	oplog "github.com/chainprov/chainprov/op-service/log"
)

func VerifyCmd(cliCtx *cli.Context) error {
	lgr := oplog.NewLogger(oplog.AppOut(cliCtx), oplog.ReadCLIConfig(cliCtx))
	cfg, err := flags.ConfigFromCLI(cliCtx)
	if err != nil {
		return err
	}
	inputPath := cliCtx.String(flags.InputFlag.Name)
	if inputPath == "" {
		return fmt.Errorf("missing --%s", flags.InputFlag.Name)
	}
	m, stop, err := startMetrics(cliCtx, lgr)
	if err != nil {
		return err
	}
	defer stop()

	results, err := Verify(cliCtx.Context, lgr, cfg, m, inputPath)
	if err != nil {
		return fmt.Errorf("failed to verify: %w", err)
	}
	out, err := query.EncodeOutput(query.PackRecords(results...))
	if err != nil {
		return err
	}
	if err := writeOutput(cliCtx, cliCtx.String(flags.OutputFlag.Name), out); err != nil {
		return err
	}
	fmt.Fprint(cliCtx.App.ErrWriter, RecordsMarkdown(results))
	return nil
}

// Verify validates every query of the input file. Any failing query fails the whole file.
func Verify(ctx context.Context, lgr log.Logger, cfg *config.Config, m metrics.Metricer, inputPath string) ([][]query.ProofDataRecord, error) {
	f, err := snapshot.LoadFile(inputPath)
	if err != nil {
		return nil, err
	}
	queries, err := f.ProofDataQueries()
	if err != nil {
		return nil, err
	}
	lgr.Info("Verifying queries", "file", inputPath, "queries", len(queries), "network", cfg.Network)
	runner := query.NewRunner(lgr, query.NewExecutor(lgr, cfg, m), cfg.Concurrency)
	return runner.Run(ctx, queries)
}
