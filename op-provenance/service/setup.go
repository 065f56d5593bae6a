package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	"github.com/chainprov/chainprov/op-provenance/metrics"
	opmetrics "github.com/chainprov/chainprov/op-service/metrics"
)

// startMetrics serves prometheus metrics when enabled. The returned stop function is always safe to call.
func startMetrics(cliCtx *cli.Context, lgr log.Logger) (metrics.Metricer, func(), error) {
	mCfg := opmetrics.ReadCLIConfig(cliCtx)
	if err := mCfg.Check(); err != nil {
		return nil, nil, fmt.Errorf("invalid metrics config: %w", err)
	}
	if !mCfg.Enabled {
		return metrics.NoopMetrics{}, func() {}, nil
	}
	m := metrics.NewMetrics("default")
	srv, err := opmetrics.StartServer(m.Registry(), mCfg.ListenAddr, mCfg.ListenPort)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start metrics server: %w", err)
	}
	lgr.Info("Started metrics server", "addr", srv.Addr())
	m.RecordInfo(cliCtx.App.Version)
	m.RecordUp()
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			lgr.Warn("Failed to stop metrics server", "err", err)
		}
	}
	return m, stop, nil
}

// writeOutput writes data as a hex string to path, or to the app writer if path is empty.
func writeOutput(cliCtx *cli.Context, path string, data []byte) error {
	encoded := hexutil.Encode(data)
	if path == "" {
		_, err := fmt.Fprintln(cliCtx.App.Writer, encoded)
		return err
	}
	if err := os.WriteFile(path, []byte(encoded+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
