package log

import (
	"bytes"
	"flag"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"
)

func cliContext(t *testing.T, args ...string) *cli.Context {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range CLIFlags("TEST") {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(app, set, nil)
}

func TestReadCLIConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ReadCLIConfigStrict(cliContext(t))
		require.NoError(t, err)
		require.Equal(t, log.LevelInfo, cfg.Level)
		require.Equal(t, FormatText, cfg.Format)
	})
	t.Run("set", func(t *testing.T) {
		cfg, err := ReadCLIConfigStrict(cliContext(t, "--log.level=debug", "--log.format=json", "--log.color"))
		require.NoError(t, err)
		require.Equal(t, log.LevelDebug, cfg.Level)
		require.Equal(t, FormatJSON, cfg.Format)
		require.True(t, cfg.Color)
	})
	t.Run("invalid level", func(t *testing.T) {
		_, err := ReadCLIConfigStrict(cliContext(t, "--log.level=loud"))
		require.ErrorContains(t, err, "unknown level")
		require.Equal(t, DefaultCLIConfig().Level, ReadCLIConfig(cliContext(t, "--log.level=loud")).Level)
	})
	t.Run("invalid format", func(t *testing.T) {
		_, err := ReadCLIConfigStrict(cliContext(t, "--log.format=xml"))
		require.ErrorContains(t, err, "unrecognized log-format")
	})
}

func TestNewLogger(t *testing.T) {
	for _, format := range formatTypes {
		format := format
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			lgr := NewLogger(&buf, CLIConfig{Level: log.LevelInfo, Format: format})
			lgr.Debug("hidden")
			lgr.Info("validated block", "number", big.NewInt(42), "amount", uint256.NewInt(7))
			out := buf.String()
			require.NotContains(t, out, "hidden")
			require.Contains(t, out, "validated block")
			require.Contains(t, out, "42")
		})
	}
}

func TestMsHandler(t *testing.T) {
	var buf bytes.Buffer
	lgr := log.NewLogger(msHandler(&buf, slog.LevelDebug, true))
	var nilInt *big.Int
	lgr.Debug("hello", "value", nilInt, "fee", uint256.NewInt(1000))
	out := buf.String()
	require.True(t, strings.Contains(out, "lvl=debug") || strings.Contains(out, "lvl=dbug"), out)
	require.Contains(t, out, "value=<nil>")
	require.Contains(t, out, "fee=1000")
}
