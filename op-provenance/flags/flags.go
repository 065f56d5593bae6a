package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/chainprov/chainprov/op-provenance/config"
	"github.com/chainprov/chainprov/op-provenance/provenance"
	opservice "github.com/chainprov/chainprov/op-service"
	oplog "github.com/chainprov/chainprov/op-service/log"
	opmetrics "github.com/chainprov/chainprov/op-service/metrics"
)

const EnvVarPrefix = "OP_PROVENANCE"

func prefixEnvVars(name string) []string {
	return opservice.PrefixEnvVar(EnvVarPrefix, name)
}

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "TOML file overlaid on the built-in chain configuration",
		EnvVars: prefixEnvVars("CONFIG"),
	}
	NetworkFlag = &cli.StringFlag{
		Name:    "network",
		Usage:   "Network profile of the served chains: mainnet, testnet or all",
		EnvVars: prefixEnvVars("NETWORK"),
	}
	ConcurrencyFlag = &cli.IntFlag{
		Name:    "concurrency",
		Usage:   "Number of queries validated concurrently. Defaults to the configured value",
		EnvVars: prefixEnvVars("CONCURRENCY"),
	}
	InputFlag = &cli.StringFlag{
		Name:    "input",
		Usage:   "Query input file (JSON)",
		EnvVars: prefixEnvVars("INPUT"),
	}
	OutputFlag = &cli.StringFlag{
		Name:    "output",
		Usage:   "Output file. Prints to stdout if empty",
		EnvVars: prefixEnvVars("OUTPUT"),
	}
	FailOnErrorFlag = &cli.BoolFlag{
		Name:    "fail",
		Usage:   "Exit with non-zero code if a check fails",
		Value:   true,
		EnvVars: prefixEnvVars("FAIL"),
	}
	ChainFlag = &cli.StringFlag{
		Name:    "chain",
		Usage:   "Chain to query, by name: " + chainNames(),
		EnvVars: prefixEnvVars("CHAIN"),
	}
	AccountsFlag = &cli.StringSliceFlag{
		Name:  "account",
		Usage: "Account to read proof data for, repeated once per record",
	}
	AssetsFlag = &cli.StringSliceFlag{
		Name:  "asset",
		Usage: "Market to read proof data from, repeated once per record",
	}
	TargetChainsFlag = &cli.Uint64SliceFlag{
		Name:  "target-chain",
		Usage: "Target chain id of the proof data, repeated once per record",
	}
	L1InclusionFlag = &cli.BoolFlag{
		Name:  "l1-inclusion",
		Usage: "Back the query by L1 inclusion instead of the sequencer commitment",
	}
)

func chainNames() string {
	var out string
	for i, chain := range provenance.AllChains {
		if i > 0 {
			out += ", "
		}
		out += chain.String()
	}
	return out
}

func rpcFlagName(chain provenance.ChainID) string {
	return "rpc." + chain.String()
}

func sequencerFlagName(chain provenance.ChainID) string {
	return "sequencer." + chain.String()
}

// EndpointFlags override the RPC URL of every chain, and the sequencer commitment URL of every OP-Stack chain.
func EndpointFlags() []cli.Flag {
	var out []cli.Flag
	for _, chain := range provenance.AllChains {
		out = append(out, &cli.StringFlag{
			Name:    rpcFlagName(chain),
			Usage:   fmt.Sprintf("RPC URL of %s", chain),
			EnvVars: prefixEnvVars(rpcFlagName(chain)),
		})
	}
	for _, chain := range provenance.AllChains {
		if chain.RequireFamily(provenance.FamilyOpStack) != nil {
			continue
		}
		out = append(out, &cli.StringFlag{
			Name:    sequencerFlagName(chain),
			Usage:   fmt.Sprintf("Sequencer commitment URL of %s", chain),
			EnvVars: prefixEnvVars(sequencerFlagName(chain)),
		})
	}
	return out
}

// Flags are the global flags of the binary.
var Flags []cli.Flag

var (
	VerifyFlags         = []cli.Flag{InputFlag, OutputFlag}
	RecordFlags         = []cli.Flag{ChainFlag, AccountsFlag, AssetsFlag, TargetChainsFlag, L1InclusionFlag, OutputFlag}
	SequencerCheckFlags = []cli.Flag{ChainFlag, FailOnErrorFlag}
)

func init() {
	Flags = append(Flags, ConfigFlag, NetworkFlag, ConcurrencyFlag)
	Flags = append(Flags, EndpointFlags()...)
	Flags = append(Flags, oplog.CLIFlags(EnvVarPrefix)...)
	Flags = append(Flags, opmetrics.CLIFlags(EnvVarPrefix)...)
}

// ConfigFromCLI loads the chain configuration and applies the flag overrides.
func ConfigFromCLI(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.String(ConfigFlag.Name); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if ctx.IsSet(NetworkFlag.Name) {
		network, err := config.ParseNetwork(ctx.String(NetworkFlag.Name))
		if err != nil {
			return nil, err
		}
		cfg.Network = network
	}
	if ctx.IsSet(ConcurrencyFlag.Name) {
		cfg.Concurrency = ctx.Int(ConcurrencyFlag.Name)
	}
	for chain, cc := range cfg.Chains {
		if url := ctx.String(rpcFlagName(chain)); url != "" {
			cc.RPC = url
		}
		if url := ctx.String(sequencerFlagName(chain)); url != "" {
			cc.SequencerURL = url
		}
	}
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
