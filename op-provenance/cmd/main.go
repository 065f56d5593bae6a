package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/chainprov/chainprov/op-provenance/flags"
	"github.com/chainprov/chainprov/op-provenance/service"
	opservice "github.com/chainprov/chainprov/op-service"
)

var (
	GitCommit = ""
	GitDate   = ""
	Version   = "v0.1.0"
)

func main() {
	app := cli.NewApp()
	app.Version = opservice.FormatVersion(Version, GitCommit, GitDate, "")
	app.Name = "op-provenance"
	app.Usage = "Cross-chain block provenance"
	app.Description = "Validates that proof data was read from authentic blocks of Ethereum, OP-Stack and Linea chains"
	app.Flags = flags.Flags
	app.Commands = []*cli.Command{
		{
			Name:   "verify",
			Usage:  "Verify the queries of an input file and print the packed proof data",
			Flags:  flags.VerifyFlags,
			Action: service.VerifyCmd,
		},
		{
			Name:   "record",
			Usage:  "Record a query from live chains into an input file",
			Flags:  flags.RecordFlags,
			Action: service.RecordCmd,
		},
		{
			Name:   "sequencer-check",
			Usage:  "Check the latest OP-Stack sequencer commitments against the configured sequencers",
			Flags:  flags.SequencerCheckFlags,
			Action: service.SequencerCheckCmd,
		},
	}
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}
