package cliutil

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

type textUnmarshalerThing struct {
	text string
}

func (t *textUnmarshalerThing) UnmarshalText(text []byte) error {
	t.text = string(text)
	return nil
}

type network uint64

func (n *network) UnmarshalText(text []byte) error {
	switch string(text) {
	case "mainnet":
		*n = 1
	case "sepolia":
		*n = 11155111
	default:
		return fmt.Errorf("unknown network %q", text)
	}
	return nil
}

func TestPopulateStruct(t *testing.T) {
	type testStruct struct {
		Str             string                `cli:"str"`
		Bool            bool                  `cli:"bool"`
		Int             int                   `cli:"int"`
		Uint64          uint64                `cli:"uint64"`
		Address         common.Address        `cli:"address"`
		Addresses       []common.Address      `cli:"addresses"`
		Uint64s         []uint64              `cli:"uint64s"`
		Network         network               `cli:"network"`
		TextUnmarshaler *textUnmarshalerThing `cli:"text-unmarshaler"`
		NotTagged       string
	}

	tests := []struct {
		name   string
		args   []string
		exp    testStruct
		expErr string
	}{
		{
			name: "all flags",
			args: []string{
				"--str=test",
				"--bool",
				"--int=1",
				"--uint64=3",
				fmt.Sprintf("--address=%s", common.HexToAddress("0x42")),
				fmt.Sprintf("--addresses=%s", common.HexToAddress("0x43")),
				fmt.Sprintf("--addresses=%s", common.HexToAddress("0x44")),
				"--uint64s=10,8453",
				"--network=sepolia",
				"--text-unmarshaler=hello",
			},
			exp: testStruct{
				Str:       "test",
				Bool:      true,
				Int:       1,
				Uint64:    3,
				Address:   common.HexToAddress("0x42"),
				Addresses: []common.Address{common.HexToAddress("0x43"), common.HexToAddress("0x44")},
				Uint64s:   []uint64{10, 8453},
				Network:   11155111,
				TextUnmarshaler: &textUnmarshalerThing{
					text: "hello",
				},
			},
		},
		{
			name: "no flags",
			args: []string{},
			exp:  testStruct{},
		},
		{
			name: "invalid address flag",
			args: []string{
				"--address=not-an-address",
			},
			expErr: "invalid address",
		},
		{
			name: "invalid address in list",
			args: []string{
				fmt.Sprintf("--addresses=%s", common.HexToAddress("0x43")),
				"--addresses=0x12",
			},
			expErr: "invalid address: 0x12",
		},
		{
			name: "invalid named value",
			args: []string{
				"--network=holesky",
			},
			expErr: "unknown network",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Name: "test",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "str"},
					&cli.BoolFlag{Name: "bool"},
					&cli.IntFlag{Name: "int"},
					&cli.Uint64Flag{Name: "uint64"},
					&cli.StringFlag{Name: "address"},
					&cli.StringSliceFlag{Name: "addresses"},
					&cli.Uint64SliceFlag{Name: "uint64s"},
					&cli.StringFlag{Name: "network"},
					&cli.StringFlag{Name: "text-unmarshaler"},
				},
				Action: func(cliCtx *cli.Context) error {
					ts := testStruct{}

					if tt.expErr == "" {
						require.NoError(t, PopulateStruct(&ts, cliCtx))
						require.EqualValues(t, tt.exp, ts)
					} else {
						require.ErrorContains(t, PopulateStruct(&ts, cliCtx), tt.expErr)
					}
					return nil
				},
			}

			require.NoError(t, app.Run(append([]string{"program-goes-here"}, tt.args...)))
		})
	}
}

func TestPopulateStructRejectsNonPointer(t *testing.T) {
	app := &cli.App{
		Name: "test",
		Action: func(cliCtx *cli.Context) error {
			return PopulateStruct(struct{}{}, cliCtx)
		},
	}
	require.ErrorContains(t, app.Run([]string{"program-goes-here"}), "pointer to struct")
}
