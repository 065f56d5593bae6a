package service

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/olekukonko/tablewriter"

	"github.com/chainprov/chainprov/op-provenance/provenance/query"
)

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	return table
}

// RecordsMarkdown renders the records of every query as a markdown table.
func RecordsMarkdown(results [][]query.ProofDataRecord) string {
	buf := new(bytes.Buffer)
	table := newTable(buf, []string{"Query", "Account", "Asset", "Amount In", "Amount Out", "Source", "Target", "L1 Inclusion"})
	var n int
	for i, records := range results {
		for _, rec := range records {
			n++
			table.Append([]string{
				fmt.Sprint(i),
				rec.Account.Hex(),
				rec.Asset.Hex(),
				amount(rec.AmountIn),
				amount(rec.AmountOut),
				fmt.Sprint(rec.SourceChain),
				fmt.Sprint(rec.TargetChain),
				fmt.Sprint(rec.L1Inclusion),
			})
		}
	}
	if n == 0 {
		table.Append([]string{"-", "No records.", "", "", "", "", "", ""})
	}
	table.Render()
	return buf.String()
}

func amount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// SequencerCheck is the result of checking the latest commitment of one sequencer.
type SequencerCheck struct {
	Chain  string
	Block  string
	Hash   string
	Signer string
	Err    error
}

func (c *SequencerCheck) Result() string {
	if c.Err != nil {
		return c.Err.Error()
	}
	return "ok"
}

// SequencerChecksMarkdown renders sequencer checks as a markdown table.
func SequencerChecksMarkdown(checks []*SequencerCheck) string {
	buf := new(bytes.Buffer)
	table := newTable(buf, []string{"Chain", "Block", "Hash", "Sequencer", "Result"})
	for _, c := range checks {
		table.Append([]string{c.Chain, c.Block, c.Hash, c.Signer, c.Result()})
	}
	if len(checks) == 0 {
		table.Append([]string{"-", "", "", "", "No sequencers checked."})
	}
	table.Render()
	return buf.String()
}
