package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/R4Sput1n/trading212-tax-calculator-PL/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	file string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "show the open positions and their cost basis" }
func (*holdingsCmd) Usage() string {
	return `t212tax holdings [-l <file>]

  Replays the full transaction history and shows the positions still open,
  with their remaining share count and PLN cost basis.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "l", "", "Processed transactions file. Defaults to the configured one.")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.file == "" {
		c.file = cfg.ProcessedFile
	}

	txs, err := DecodeProcessed(c.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	result := taxcalc.FIFOCalculator{}.Calculate(txs, 0)
	printMarkdown(renderer.HoldingsMarkdown(result.Portfolio))
	return subcommands.ExitSuccess
}
