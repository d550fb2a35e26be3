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

// matchesCmd holds the flags for the 'matches' subcommand.
type matchesCmd struct {
	year int
	file string
}

func (*matchesCmd) Name() string     { return "matches" }
func (*matchesCmd) Synopsis() string { return "show the FIFO matches behind the realized gains" }
func (*matchesCmd) Usage() string {
	return `t212tax matches [-year <year>] [-l <file>]

  Shows every FIFO match of the period: which purchase lots were consumed by
  which sales, with the income, cost and profit of each match in PLN.
`
}

func (c *matchesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Tax year to compute. 0 covers all years.")
	f.StringVar(&c.file, "l", "", "Processed transactions file. Defaults to the configured one.")
}

func (c *matchesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	result := taxcalc.FIFOCalculator{}.Calculate(txs, c.year)
	printMarkdown(renderer.MatchesMarkdown(result))

	for _, issue := range result.Issues {
		fmt.Fprintf(os.Stderr, "issue: %s\n", issue)
	}
	return subcommands.ExitSuccess
}
