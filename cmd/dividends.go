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

// dividendsCmd holds the flags for the 'dividends' subcommand.
type dividendsCmd struct {
	year int
	file string
}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "aggregate dividends and withholding credits by country" }
func (*dividendsCmd) Usage() string {
	return `t212tax dividends [-year <year>] [-l <file>]

  Aggregates the dividends of the period by country of source, with the
  Polish tax due, the tax withheld abroad, and the net tax to pay.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Tax year to compute. 0 covers all years.")
	f.StringVar(&c.file, "l", "", "Processed transactions file. Defaults to the configured one.")
}

func (c *dividendsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	result := taxcalc.NewDividendCalculator(cfg.Rate()).Calculate(txs, c.year)
	printMarkdown(renderer.DividendsMarkdown(result))

	for _, issue := range result.Issues {
		fmt.Fprintf(os.Stderr, "issue: %s\n", issue)
	}
	return subcommands.ExitSuccess
}
