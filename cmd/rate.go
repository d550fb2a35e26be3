package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/R4Sput1n/trading212-tax-calculator-PL/nbp"
	"github.com/google/subcommands"
)

// rateCmd holds the flags for the 'rate' subcommand.
type rateCmd struct {
	date string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "look up the NBP exchange rate applicable to a trade date" }
func (*rateCmd) Usage() string {
	return `t212tax rate [-d <date>] <currency> [<currency> ...]

  Looks up the PLN exchange rate for a trade on the given date: the average
  NBP rate of the preceding business day.

Usage Examples:
$ t212tax rate USD
$ t212tax rate -d 2025-03-10 USD EUR GBX
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", taxcalc.Today().String(), "The trade date to look up.")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one currency is required")
		return subcommands.ExitUsageError
	}

	day, err := taxcalc.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	client := nbp.New(cfg.NBPBaseURL)
	status := subcommands.ExitSuccess
	for _, currency := range f.Args() {
		rate, err := client.Rate(day, currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s %s: %s\n", day, currency, rate)
	}
	return status
}
