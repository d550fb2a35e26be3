package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/R4Sput1n/trading212-tax-calculator-PL/companyinfo"
	"github.com/R4Sput1n/trading212-tax-calculator-PL/nbp"
	"github.com/R4Sput1n/trading212-tax-calculator-PL/trading212"
	"github.com/google/subcommands"
)

// processCmd holds the flags for the 'process' subcommand.
type processCmd struct {
	out     string
	offline bool
}

func (*processCmd) Name() string { return "process" }
func (*processCmd) Synopsis() string {
	return "parse Trading212 CSV exports into processed transactions"
}
func (*processCmd) Usage() string {
	return `t212tax process [-o <file>] [<csv-file-or-glob> ...]

  Parses Trading212 CSV exports, resolves NBP exchange rates and company
  countries, and writes the processed transactions to a JSONL file. Without
  arguments all CSV files in the configured data directory are processed.

Usage Examples:
# Process the default data directory.
$ t212tax process

# Process specific exports.
$ t212tax process exports/2024.csv exports/2025.csv
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "Output file for processed transactions. Defaults to the configured one.")
	f.BoolVar(&c.offline, "offline", false, "Use static exchange rates and ISIN-based countries instead of online lookups.")
}

func (c *processCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.out == "" {
		c.out = cfg.ProcessedFile
	}

	patterns := f.Args()
	if len(patterns) == 0 {
		patterns = []string{filepath.Join(cfg.DataDir, "*.csv")}
	}

	registry := taxcalc.NewCountryRegistry()
	var parser *trading212.Parser
	if c.offline {
		parser = trading212.New(nbp.NewStatic(), &companyinfo.Static{Registry: registry})
	} else {
		parser = trading212.New(nbp.New(cfg.NBPBaseURL), companyinfo.New(registry))
	}

	var txs []taxcalc.Transaction
	for _, pattern := range patterns {
		parsed, err := parser.ParseGlob(pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", pattern, err)
			return subcommands.ExitFailure
		}
		txs = append(txs, parsed...)
	}
	taxcalc.SortTransactions(txs)

	if len(txs) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no transactions found.")
		return subcommands.ExitSuccess
	}

	if err := EncodeProcessed(c.out, txs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully processed %d transactions into %s\n", len(txs), c.out)
	return subcommands.ExitSuccess
}
