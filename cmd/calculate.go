package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/R4Sput1n/trading212-tax-calculator-PL/exporter"
	"github.com/R4Sput1n/trading212-tax-calculator-PL/renderer"
	"github.com/google/subcommands"
)

// calculateCmd holds the flags for the 'calculate' subcommand.
type calculateCmd struct {
	year    int
	file    string
	out     string
	noExcel bool
}

func (*calculateCmd) Name() string     { return "calculate" }
func (*calculateCmd) Synopsis() string { return "compute the tax report for a year" }
func (*calculateCmd) Usage() string {
	return `t212tax calculate [-year <year>] [-l <file>] [-o <file>] [-no-excel]

  Runs the FIFO and dividend calculations over the processed transactions,
  prints the tax report, and writes it to an Excel workbook laid out after
  the PIT-38 and PIT/ZG forms.
`
}

func (c *calculateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Tax year to compute. 0 covers all years.")
	f.StringVar(&c.file, "l", "", "Processed transactions file. Defaults to the configured one.")
	f.StringVar(&c.out, "o", "", "Output Excel file. Defaults to the configured one.")
	f.BoolVar(&c.noExcel, "no-excel", false, "Only print the report, do not write the Excel file.")
}

func (c *calculateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.file == "" {
		c.file = cfg.ProcessedFile
	}
	if c.out == "" {
		c.out = cfg.ReportFile
	}

	txs, err := DecodeProcessed(c.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rate := cfg.Rate()
	fifo := taxcalc.FIFOCalculator{}.Calculate(txs, c.year)
	div := taxcalc.NewDividendCalculator(rate).Calculate(txs, c.year)
	report := taxcalc.BuildTaxReport(fifo, div, rate, c.year)

	printMarkdown(renderer.ReportMarkdown(report))

	if c.noExcel {
		return subcommands.ExitSuccess
	}

	if dir := filepath.Dir(c.out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	if err := exporter.WriteExcel(report, c.out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Report written to %s\n", c.out)
	return subcommands.ExitSuccess
}
