// Package cmd implements the CLI application to compute Polish taxes on a
// Trading212 account.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&processCmd{}, "transactions")

	c.Register(&calculateCmd{}, "taxes")
	c.Register(&matchesCmd{}, "taxes")
	c.Register(&dividendsCmd{}, "taxes")
	c.Register(&holdingsCmd{}, "taxes")

	c.Register(&rateCmd{}, "tools")
	c.Register(&topicCmd{}, "tools")
	c.Register(&assistCmd{}, "tools")
}

// as a CLI application it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "t212tax.toml", "Path to the configuration file (TOML)")

// LoadConfig loads the app configuration and configures logging accordingly.
func LoadConfig() (taxcalc.Config, error) {
	cfg, err := taxcalc.LoadConfig(*configFile)
	if err != nil {
		return cfg, err
	}
	log.DefaultLogger = log.Logger{
		Level:  log.ParseLevel(cfg.LogLevel),
		Writer: &log.ConsoleWriter{Writer: os.Stderr, ColorOutput: true},
	}
	return cfg, nil
}

// DecodeProcessed loads the processed transactions file. A missing file is an
// empty history.
func DecodeProcessed(path string) ([]taxcalc.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("file", path).Msg("no processed transactions, run 'process' first")
			return nil, nil
		}
		return nil, fmt.Errorf("could not open transactions file %q: %w", path, err)
	}
	defer f.Close()

	txs, err := taxcalc.DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode transactions file %q: %w", path, err)
	}
	return txs, nil
}

// EncodeProcessed writes the processed transactions file, creating parent
// directories as needed.
func EncodeProcessed(path string, txs []taxcalc.Transaction) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create transactions file %q: %w", path, err)
	}
	defer f.Close()

	if err := taxcalc.EncodeTransactions(f, txs); err != nil {
		return fmt.Errorf("could not write transactions file %q: %w", path, err)
	}
	return nil
}
