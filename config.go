package taxcalc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// Config holds the run configuration of the calculator. It is loaded from an
// optional TOML file; flags override individual values.
type Config struct {
	TaxRate       float64 `toml:"tax_rate"`       // flat capital gains / dividend rate, default 0.19
	NBPBaseURL    string  `toml:"nbp_base_url"`   // NBP table-A endpoint
	DataDir       string  `toml:"data_dir"`       // default location of Trading212 CSV exports
	OutputDir     string  `toml:"output_dir"`     // default location of generated reports
	ProcessedFile string  `toml:"processed_file"` // default processed transactions JSONL
	ReportFile    string  `toml:"report_file"`    // default Excel report
	LogLevel      string  `toml:"log_level"`      // debug, info, warn, error
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		TaxRate:       0.19,
		NBPBaseURL:    "https://api.nbp.pl/api/exchangerates/rates/a",
		DataDir:       "data",
		OutputDir:     "output",
		ProcessedFile: filepath.Join("data", "processed.jsonl"),
		ReportFile:    filepath.Join("output", "tax_report.xlsx"),
		LogLevel:      "info",
	}
}

// LoadConfig reads a TOML config file, falling back to defaults for a
// missing file. Unset fields keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return cfg, nil
}

// Rate returns the configured tax rate as an exact decimal.
func (c Config) Rate() decimal.Decimal {
	return decimal.NewFromFloat(c.TaxRate)
}
