// Package trading212 parses the CSV exports of the Trading212 broker into
// typed transactions, resolving exchange rates and company countries through
// narrow collaborator interfaces so the calculators never perform I/O.
package trading212

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
)

// RateService resolves the PLN exchange rate applicable to a trade date.
// Implemented by nbp.Client.
type RateService interface {
	Rate(day taxcalc.Date, currency string) (decimal.Decimal, error)
}

// CountryService resolves the country of domicile of a security.
// Implemented by companyinfo.Client.
type CountryService interface {
	CountryOf(isin, name string) string
}

// Column headers of the Trading212 CSV export format.
const (
	colAction        = "Action"
	colTime          = "Time"
	colISIN          = "ISIN"
	colTicker        = "Ticker"
	colName          = "Name"
	colShares        = "No. of shares"
	colPrice         = "Price / share"
	colPriceCurrency = "Currency (Price / share)"
	colWithholding   = "Withholding tax"
	colConvFee       = "Currency conversion fee"
	colConvFeeCur    = "Currency (Currency conversion fee)"
	colFrenchTax     = "French transaction tax"
	colFrenchTaxCur  = "Currency (French transaction tax)"
)

// Parser turns Trading212 CSV rows into transactions. Rates and countries
// are resolved during parsing so the transactions reach the calculators
// fully populated.
type Parser struct {
	Rates     RateService
	Countries CountryService
}

// New creates a Parser with the given collaborators.
func New(rates RateService, countries CountryService) *Parser {
	return &Parser{Rates: rates, Countries: countries}
}

// ParseGlob parses all files matching a glob pattern and returns the merged
// batch sorted chronologically.
func (p *Parser) ParseGlob(pattern string) ([]taxcalc.Transaction, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	return p.ParseFiles(files)
}

// ParseFiles parses multiple CSV files and returns the merged batch sorted
// chronologically.
func (p *Parser) ParseFiles(files []string) ([]taxcalc.Transaction, error) {
	var all []taxcalc.Transaction
	for _, file := range files {
		txs, err := p.ParseFile(file)
		if err != nil {
			return nil, err
		}
		all = append(all, txs...)
	}
	taxcalc.SortTransactions(all)
	return all, nil
}

// ParseFile parses a single Trading212 CSV file.
func (p *Parser) ParseFile(path string) ([]taxcalc.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	txs, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	log.Info().Str("file", path).Int("transactions", len(txs)).Msg("parsed")
	return txs, nil
}

// Parse parses Trading212 CSV data. Rows that cannot be parsed degrade to a
// logged warning; only a malformed CSV stream is a hard error.
func (p *Parser) Parse(r io.Reader) ([]taxcalc.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Trading212 pads columns inconsistently between export versions.

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var txs []taxcalc.Transaction
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		tx, err := p.parseRow(cols, row)
		if err != nil {
			log.Warn().Int("line", line).Err(err).Msg("skipping row")
			continue
		}
		if tx != nil {
			txs = append(txs, tx)
		}
	}
	taxcalc.SortTransactions(txs)
	return txs, nil
}

// parseRow builds one transaction from a CSV row, or (nil, nil) for row
// kinds that are not tax-relevant (deposits, interest, ...).
func (p *Parser) parseRow(cols map[string]int, row []string) (taxcalc.Transaction, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	action := field(colAction)
	if action == "" {
		return nil, nil
	}

	var isBuy, isSell, isDividend bool
	switch {
	case action == "Market buy" || action == "Limit buy":
		isBuy = true
	case action == "Market sell" || action == "Limit sell":
		isSell = true
	case strings.Contains(action, "Dividend"):
		isDividend = true
	default:
		return nil, nil
	}

	day, err := taxcalc.ParseDate(field(colTime))
	if err != nil {
		return nil, fmt.Errorf("action %q: %w", action, err)
	}

	quantity, err := parseDecimal(field(colShares))
	if err != nil {
		return nil, fmt.Errorf("invalid share count %q: %w", field(colShares), err)
	}

	price, err := parseDecimal(field(colPrice))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", field(colPrice), err)
	}

	currency := field(colPriceCurrency)
	if currency == "" {
		currency = taxcalc.Domestic
	}

	ticker := field(colTicker)
	isin := field(colISIN)
	name := field(colName)

	rate := p.rate(day, currency)
	feeForeign, feePLN := p.fees(field, day, currency)

	country := ""
	if isin != "" {
		country = p.Countries.CountryOf(isin, name)
	}

	switch {
	case isBuy:
		tx := taxcalc.NewBuy(day, ticker, isin, name, taxcalc.Q(quantity), taxcalc.M(price, currency))
		tx.FeeForeign, tx.FeePLN, tx.Country = feeForeign, feePLN, country
		tx.Resolve(rate)
		return tx, nil

	case isSell:
		tx := taxcalc.NewSell(day, ticker, isin, name, taxcalc.Q(quantity), taxcalc.M(price, currency))
		tx.FeeForeign, tx.FeePLN, tx.Country = feeForeign, feePLN, country
		tx.Resolve(rate)
		return tx, nil

	case isDividend:
		tx := taxcalc.NewDividend(day, ticker, isin, name, taxcalc.Q(quantity), taxcalc.M(price, currency))
		tx.FeeForeign, tx.FeePLN, tx.Country = feeForeign, feePLN, country
		if s := field(colWithholding); s != "" {
			withheld, err := parseDecimal(s)
			if err != nil {
				return nil, fmt.Errorf("invalid withholding tax %q: %w", s, err)
			}
			tx.WithholdingForeign = taxcalc.M(withheld, currency)
		}
		tx.Resolve(rate)
		return tx, nil
	}
	return nil, nil
}

// rate resolves the PLN exchange rate, degrading to zero (unresolved) so the
// transaction is still constructed and flagged by downstream validation.
func (p *Parser) rate(day taxcalc.Date, currency string) decimal.Decimal {
	rate, err := p.Rates.Rate(day, currency)
	if err != nil {
		log.Warn().Str("currency", currency).Str("date", day.String()).Err(err).Msg("exchange rate unresolved")
		return decimal.Decimal{}
	}
	return rate
}

// fees folds the currency conversion fee and the French transaction tax into
// a PLN part and a trade-currency part. A fee in a third currency is converted
// to PLN at its own rate.
func (p *Parser) fees(field func(string) string, day taxcalc.Date, currency string) (foreign, pln taxcalc.Money) {
	foreign = taxcalc.M(decimal.Zero, currency)
	pln = taxcalc.PLN(decimal.Zero)

	for _, f := range []struct{ amount, cur string }{
		{colConvFee, colConvFeeCur},
		{colFrenchTax, colFrenchTaxCur},
	} {
		s := field(f.amount)
		if s == "" {
			continue
		}
		amount, err := parseDecimal(s)
		if err != nil {
			log.Warn().Str("fee", f.amount).Str("value", s).Msg("invalid fee amount, ignored")
			continue
		}
		switch feeCur := field(f.cur); {
		case feeCur == "" || feeCur == taxcalc.Domestic:
			pln = pln.Add(taxcalc.PLN(amount))
		case feeCur == currency:
			foreign = foreign.Add(taxcalc.M(amount, feeCur))
		default:
			rate := p.rate(day, feeCur)
			if rate.IsZero() {
				log.Warn().Str("fee", f.amount).Str("currency", feeCur).Msg("fee in unresolved currency, ignored")
				continue
			}
			pln = pln.Add(taxcalc.M(amount, feeCur).MulRate(rate))
		}
	}
	return foreign, pln
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty number")
	}
	return decimal.NewFromString(s)
}
