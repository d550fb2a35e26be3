package taxcalc

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat Polish rate for capital gains and dividends.
var DefaultTaxRate = decimal.NewFromFloat(0.19)

// DividendSummary is the per-country aggregate of dividend income and the
// withholding credit against the domestic dividend tax.
type DividendSummary struct {
	Country          string
	TotalDividendPLN Money
	TaxPaidAbroadPLN Money
	TaxDuePolandPLN  Money
	TaxToPayPLN      Money // never negative: excess foreign withholding is not refunded
	Count            int
}

// DividendStats holds run-level totals for one dividend calculation.
type DividendStats struct {
	Dividends        int
	TaxYear          int // 0 when the run covered all years
	TotalDividendPLN Money
	TaxPaidAbroadPLN Money
	TaxDuePolandPLN  Money
	TaxToPayPLN      Money
}

// DividendResult is the outcome of one dividend calculation run.
type DividendResult struct {
	Summaries map[string]*DividendSummary // by country, "Unknown" sentinel included
	Stats     DividendStats
	Issues    []string
}

// Countries returns the summary countries in deterministic (sorted) order.
func (r DividendResult) Countries() []string {
	countries := make([]string, 0, len(r.Summaries))
	for c := range r.Summaries {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}

// DividendCalculator aggregates dividend withholding credits by country of
// source and reconciles them against the flat domestic dividend tax.
//
// The tax rate is an explicit value, injected at construction: the
// calculator reads no global settings.
type DividendCalculator struct {
	TaxRate decimal.Decimal
}

// NewDividendCalculator creates a calculator with the given flat tax rate.
func NewDividendCalculator(taxRate decimal.Decimal) DividendCalculator {
	return DividendCalculator{TaxRate: taxRate}
}

// Validate checks the dividend batch before aggregation and returns the list
// of issues, empty when the batch is computable.
func (DividendCalculator) Validate(dividends []Dividend) []string {
	var issues []string
	for i, tx := range dividends {
		issues = append(issues, validationIssues(i, tx)...)
		if tx.Country == "" {
			issues = append(issues, fmt.Sprintf("transaction #%d (%s) has no country information", i, tx.What()))
		}
	}
	return issues
}

// Calculate aggregates the dividends of a transaction batch, optionally
// restricted to one calendar year (taxYear 0 means all years).
//
// A batch with no dividend transactions at all is a benign empty result, not
// an error. Dividends with an unresolved country are grouped under the
// "Unknown" sentinel, never dropped. Absent withholding is treated as zero.
func (c DividendCalculator) Calculate(txs []Transaction, taxYear int) DividendResult {
	var dividends []Dividend
	for _, tx := range txs {
		d, ok := tx.(Dividend)
		if !ok {
			continue
		}
		if taxYear != 0 && d.Date.Year() != taxYear {
			continue
		}
		dividends = append(dividends, d)
	}

	result := DividendResult{Summaries: make(map[string]*DividendSummary)}
	result.Stats.TaxYear = taxYear
	if len(dividends) == 0 {
		return result
	}

	if issues := c.Validate(dividends); len(issues) > 0 {
		result.Issues = issues
		return result
	}

	for _, d := range dividends {
		country := d.CountryOrUnknown()
		summary, ok := result.Summaries[country]
		if !ok {
			summary = &DividendSummary{Country: country}
			result.Summaries[country] = summary
		}

		summary.TotalDividendPLN = summary.TotalDividendPLN.Add(d.ValuePLN)
		summary.TaxPaidAbroadPLN = summary.TaxPaidAbroadPLN.Add(d.WithholdingPLN)
		summary.Count++

		result.Stats.TotalDividendPLN = result.Stats.TotalDividendPLN.Add(d.ValuePLN)
		result.Stats.TaxPaidAbroadPLN = result.Stats.TaxPaidAbroadPLN.Add(d.WithholdingPLN)
	}
	result.Stats.Dividends = len(dividends)

	// Finalize: domestic tax due, and the floored net to pay per country.
	for _, summary := range result.Summaries {
		summary.TaxDuePolandPLN = summary.TotalDividendPLN.MulRate(c.TaxRate)

		toPay := summary.TaxDuePolandPLN.Sub(summary.TaxPaidAbroadPLN)
		if toPay.IsNegative() {
			toPay = PLN(decimal.Zero)
		}
		summary.TaxToPayPLN = toPay

		result.Stats.TaxDuePolandPLN = result.Stats.TaxDuePolandPLN.Add(summary.TaxDuePolandPLN)
		result.Stats.TaxToPayPLN = result.Stats.TaxToPayPLN.Add(summary.TaxToPayPLN)
	}
	return result
}
