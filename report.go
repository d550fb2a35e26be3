package taxcalc

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fromISINSuffix marks a country label that was derived from the ISIN prefix
// rather than resolved from company data, and should be verified by hand.
const fromISINSuffix = "(from ISIN)"

// DividendLine is one per-country dividend row of the PIT-38 section G.
type DividendLine struct {
	Country       string
	DividendPLN   Money
	TaxDuePLN     Money
	TaxPaidAbroad Money
	TaxToPayPLN   Money
}

// PIT38Summary carries the figures of the PIT-38 form: section C/D for
// securities, section G for dividends.
type PIT38Summary struct {
	TotalIncomePLN Money
	TotalCostPLN   Money
	ProfitPLN      Money // zero when the year closed at a loss
	LossPLN        Money // zero when the year closed at a profit
	TaxBase        int64 // profit truncated to whole PLN
	TaxDue         int64 // TaxBase x rate, truncated to whole PLN
	Dividends      []DividendLine
}

// TotalTaxDue returns the securities tax due plus the net dividend tax to
// pay, both truncated to whole PLN the way the form fields are.
func (s PIT38Summary) TotalTaxDue() int64 {
	total := s.TaxDue
	for _, d := range s.Dividends {
		total += d.TaxToPayPLN.Truncated()
	}
	return total
}

// PITZGEntry is one country row of the PIT/ZG form (income from foreign
// sources). Securities income uses income type "10".
type PITZGEntry struct {
	Country              string
	IncomeType           string
	IncomePLN            Money
	CostPLN              Money
	ProfitPLN            Money // floored at zero: a foreign loss is not reported on PIT/ZG
	TaxPaidAbroadPLN     Money
	IncludeInForm        bool // only profitable countries go on the official form
	RequiresVerification bool // country was derived from the ISIN prefix
}

// TaxReport is the complete outcome of a calculation run, ready for
// rendering and export.
type TaxReport struct {
	ID   uuid.UUID
	Year int // 0 when the run covered all years

	PIT38 PIT38Summary
	PITZG []PITZGEntry

	Matches   []MatchResult
	Dividends DividendResult
	Portfolio *Portfolio

	Stats  FIFOStats
	Issues []string
}

// BuildTaxReport compiles FIFO and dividend calculation results into the
// PIT-38 and PIT/ZG form data.
func BuildTaxReport(fifo FIFOResult, div DividendResult, taxRate decimal.Decimal, taxYear int) *TaxReport {
	report := &TaxReport{
		ID:        uuid.New(),
		Year:      taxYear,
		Matches:   fifo.Matches,
		Dividends: div,
		Portfolio: fifo.Portfolio,
		Stats:     fifo.Stats,
	}
	report.Issues = append(report.Issues, fifo.Issues...)
	report.Issues = append(report.Issues, div.Issues...)

	report.PIT38 = buildPIT38(fifo, div, taxRate)
	report.PITZG = buildPITZG(fifo.Matches)
	return report
}

func buildPIT38(fifo FIFOResult, div DividendResult, taxRate decimal.Decimal) PIT38Summary {
	s := PIT38Summary{
		TotalIncomePLN: fifo.Stats.IncomePLN,
		TotalCostPLN:   fifo.Stats.CostPLN,
		ProfitPLN:      PLN(decimal.Zero),
		LossPLN:        PLN(decimal.Zero),
	}

	if s.TotalIncomePLN.GreaterThan(s.TotalCostPLN) {
		s.ProfitPLN = s.TotalIncomePLN.Sub(s.TotalCostPLN)
	} else {
		s.LossPLN = s.TotalCostPLN.Sub(s.TotalIncomePLN)
	}

	// Form fields are whole PLN; the base truncates, and so does the tax.
	s.TaxBase = s.ProfitPLN.Truncated()
	s.TaxDue = decimal.NewFromInt(s.TaxBase).Mul(taxRate).Truncate(0).IntPart()

	for _, country := range div.Countries() {
		summary := div.Summaries[country]
		s.Dividends = append(s.Dividends, DividendLine{
			Country:       country,
			DividendPLN:   summary.TotalDividendPLN,
			TaxDuePLN:     summary.TaxDuePolandPLN,
			TaxPaidAbroad: summary.TaxPaidAbroadPLN,
			TaxToPayPLN:   summary.TaxToPayPLN,
		})
	}
	return s
}

func buildPITZG(matches []MatchResult) []PITZGEntry {
	byCountry := make(map[string]*PITZGEntry)
	for _, m := range matches {
		entry, ok := byCountry[m.Country]
		if !ok {
			entry = &PITZGEntry{
				Country:              m.Country,
				IncomeType:           "10", // securities income
				RequiresVerification: strings.Contains(m.Country, fromISINSuffix),
			}
			byCountry[m.Country] = entry
		}
		entry.IncomePLN = entry.IncomePLN.Add(m.IncomePLN)
		entry.CostPLN = entry.CostPLN.Add(m.CostPLN)
	}

	countries := make([]string, 0, len(byCountry))
	for c := range byCountry {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	entries := make([]PITZGEntry, 0, len(countries))
	for _, c := range countries {
		entry := byCountry[c]
		profit := entry.IncomePLN.Sub(entry.CostPLN)
		if profit.IsNegative() {
			profit = PLN(decimal.Zero)
		}
		entry.ProfitPLN = profit
		entry.IncludeInForm = profit.IsPositive()
		entries = append(entries, *entry)
	}
	return entries
}
