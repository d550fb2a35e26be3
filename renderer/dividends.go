package renderer

import (
	"fmt"
	"strings"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
)

// DividendsMarkdown renders the per-country dividend aggregation of one run.
func DividendsMarkdown(result taxcalc.DividendResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Dividends (%s)\n\n", yearLabel(result.Stats.TaxYear))

	if len(result.Summaries) == 0 {
		fmt.Fprintln(&b, "No dividends in the period.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Country | Payments | Dividends | Tax due (PL) | Paid abroad | To pay |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, country := range result.Countries() {
		s := result.Summaries[country]
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			s.Country, s.Count, s.TotalDividendPLN,
			s.TaxDuePolandPLN, s.TaxPaidAbroadPLN, s.TaxToPayPLN)
	}
	fmt.Fprintf(&b, "| **Total** | %d | **%s** | **%s** | **%s** | **%s** |\n",
		result.Stats.Dividends, result.Stats.TotalDividendPLN,
		result.Stats.TaxDuePolandPLN, result.Stats.TaxPaidAbroadPLN, result.Stats.TaxToPayPLN)

	return b.String()
}
