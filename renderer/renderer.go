// Package renderer turns calculation results into markdown reports.
package renderer

import (
	"fmt"
	"strings"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
)

// yearLabel names the period a report covers.
func yearLabel(year int) string {
	if year == 0 {
		return "all years"
	}
	return fmt.Sprintf("%d", year)
}

// ReportMarkdown renders the full tax report: the PIT-38 figures, the
// per-country dividend reconciliation, the PIT/ZG rows and any issues.
func ReportMarkdown(r *taxcalc.TaxReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Tax Report (%s)\n\n", yearLabel(r.Year))
	fmt.Fprintf(&b, "Report ID: %s\n\n", r.ID)

	fmt.Fprint(&b, "## PIT-38 Securities (section C)\n\n")
	fmt.Fprintln(&b, "| Field | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Income | %s |\n", r.PIT38.TotalIncomePLN)
	fmt.Fprintf(&b, "| Cost | %s |\n", r.PIT38.TotalCostPLN)
	if r.PIT38.LossPLN.IsPositive() {
		fmt.Fprintf(&b, "| Loss | %s |\n", r.PIT38.LossPLN)
	} else {
		fmt.Fprintf(&b, "| Profit | %s |\n", r.PIT38.ProfitPLN)
	}
	fmt.Fprintf(&b, "| Tax base | %d PLN |\n", r.PIT38.TaxBase)
	fmt.Fprintf(&b, "| Tax due | %d PLN |\n\n", r.PIT38.TaxDue)

	ConditionalBlock(&b, func(w *strings.Builder) bool {
		if len(r.PIT38.Dividends) == 0 {
			return false
		}
		fmt.Fprint(w, "## PIT-38 Dividends (section G)\n\n")
		fmt.Fprintln(w, "| Country | Dividends | Tax due | Paid abroad | To pay |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|")
		for _, d := range r.PIT38.Dividends {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
				d.Country, d.DividendPLN, d.TaxDuePLN, d.TaxPaidAbroad, d.TaxToPayPLN)
		}
		fmt.Fprintln(w)
		return true
	})

	ConditionalBlock(&b, func(w *strings.Builder) bool {
		if len(r.PITZG) == 0 {
			return false
		}
		fmt.Fprint(w, "## PIT/ZG\n\n")
		fmt.Fprintln(w, "| Country | Type | Income | Cost | Profit | On form | Verify |")
		fmt.Fprintln(w, "|:---|:---:|---:|---:|---:|:---:|:---:|")
		for _, e := range r.PITZG {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
				e.Country, e.IncomeType, e.IncomePLN, e.CostPLN, e.ProfitPLN,
				yesNo(e.IncludeInForm), yesNo(e.RequiresVerification))
		}
		fmt.Fprintln(w)
		return true
	})

	fmt.Fprintf(&b, "**Total tax due: %d PLN**\n", r.PIT38.TotalTaxDue())

	ConditionalBlock(&b, func(w *strings.Builder) bool {
		if len(r.Issues) == 0 {
			return false
		}
		fmt.Fprint(w, "\n## Issues\n\n")
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "- %s\n", issue)
		}
		return true
	})

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
