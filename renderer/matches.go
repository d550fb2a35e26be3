package renderer

import (
	"fmt"
	"strings"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
)

// MatchesMarkdown renders the FIFO matches of one calculation run, one row
// per (sale, lot) pair, with run totals.
func MatchesMarkdown(result taxcalc.FIFOResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# FIFO Matches (%s)\n\n", yearLabel(result.Stats.TaxYear))

	if len(result.Matches) == 0 {
		fmt.Fprintln(&b, "No sales matched in the period.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Ticker | Country | Bought | Sold | Qty | Income | Cost | Profit |")
	fmt.Fprintln(&b, "|:---|:---|:---:|:---:|---:|---:|---:|---:|")
	for _, m := range result.Matches {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			m.Ticker, m.Country, m.BuyDate, m.SellDate,
			m.UsedQuantity, m.IncomePLN, m.CostPLN, m.ProfitPLN.SignedString())
	}
	fmt.Fprintf(&b, "| **Total** | | | | | **%s** | **%s** | **%s** |\n",
		result.Stats.IncomePLN, result.Stats.CostPLN, result.Stats.ProfitPLN.SignedString())

	fmt.Fprintf(&b, "\n%d buys, %d sells, %d matches",
		result.Stats.Buys, result.Stats.Sells, result.Stats.Matches)
	if result.Stats.SkippedTxs > 0 {
		fmt.Fprintf(&b, ", %d skipped", result.Stats.SkippedTxs)
	}
	fmt.Fprintln(&b)

	return b.String()
}
