package renderer

import (
	"fmt"
	"strings"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
)

// HoldingsMarkdown renders the open positions left after a calculation run,
// with their remaining PLN cost basis.
func HoldingsMarkdown(pf *taxcalc.Portfolio) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Open Positions\n\n")

	tickers := pf.Tickers()
	if len(tickers) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Ticker | Shares | Cost Basis |")
	fmt.Fprintln(&b, "|:---|---:|---:|")

	var totalCost taxcalc.Money
	for _, ticker := range tickers {
		pos := pf.Position(ticker)
		cost := pos.CostBasis()
		totalCost = totalCost.Add(cost)
		fmt.Fprintf(&b, "| %s | %s | %s |\n", ticker, pos.TotalShares(), cost)
	}
	fmt.Fprintf(&b, "| **Total** | | **%s** |\n", totalCost)

	return b.String()
}
