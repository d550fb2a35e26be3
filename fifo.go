package taxcalc

import (
	"fmt"
	"strings"
)

// InsufficientSharesError is returned when a sale would consume more shares
// than the open position holds. The orchestrator converts it to a per-sale
// issue and keeps processing the rest of the batch.
type InsufficientSharesError struct {
	Ticker    string
	Requested Quantity
	Available Quantity
}

func (e *InsufficientSharesError) Error() string {
	if e.Available.IsZero() {
		return fmt.Sprintf("cannot sell %s: not in portfolio", e.Ticker)
	}
	return fmt.Sprintf("cannot sell %s shares of %s: only %s available", e.Requested, e.Ticker, e.Available)
}

// MatchResult is one FIFO match between a (possibly partial) sale and a
// (possibly partial) purchase lot. The set of match results for one sale sums
// exactly to the sale's quantity and PLN value.
type MatchResult struct {
	Ticker       string
	Country      string
	BuyDate      Date
	SellDate     Date
	UsedQuantity Quantity
	IncomePLN    Money
	CostPLN      Money // proportional purchase value + purchase fee + sale fee
	ProfitPLN    Money
}

// ProcessSale resolves a sale against the open lots of its ticker using the
// FIFO method, emitting one MatchResult per lot touched.
//
// Lots are consumed strictly oldest first. A fully consumed lot is removed;
// a partially consumed lot keeps its date and has its remaining quantity,
// value and fee reduced proportionally, so the cost of later consumptions
// remains exact. The match incomes and fees of one sale sum exactly to the
// sale's PLN value and fee.
func (pf *Portfolio) ProcessSale(sale Sell) ([]MatchResult, error) {
	pos, ok := pf.positions[sale.Ticker]
	if !ok {
		return nil, &InsufficientSharesError{Ticker: sale.Ticker, Requested: sale.Quantity}
	}
	if available := pos.TotalShares(); available.LessThan(sale.Quantity) {
		return nil, &InsufficientSharesError{Ticker: sale.Ticker, Requested: sale.Quantity, Available: available}
	}

	// PLN sale value per share; income per lot is consumed x this unit value.
	unitSaleValue := sale.ValuePLN.Div(sale.Quantity)

	var results []MatchResult
	remaining := sale.Quantity
	incomeLeft := sale.ValuePLN
	feeLeft := sale.FeePLN

	for remaining.IsPositive() && len(pos.lots) > 0 {
		oldest := pos.lots[0]

		consumed := remaining.Min(oldest.Remaining)
		ratio := consumed.Div(oldest.Remaining)

		income := unitSaleValue.Mul(consumed)
		saleFee := sale.FeePLN.Mul(consumed.Div(sale.Quantity))
		if consumed.Equal(remaining) {
			// Final consumption of the sale gets the exact remainder, so the
			// match incomes and fees sum to the sale's figures even when the
			// per-share division does not terminate.
			income = incomeLeft
			saleFee = feeLeft
		}
		purchaseCost := oldest.ValuePLN.Mul(ratio)
		purchaseFee := oldest.FeePLN.Mul(ratio)
		cost := purchaseCost.Add(purchaseFee).Add(saleFee)

		results = append(results, MatchResult{
			Ticker:       sale.Ticker,
			Country:      sale.CountryOrUnknown(),
			BuyDate:      oldest.Date(),
			SellDate:     sale.Date,
			UsedQuantity: consumed,
			IncomePLN:    income,
			CostPLN:      cost,
			ProfitPLN:    income.Sub(cost),
		})

		if consumed.Equal(oldest.Remaining) {
			pos.lots = pos.lots[1:]
		} else {
			oldest.Remaining = oldest.Remaining.Sub(consumed)
			oldest.ValuePLN = oldest.ValuePLN.Sub(purchaseCost)
			oldest.FeePLN = oldest.FeePLN.Sub(purchaseFee)
		}
		incomeLeft = incomeLeft.Sub(income)
		feeLeft = feeLeft.Sub(saleFee)
		remaining = remaining.Sub(consumed)
	}
	return results, nil
}

// FIFOStats holds run-level counters and totals for one FIFO calculation.
type FIFOStats struct {
	Buys       int
	Sells      int
	Matches    int
	TaxYear    int // 0 when the run covered all years
	IncomePLN  Money
	CostPLN    Money
	ProfitPLN  Money
	SkippedTxs int // sells skipped with an issue
}

// FIFOResult is the outcome of one FIFO calculation run.
type FIFOResult struct {
	Matches   []MatchResult
	Portfolio *Portfolio // open-position state after processing
	Stats     FIFOStats
	Issues    []string
}

// FIFOCalculator computes realized gains and losses for a transaction batch
// using the FIFO lot-matching discipline.
type FIFOCalculator struct{}

// Validate checks the batch before computation and returns the list of
// issues, empty when the batch is computable.
func (FIFOCalculator) Validate(txs []Transaction) []string {
	if len(txs) == 0 {
		return []string{"no transactions to process"}
	}
	var issues []string
	for i, tx := range txs {
		issues = append(issues, validationIssues(i, tx)...)
	}
	return issues
}

// validationIssues formats the per-field problems of one transaction the way
// the issue list reports them.
func validationIssues(i int, tx Transaction) []string {
	err := tx.Validate()
	if err == nil {
		return nil
	}
	var issues []string
	for _, line := range strings.Split(err.Error(), "\n") {
		issues = append(issues, fmt.Sprintf("transaction #%d (%s) %s", i, tx.What(), line))
	}
	return issues
}

// Calculate runs the FIFO matching over a transaction batch, optionally
// restricted to sales of one calendar year (taxYear 0 means all years).
//
// Buys are never year-filtered: the full purchase history establishes cost
// basis regardless of the sale year. An oversold sale degrades to an issue
// and processing continues with the remaining sales. Dividends are ignored
// here; they have their own calculator.
func (c FIFOCalculator) Calculate(txs []Transaction, taxYear int) FIFOResult {
	if issues := c.Validate(txs); len(issues) > 0 {
		return FIFOResult{Issues: issues, Portfolio: NewPortfolio()}
	}

	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	SortTransactions(sorted)

	portfolio := NewPortfolio()
	result := FIFOResult{Portfolio: portfolio}
	result.Stats.TaxYear = taxYear

	for _, tx := range sorted {
		switch t := tx.(type) {
		case Buy:
			portfolio.AddPurchase(t)
			result.Stats.Buys++

		case Sell:
			if taxYear != 0 && t.Date.Year() != taxYear {
				continue
			}
			matches, err := portfolio.ProcessSale(t)
			if err != nil {
				result.Issues = append(result.Issues, fmt.Sprintf("error processing sale of %s: %v", t.Ticker, err))
				result.Stats.SkippedTxs++
				continue
			}
			result.Matches = append(result.Matches, matches...)
			result.Stats.Sells++
			result.Stats.Matches += len(matches)
		}
	}

	for _, m := range result.Matches {
		result.Stats.IncomePLN = result.Stats.IncomePLN.Add(m.IncomePLN)
		result.Stats.CostPLN = result.Stats.CostPLN.Add(m.CostPLN)
		result.Stats.ProfitPLN = result.Stats.ProfitPLN.Add(m.ProfitPLN)
	}
	return result
}
