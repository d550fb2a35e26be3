package taxcalc

import (
	"sort"
)

// lot is a single open purchase tracked for cost basis. It wraps the
// immutable Buy transaction and carries the mutable remaining state: as sales
// consume the lot, Remaining, ValuePLN and FeePLN shrink proportionally so
// that later consumptions stay exact.
type lot struct {
	buy       Buy
	Remaining Quantity
	ValuePLN  Money // PLN cost of the remaining shares
	FeePLN    Money // PLN purchase fee attributable to the remaining shares
}

func newLot(buy Buy) *lot {
	return &lot{buy: buy, Remaining: buy.Quantity, ValuePLN: buy.ValuePLN, FeePLN: buy.FeePLN}
}

// Date returns the purchase date of the lot.
func (l *lot) Date() Date { return l.buy.Date }

// Position is the per-ticker ordered sequence of open lots, oldest first.
type Position struct {
	Ticker string
	lots   []*lot
}

// AddPurchase appends a new lot for the given buy and restores the FIFO
// invariant: lots sorted by purchase date ascending, same-day lots in
// insertion order.
func (p *Position) AddPurchase(buy Buy) {
	p.lots = append(p.lots, newLot(buy))
	sort.SliceStable(p.lots, func(i, j int) bool {
		return p.lots[i].Date().Before(p.lots[j].Date())
	})
}

// TotalShares returns the sum of remaining quantities across all open lots.
func (p *Position) TotalShares() Quantity {
	var total Quantity
	for _, l := range p.lots {
		total = total.Add(l.Remaining)
	}
	return total
}

// CostBasis returns the PLN cost (purchase value plus fees) of the remaining shares.
func (p *Position) CostBasis() Money {
	var total Money
	for _, l := range p.lots {
		total = total.Add(l.ValuePLN).Add(l.FeePLN)
	}
	return total
}

// Portfolio tracks the open purchase lots per ticker. A Portfolio is created
// fresh for each calculation run, mutated by buys and sales, and left holding
// the open-position state when the run completes.
type Portfolio struct {
	positions map[string]*Position
}

// NewPortfolio creates an empty portfolio.
func NewPortfolio() *Portfolio {
	return &Portfolio{positions: make(map[string]*Position)}
}

// AddPurchase records a buy transaction as a new open lot.
func (pf *Portfolio) AddPurchase(buy Buy) {
	pos, ok := pf.positions[buy.Ticker]
	if !ok {
		pos = &Position{Ticker: buy.Ticker}
		pf.positions[buy.Ticker] = pos
	}
	pos.AddPurchase(buy)
}

// TotalShares returns the open share count for a ticker, zero if unknown.
func (pf *Portfolio) TotalShares(ticker string) Quantity {
	pos, ok := pf.positions[ticker]
	if !ok {
		return Quantity{}
	}
	return pos.TotalShares()
}

// Position returns the open position for a ticker, or nil if none.
func (pf *Portfolio) Position(ticker string) *Position {
	return pf.positions[ticker]
}

// Tickers returns the tickers with at least one open lot, sorted.
func (pf *Portfolio) Tickers() []string {
	tickers := make([]string, 0, len(pf.positions))
	for ticker, pos := range pf.positions {
		if len(pos.lots) > 0 {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}
