package taxcalc

import (
	"testing"

	"github.com/shopspring/decimal"
)

// one is the identity exchange rate used by the PLN-denominated fixtures.
var one = decimal.NewFromInt(1)

// day parses a date or fails the test.
func day(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("invalid test date %q: %v", s, err)
	}
	return d
}

// buyOn builds a resolved PLN purchase.
func buyOn(t *testing.T, date, ticker string, qty, price float64) Buy {
	t.Helper()
	tx := NewBuy(day(t, date), ticker, "", "", Q(qty), PLN(price))
	tx.Resolve(one)
	return tx
}

// sellOn builds a resolved PLN sale.
func sellOn(t *testing.T, date, ticker string, qty, price float64) Sell {
	t.Helper()
	tx := NewSell(day(t, date), ticker, "", "", Q(qty), PLN(price))
	tx.Resolve(one)
	return tx
}

// dividendOn builds a resolved PLN dividend with a country and withholding.
func dividendOn(t *testing.T, date, ticker, country string, total, withheld float64) Dividend {
	t.Helper()
	tx := NewDividend(day(t, date), ticker, "", "", Q(1), PLN(total))
	tx.Country = country
	tx.WithholdingForeign = PLN(withheld)
	tx.Resolve(one)
	return tx
}

// assertMoney fails unless got is the given PLN amount.
func assertMoney(t *testing.T, label string, got Money, want float64) {
	t.Helper()
	if !got.Equal(PLN(want)) {
		t.Errorf("%s = %s, want %s", label, got.Amount(), PLN(want).Amount())
	}
}
