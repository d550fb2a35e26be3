package trading212

import (
	"strings"
	"testing"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/R4Sput1n/trading212-tax-calculator-PL/companyinfo"
	"github.com/R4Sput1n/trading212-tax-calculator-PL/nbp"
	"github.com/shopspring/decimal"
)

const header = "Action,Time,ISIN,Ticker,Name,No. of shares,Price / share,Currency (Price / share),Currency conversion fee,Currency (Currency conversion fee),Withholding tax\n"

// newTestParser wires the parser with static rates (USD 4.0, EUR 4.5) and a
// fixed ISIN-to-country table.
func newTestParser() *Parser {
	countries := &companyinfo.Static{
		Countries: map[string]string{"US0378331005": "United States"},
		Registry:  taxcalc.NewCountryRegistry(),
	}
	return New(nbp.NewStatic(), countries)
}

func parse(t *testing.T, csv string) []taxcalc.Transaction {
	t.Helper()
	txs, err := newTestParser().Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	return txs
}

func TestParseBuy(t *testing.T) {
	txs := parse(t, header+
		`Market buy,2024-03-13 14:03:21,US0378331005,AAPL,Apple Inc.,10,150.25,USD,0.50,PLN,`+"\n")

	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	buy, ok := txs[0].(taxcalc.Buy)
	if !ok {
		t.Fatalf("got %T, want Buy", txs[0])
	}

	if buy.Ticker != "AAPL" || buy.ISIN != "US0378331005" || buy.Country != "United States" {
		t.Errorf("identity fields: %+v", buy)
	}
	if buy.When() != taxcalc.NewDate(2024, 3, 13) {
		t.Errorf("date = %s", buy.When())
	}
	if !buy.Quantity.Equal(taxcalc.Q(10)) {
		t.Errorf("quantity = %s", buy.Quantity)
	}
	// 10 x 150.25 USD at the static rate of 4.0.
	if !buy.ValuePLN.Equal(taxcalc.PLN(6010)) {
		t.Errorf("value = %s %s, want 6010 PLN", buy.ValuePLN.Amount(), buy.ValuePLN.Currency())
	}
	if !buy.FeePLN.Equal(taxcalc.PLN(0.5)) {
		t.Errorf("fee = %s, want 0.50 PLN", buy.FeePLN.Amount())
	}
	if err := buy.Validate(); err != nil {
		t.Errorf("parsed buy does not validate: %v", err)
	}
}

func TestParseSell(t *testing.T) {
	txs := parse(t, header+
		`Limit sell,2024-06-10 09:30:00,US0378331005,AAPL,Apple Inc.,4,180,USD,,,`+"\n")

	sell, ok := txs[0].(taxcalc.Sell)
	if !ok {
		t.Fatalf("got %T, want Sell", txs[0])
	}
	if !sell.ValuePLN.Equal(taxcalc.PLN(2880)) {
		t.Errorf("value = %s, want 2880 PLN", sell.ValuePLN.Amount())
	}
}

func TestParseDividend(t *testing.T) {
	txs := parse(t, header+
		`Dividend (Dividends paid by us corporations),2024-03-15 00:00:00,US0378331005,AAPL,Apple Inc.,10,0.24,USD,,,0.36`+"\n")

	div, ok := txs[0].(taxcalc.Dividend)
	if !ok {
		t.Fatalf("got %T, want Dividend", txs[0])
	}
	// 10 x 0.24 USD at 4.0.
	if !div.ValuePLN.Equal(taxcalc.PLN(9.6)) {
		t.Errorf("value = %s, want 9.6 PLN", div.ValuePLN.Amount())
	}
	// Withholding is quoted in the trade currency.
	if !div.WithholdingPLN.Equal(taxcalc.PLN(1.44)) {
		t.Errorf("withholding = %s, want 1.44 PLN", div.WithholdingPLN.Amount())
	}
	if div.Country != "United States" {
		t.Errorf("country = %q", div.Country)
	}
}

func TestParseCountryFromISINFallback(t *testing.T) {
	txs := parse(t, header+
		`Market buy,2024-03-13 10:00:00,IE00B4L5Y983,IWDA,iShares Core MSCI World,1,80,EUR,,,`+"\n")

	buy := txs[0].(taxcalc.Buy)
	if buy.Country != "Ireland (from ISIN)" {
		t.Errorf("country = %q, want the ISIN fallback label", buy.Country)
	}
}

func TestParseFeeInThirdCurrency(t *testing.T) {
	// Conversion fee in EUR on a USD-priced trade: converted at the EUR rate
	// (static 4.5) instead of aborting on the currency mix.
	txs := parse(t, header+
		`Market buy,2024-03-13 10:00:00,US0378331005,AAPL,Apple Inc.,1,100,USD,2,EUR,`+"\n")

	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	buy := txs[0].(taxcalc.Buy)
	if !buy.ValuePLN.Equal(taxcalc.PLN(400)) {
		t.Errorf("value = %s, want 400 PLN", buy.ValuePLN.Amount())
	}
	if !buy.FeePLN.Equal(taxcalc.PLN(9)) {
		t.Errorf("fee = %s, want 9 PLN", buy.FeePLN.Amount())
	}
}

func TestParseSkipsIrrelevantActions(t *testing.T) {
	txs := parse(t, header+
		`Deposit,2024-01-02 10:00:00,,,,,,,,,`+"\n"+
		`Interest on cash,2024-01-31 10:00:00,,,,,,,,,`+"\n"+
		`Market buy,2024-03-13 10:00:00,US0378331005,AAPL,Apple Inc.,1,100,USD,,,`+"\n")

	if len(txs) != 1 || txs[0].What() != taxcalc.KindBuy {
		t.Errorf("got %d transactions (%v), want just the buy", len(txs), txs)
	}
}

func TestParseSkipsBadRows(t *testing.T) {
	txs := parse(t, header+
		`Market buy,not-a-date,US0378331005,AAPL,Apple Inc.,1,100,USD,,,`+"\n"+
		`Market buy,2024-03-13 10:00:00,US0378331005,AAPL,Apple Inc.,not-a-number,100,USD,,,`+"\n"+
		`Market buy,2024-03-13 10:00:00,US0378331005,AAPL,Apple Inc.,1,100,USD,,,`+"\n")

	if len(txs) != 1 {
		t.Errorf("got %d transactions, want the bad rows skipped", len(txs))
	}
}

func TestParseSortsChronologically(t *testing.T) {
	txs := parse(t, header+
		`Market sell,2024-06-10 09:00:00,US0378331005,AAPL,Apple Inc.,1,180,USD,,,`+"\n"+
		`Market buy,2024-03-13 10:00:00,US0378331005,AAPL,Apple Inc.,1,100,USD,,,`+"\n")

	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].What() != taxcalc.KindBuy || txs[1].What() != taxcalc.KindSell {
		t.Errorf("not sorted: %s then %s", txs[0].What(), txs[1].What())
	}
}

func TestParseDomesticCurrency(t *testing.T) {
	txs := parse(t, header+
		`Market buy,2024-03-13 10:00:00,,XTB,XTB S.A.,2,40,PLN,,,`+"\n")

	buy := txs[0].(taxcalc.Buy)
	if !buy.ExchangeRate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("PLN exchange rate = %s, want 1", buy.ExchangeRate)
	}
	if !buy.ValuePLN.Equal(taxcalc.PLN(80)) {
		t.Errorf("value = %s, want 80 PLN", buy.ValuePLN.Amount())
	}
}
